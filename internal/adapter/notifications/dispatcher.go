package notifications

import (
	"context"
	"fmt"
	"strings"

	"github.com/lmco/eurekastreams/internal/port"
)

// Dispatcher routes batch messages to configured sinks (NATS, AMQP, log). It is itself a
// BatchPublisher, so the notifier and the outbox relay do not know how many sinks exist.
type Dispatcher struct {
	sinks    map[string]port.BatchPublisher
	policies []dispatchPolicy
	defaults []string
}

type dispatchPolicy struct {
	Topic string
	Sinks []string
}

// NewDispatcher builds a dispatcher that sends unmatched topics to defaultSinks.
func NewDispatcher(defaultSinks ...string) *Dispatcher {
	return &Dispatcher{
		sinks:    make(map[string]port.BatchPublisher),
		defaults: defaultSinks,
	}
}

func (d *Dispatcher) AddSink(name string, sink port.BatchPublisher) {
	d.sinks[strings.TrimSpace(name)] = sink
}

// Route sends messages of topic to sinks instead of the defaults. The first matching
// route wins.
func (d *Dispatcher) Route(topic string, sinks ...string) {
	d.policies = append(d.policies, dispatchPolicy{Topic: topic, Sinks: append([]string(nil), sinks...)})
}

// Publish delivers msg to every sink its topic routes to, in order, and stops at the
// first failure.
func (d *Dispatcher) Publish(ctx context.Context, msg port.BatchMessage) error {
	channels := d.channelsFor(msg.Topic)
	if len(channels) == 0 {
		return fmt.Errorf("no sink configured for topic %q", msg.Topic)
	}
	for _, channel := range channels {
		channel = strings.TrimSpace(channel)
		sink, ok := d.sinks[channel]
		if !ok || sink == nil {
			return fmt.Errorf("notification sink %q is not configured", channel)
		}
		if err := sink.Publish(ctx, msg); err != nil {
			return fmt.Errorf("send via %s: %w", channel, err)
		}
	}
	return nil
}

func (d *Dispatcher) channelsFor(topic string) []string {
	for _, rule := range d.policies {
		if strings.TrimSpace(rule.Topic) != "" && !strings.EqualFold(strings.TrimSpace(rule.Topic), strings.TrimSpace(topic)) {
			continue
		}
		return rule.Sinks
	}
	return d.defaults
}

var _ port.BatchPublisher = (*Dispatcher)(nil)
