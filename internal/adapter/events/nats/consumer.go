package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	natspkg "github.com/nats-io/nats.go"

	"github.com/lmco/eurekastreams/internal/domain"
	"github.com/lmco/eurekastreams/internal/pkg/logger"
)

// EventHandler processes one decoded domain event. eventID is the envelope id, used
// for idempotency.
type EventHandler interface {
	Handle(ctx context.Context, eventID string, ev domain.Event) error
}

// Consumer subscribes to "<subject>.>" and hands every event to the handler. Members of
// the same queue group share the stream.
type Consumer struct {
	client  *Client
	subject string
	queue   string
	handler EventHandler
	timeout time.Duration

	sub *natspkg.Subscription
}

func NewConsumer(client *Client, subject, queue string, handler EventHandler) *Consumer {
	return &Consumer{
		client:  client,
		subject: subject,
		queue:   queue,
		handler: handler,
		timeout: 30 * time.Second,
	}
}

func (c *Consumer) Start() error {
	sub, err := c.client.QueueSubscribe(c.subject+".>", c.queue, c.receive, func(subject string, err error) {
		logger.From(context.Background()).Error("event handling failed", "subject", subject, "error", err)
	})
	if err != nil {
		return err
	}
	c.sub = sub
	return nil
}

func (c *Consumer) Stop() error {
	if c.sub == nil {
		return nil
	}
	return c.sub.Drain()
}

func (c *Consumer) receive(msg *natspkg.Msg) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	id, ev, err := decodeMessage(c.subject, msg.Subject, msg.Data)
	if err != nil {
		return err
	}
	return c.handler.Handle(ctx, id, ev)
}

// decodeMessage reads an envelope published on subject. An envelope without a type
// takes it from the subject suffix after prefix.
func decodeMessage(prefix, subject string, data []byte) (string, domain.Event, error) {
	var env domain.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", nil, fmt.Errorf("decode envelope on %s: %w", subject, err)
	}
	if env.Type == "" {
		env.Type = domain.EventType(strings.TrimPrefix(subject, prefix+"."))
	}
	ev, err := env.Decode()
	if err != nil {
		return "", nil, err
	}
	return env.ID, ev, nil
}
