package amqp

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/lmco/eurekastreams/internal/pkg/logger"
	"github.com/lmco/eurekastreams/internal/port"
)

// channel is the part of *amqp.Channel the publisher uses.
type channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher sends every batch to one durable queue on the default exchange. The
// message topic is carried as the AMQP type.
type Publisher struct {
	queue string
	open  func() (channel, bool, error)

	mu       sync.Mutex
	declared bool
}

func NewPublisher(conn *Connection, queue string) *Publisher {
	return &Publisher{
		queue: queue,
		open: func() (channel, bool, error) {
			ch, fresh, err := conn.channel()
			if err != nil {
				return nil, false, err
			}
			return ch, fresh, nil
		},
	}
}

func (p *Publisher) Publish(ctx context.Context, msg port.BatchMessage) error {
	ch, err := p.prepare()
	if err != nil {
		return err
	}

	err = ch.PublishWithContext(ctx,
		"",      // exchange
		p.queue, // routing key
		false,   // mandatory
		false,   // immediate
		publishing(msg, time.Now()),
	)
	if err != nil {
		return fmt.Errorf("publish batch %s: %w", msg.ID, err)
	}

	logger.From(ctx).Debug("batch published", "queue", p.queue, "batch_id", msg.ID)
	return nil
}

// prepare returns an open channel with the queue declared on it. A failed declaration
// is retried on the next publish.
func (p *Publisher) prepare() (channel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch, fresh, err := p.open()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if fresh {
		p.declared = false
	}
	if !p.declared {
		_, err := ch.QueueDeclare(
			p.queue, // name
			true,    // durable
			false,   // delete when unused
			false,   // exclusive
			false,   // no-wait
			nil,     // arguments
		)
		if err != nil {
			return nil, fmt.Errorf("declare queue %s: %w", p.queue, err)
		}
		p.declared = true
	}
	return ch, nil
}

func publishing(msg port.BatchMessage, now time.Time) amqp.Publishing {
	return amqp.Publishing{
		MessageId:    msg.ID,
		Type:         msg.Topic,
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Body:         msg.Payload,
		Timestamp:    now,
	}
}

var _ port.BatchPublisher = (*Publisher)(nil)
