// Package amqp hands notification batches to RabbitMQ for deployments whose delivery
// workers consume from a queue instead of NATS.
package amqp

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrClosed is returned when the connection is gone and no channel can be opened.
var ErrClosed = errors.New("rabbitmq connection is closed")

// Connection holds the RabbitMQ connection and the channel publishers share. A channel
// the broker closed is reopened on next use.
type Connection struct {
	Connection *amqp.Connection
	Channel    *amqp.Channel

	mu sync.Mutex
}

func Connect(url string) (*Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	return &Connection{Connection: conn, Channel: ch}, nil
}

// channel returns the open channel. fresh reports that it was just reopened, so any
// per-channel setup must run again.
func (c *Connection) channel() (ch *amqp.Channel, fresh bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Channel != nil && !c.Channel.IsClosed() {
		return c.Channel, false, nil
	}
	if c.Connection == nil || c.Connection.IsClosed() {
		return nil, false, ErrClosed
	}
	ch, err = c.Connection.Channel()
	if err != nil {
		return nil, false, fmt.Errorf("reopen channel: %w", err)
	}
	slog.Warn("RabbitMQ channel reopened")
	c.Channel = ch
	return ch, true, nil
}

func (c *Connection) Close() error {
	if c.Channel != nil {
		if err := c.Channel.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			slog.Error("failed to close RabbitMQ channel", "error", err)
		}
	}
	if c.Connection != nil {
		if err := c.Connection.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			return fmt.Errorf("close RabbitMQ connection: %w", err)
		}
	}
	return nil
}

// IsHealthy reports whether both the connection and the shared channel are open.
func (c *Connection) IsHealthy() bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Connection != nil && !c.Connection.IsClosed() &&
		c.Channel != nil && !c.Channel.IsClosed()
}
