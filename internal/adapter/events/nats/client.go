// Package nats carries domain events in and notification batches out over NATS.
package nats

import (
	"context"
	"fmt"
	"time"

	natspkg "github.com/nats-io/nats.go"
)

type Client struct {
	nc *natspkg.Conn
}

func NewClient(url, name string) (*Client, error) {
	nc, err := natspkg.Connect(url,
		natspkg.Name(name),
		natspkg.Timeout(2*time.Second),
		natspkg.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", url, err)
	}
	return &Client{nc: nc}, nil
}

func (c *Client) Close() {
	c.nc.Close()
}

// Drain lets subscriptions finish the messages in flight, then closes the connection.
func (c *Client) Drain() error {
	return c.nc.Drain()
}

func (c *Client) IsConnected() bool {
	return c.nc != nil && c.nc.Status() == natspkg.CONNECTED
}

// QueueSubscribe delivers each message on subject to one member of queue. handler
// errors are returned to the caller's onError.
func (c *Client) QueueSubscribe(subject, queue string, handler func(msg *natspkg.Msg) error, onError func(subject string, err error)) (*natspkg.Subscription, error) {
	sub, err := c.nc.QueueSubscribe(subject, queue, func(msg *natspkg.Msg) {
		if err := handler(msg); err != nil && onError != nil {
			onError(msg.Subject, err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", subject, err)
	}
	return sub, nil
}

func (c *Client) Publish(ctx context.Context, msg *natspkg.Msg) error {
	if err := c.nc.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish %s: %w", msg.Subject, err)
	}
	if err := c.nc.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("flush %s: %w", msg.Subject, err)
	}
	return nil
}
