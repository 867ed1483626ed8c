package nats

import (
	"context"

	natspkg "github.com/nats-io/nats.go"

	"github.com/lmco/eurekastreams/internal/port"
)

// Publisher hands batches to NATS. The message topic is the subject; the batch id
// travels in the Nats-Msg-Id header so JetStream can drop duplicates.
type Publisher struct {
	client *Client
}

func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

func (p *Publisher) Publish(ctx context.Context, msg port.BatchMessage) error {
	m := natspkg.NewMsg(msg.Topic)
	m.Header.Set(natspkg.MsgIdHdr, msg.ID)
	m.Header.Set("Content-Type", "application/json")
	m.Data = msg.Payload
	return p.client.Publish(ctx, m)
}

var _ port.BatchPublisher = (*Publisher)(nil)
