package port

import "context"

// BatchMessage is an encoded notification batch on its way to the delivery pipeline.
type BatchMessage struct {
	ID      string
	Topic   string
	Payload []byte
}

// BatchPublisher hands a batch to a broker or channel sink.
type BatchPublisher interface {
	Publish(ctx context.Context, msg BatchMessage) error
}
