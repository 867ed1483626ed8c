package port

import "context"

// OutboxRepository keeps encoded batches until the relay has handed them to a broker,
// so a batch written in the same transaction as the idempotency key is never lost.
type OutboxRepository interface {
	// SaveEvent persists a batch within the current transaction.
	SaveEvent(ctx context.Context, id, topic string, payload []byte) error
	// ListPending returns undelivered batches, oldest first, up to limit.
	ListPending(ctx context.Context, limit int) ([]BatchMessage, error)
	MarkProcessed(ctx context.Context, id string) error
}
