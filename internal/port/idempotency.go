package port

import "context"

// IdempotencyStore records which domain events were already translated, so a
// redelivered event does not notify anyone twice.
type IdempotencyStore interface {
	// Check returns true if the key was already processed, along with the stored summary.
	Check(ctx context.Context, key string) (bool, []byte, error)
	Save(ctx context.Context, key string, data []byte) error
}
