package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/lmco/eurekastreams/internal/port"
)

// SystemRepositoryStub keeps idempotency keys and the outbox in memory. Only pending
// outbox messages are kept; MarkProcessed drops them.
type SystemRepositoryStub struct {
	mu     sync.Mutex
	keys   map[string][]byte
	outbox []port.BatchMessage
}

func NewSystemRepositoryStub() *SystemRepositoryStub {
	return &SystemRepositoryStub{
		keys: make(map[string][]byte),
	}
}

func (r *SystemRepositoryStub) Check(_ context.Context, key string) (bool, []byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, ok := r.keys[key]
	return ok, data, nil
}

func (r *SystemRepositoryStub) Save(_ context.Context, key string, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys[key] = append([]byte(nil), data...)
	return nil
}

func (r *SystemRepositoryStub) SaveEvent(_ context.Context, id, topic string, payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending(id) >= 0 {
		return fmt.Errorf("outbox event %s already exists", id)
	}
	r.outbox = append(r.outbox, port.BatchMessage{ID: id, Topic: topic, Payload: append([]byte(nil), payload...)})
	return nil
}

func (r *SystemRepositoryStub) ListPending(_ context.Context, limit int) ([]port.BatchMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	limit = min(max(limit, 0), len(r.outbox))
	return append([]port.BatchMessage(nil), r.outbox[:limit]...), nil
}

func (r *SystemRepositoryStub) MarkProcessed(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.pending(id)
	if i < 0 {
		return fmt.Errorf("outbox event %s not found", id)
	}
	r.outbox = slices.Delete(r.outbox, i, i+1)
	return nil
}

func (r *SystemRepositoryStub) pending(id string) int {
	return slices.IndexFunc(r.outbox, func(m port.BatchMessage) bool { return m.ID == id })
}

// WithTx runs fn directly; the stub has nothing to roll back.
func (r *SystemRepositoryStub) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

var (
	_ port.IdempotencyStore = (*SystemRepositoryStub)(nil)
	_ port.OutboxRepository = (*SystemRepositoryStub)(nil)
	_ port.TxManager        = (*SystemRepositoryStub)(nil)
)
