package service

import (
	"context"
	"time"

	"github.com/lmco/eurekastreams/internal/pkg/logger"
	"github.com/lmco/eurekastreams/internal/port"
)

// OutboxRelay moves batches from the outbox to the publisher. A batch that fails to
// publish stays pending and is retried on the next tick, ahead of newer ones.
type OutboxRelay struct {
	Outbox    port.OutboxRepository
	Publisher port.BatchPublisher
	TxManager port.TxManager
	Interval  time.Duration
	BatchSize int
}

func NewOutboxRelay(outbox port.OutboxRepository, publisher port.BatchPublisher, txManager port.TxManager, interval time.Duration, batchSize int) *OutboxRelay {
	if interval <= 0 {
		interval = time.Second
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &OutboxRelay{
		Outbox:    outbox,
		Publisher: publisher,
		TxManager: txManager,
		Interval:  interval,
		BatchSize: batchSize,
	}
}

// Run relays until ctx is cancelled.
func (r *OutboxRelay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := r.RelayOnce(ctx); err != nil && ctx.Err() == nil {
				logger.From(ctx).Warn("outbox relay failed", "error", err)
			}
		}
	}
}

// RelayOnce publishes up to BatchSize pending messages in order and returns how many
// were delivered. It stops at the first publish failure.
func (r *OutboxRelay) RelayOnce(ctx context.Context) (int, error) {
	sent := 0
	relay := func(ctx context.Context) error {
		pending, err := r.Outbox.ListPending(ctx, r.BatchSize)
		if err != nil {
			return wrapStage(StageStore, ErrCodeOutbox, "list pending", err)
		}
		for _, msg := range pending {
			if err := r.Publisher.Publish(ctx, msg); err != nil {
				outboxRelayed.WithLabelValues("error").Inc()
				return wrapStage(StagePublish, ErrCodePublishBatch, msg.ID, err)
			}
			if err := r.Outbox.MarkProcessed(ctx, msg.ID); err != nil {
				return wrapStage(StageStore, ErrCodeOutbox, "mark "+msg.ID, err)
			}
			outboxRelayed.WithLabelValues("ok").Inc()
			sent++
		}
		return nil
	}

	var err error
	if r.TxManager != nil {
		err = r.TxManager.WithTx(ctx, relay)
	} else {
		err = relay(ctx)
	}
	if sent > 0 {
		logger.From(ctx).Debug("outbox relayed", "batches", sent)
	}
	return sent, err
}
