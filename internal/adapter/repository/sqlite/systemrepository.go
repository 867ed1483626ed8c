package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/lmco/eurekastreams/internal/port"
)

func (s *Store) Check(ctx context.Context, key string) (bool, []byte, error) {
	var data []byte
	err := sqlx.GetContext(ctx, s.executor(ctx), &data, "SELECT response FROM idempotency_keys WHERE key = ?", key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil, nil
		}
		return false, nil, fmt.Errorf("checking idempotency key: %w", err)
	}
	return true, data, nil
}

func (s *Store) Save(ctx context.Context, key string, data []byte) error {
	_, err := s.executor(ctx).ExecContext(ctx,
		"INSERT INTO idempotency_keys (key, response) VALUES (?, ?) ON CONFLICT (key) DO UPDATE SET response = excluded.response",
		key, data)
	if err != nil {
		return fmt.Errorf("saving idempotency key: %w", err)
	}
	return nil
}

func (s *Store) SaveEvent(ctx context.Context, id, topic string, payload []byte) error {
	_, err := s.executor(ctx).ExecContext(ctx,
		"INSERT INTO outbox_events (id, topic, payload) VALUES (?, ?, ?)", id, topic, payload)
	if err != nil {
		return fmt.Errorf("saving outbox event %s: %w", id, err)
	}
	return nil
}

func (s *Store) ListPending(ctx context.Context, limit int) ([]port.BatchMessage, error) {
	rows, err := s.executor(ctx).QueryxContext(ctx,
		"SELECT id, topic, payload FROM outbox_events WHERE processed_at IS NULL ORDER BY created_at, rowid LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("listing outbox events: %w", err)
	}
	defer rows.Close()

	var items []port.BatchMessage
	for rows.Next() {
		var m port.BatchMessage
		if err := rows.Scan(&m.ID, &m.Topic, &m.Payload); err != nil {
			return nil, fmt.Errorf("scanning outbox event: %w", err)
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func (s *Store) MarkProcessed(ctx context.Context, id string) error {
	_, err := s.executor(ctx).ExecContext(ctx,
		"UPDATE outbox_events SET processed_at = CURRENT_TIMESTAMP WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("marking outbox event %s: %w", id, err)
	}
	return nil
}

var (
	_ port.IdempotencyStore = (*Store)(nil)
	_ port.OutboxRepository = (*Store)(nil)
	_ port.TxManager        = (*Store)(nil)
)
