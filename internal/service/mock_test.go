package service

import (
	"context"
	"strconv"
	"sync"

	"github.com/lmco/eurekastreams/internal/domain"
	"github.com/lmco/eurekastreams/internal/notification"
	"github.com/lmco/eurekastreams/internal/port"
)

type PublisherMock struct {
	PublishFunc func(ctx context.Context, msg port.BatchMessage) error

	mu   sync.Mutex
	sent []port.BatchMessage
}

func (m *PublisherMock) Publish(ctx context.Context, msg port.BatchMessage) error {
	if m.PublishFunc != nil {
		if err := m.PublishFunc(ctx, msg); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *PublisherMock) Sent() []port.BatchMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]port.BatchMessage(nil), m.sent...)
}

type TranslatorMock struct {
	TranslateFunc func(ctx context.Context, ev domain.Event) ([]*notification.Batch, error)
}

func (m *TranslatorMock) Translate(ctx context.Context, ev domain.Event) ([]*notification.Batch, error) {
	return m.TranslateFunc(ctx, ev)
}

type ObserverMock struct {
	ObserveFunc func(ctx context.Context, ev domain.Event)
}

func (m *ObserverMock) Observe(ctx context.Context, ev domain.Event) {
	if m.ObserveFunc != nil {
		m.ObserveFunc(ctx, ev)
	}
}

// sequentialIDs replaces uuid generation so tests can name batches.
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return "batch-" + strconv.Itoa(n)
	}
}
