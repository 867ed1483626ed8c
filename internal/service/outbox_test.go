package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmco/eurekastreams/internal/adapter/repository/memory"
	"github.com/lmco/eurekastreams/internal/port"
)

func seededOutbox(t *testing.T, ids ...string) *memory.SystemRepositoryStub {
	t.Helper()

	sys := memory.NewSystemRepositoryStub()
	for _, id := range ids {
		require.NoError(t, sys.SaveEvent(context.Background(), id, topic, []byte(`{}`)))
	}
	return sys
}

func TestOutboxRelay_RelayOnce(t *testing.T) {
	t.Parallel()

	sys := seededOutbox(t, "b1", "b2", "b3")
	pub := &PublisherMock{}
	r := NewOutboxRelay(sys, pub, sys, time.Second, 2)
	ctx := context.Background()

	sent, err := r.RelayOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)

	sent, err = r.RelayOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	var ids []string
	for _, m := range pub.Sent() {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"b1", "b2", "b3"}, ids)
}

func TestOutboxRelay_StopsAtFailure(t *testing.T) {
	t.Parallel()

	sys := seededOutbox(t, "b1", "b2", "b3")
	failOn := "b2"
	pub := &PublisherMock{PublishFunc: func(_ context.Context, msg port.BatchMessage) error {
		if msg.ID == failOn {
			return errors.New("broker down")
		}
		return nil
	}}
	r := NewOutboxRelay(sys, pub, nil, time.Second, 10)
	ctx := context.Background()

	sent, err := r.RelayOnce(ctx)
	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StagePublish, se.Stage)
	assert.Equal(t, 1, sent)

	pending, err := sys.ListPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "b2", pending[0].ID)

	failOn = ""
	sent, err = r.RelayOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
}

func TestOutboxRelay_Run(t *testing.T) {
	t.Parallel()

	sys := seededOutbox(t, "b1")
	pub := &PublisherMock{}
	r := NewOutboxRelay(sys, pub, sys, time.Millisecond, 0)
	assert.Equal(t, 100, r.BatchSize)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	require.Eventually(t, func() bool { return len(pub.Sent()) == 1 }, time.Second, time.Millisecond)
	cancel()
	require.NoError(t, <-done)
}
