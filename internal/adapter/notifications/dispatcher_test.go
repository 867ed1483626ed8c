package notifications

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmco/eurekastreams/internal/port"
)

type PublisherMock struct {
	PublishFunc func(ctx context.Context, msg port.BatchMessage) error
	sent        []string
}

func (m *PublisherMock) Publish(ctx context.Context, msg port.BatchMessage) error {
	m.sent = append(m.sent, msg.ID)
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, msg)
	}
	return nil
}

func TestDispatcher_DefaultSinks(t *testing.T) {
	t.Parallel()

	nats, logs := &PublisherMock{}, &PublisherMock{}
	d := NewDispatcher("nats", "log")
	d.AddSink("nats", nats)
	d.AddSink("log", logs)

	require.NoError(t, d.Publish(context.Background(), port.BatchMessage{ID: "b1", Topic: "notifications.batch"}))
	assert.Equal(t, []string{"b1"}, nats.sent)
	assert.Equal(t, []string{"b1"}, logs.sent)
}

func TestDispatcher_RouteByTopic(t *testing.T) {
	t.Parallel()

	nats, queue := &PublisherMock{}, &PublisherMock{}
	d := NewDispatcher("nats")
	d.AddSink("nats", nats)
	d.AddSink("amqp", queue)
	d.Route("Notifications.Priority", "amqp")

	ctx := context.Background()
	require.NoError(t, d.Publish(ctx, port.BatchMessage{ID: "b1", Topic: "notifications.priority"}))
	require.NoError(t, d.Publish(ctx, port.BatchMessage{ID: "b2", Topic: "notifications.batch"}))

	assert.Equal(t, []string{"b1"}, queue.sent)
	assert.Equal(t, []string{"b2"}, nats.sent)
}

func TestDispatcher_Errors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	err := NewDispatcher().Publish(ctx, port.BatchMessage{ID: "b1"})
	require.ErrorContains(t, err, "no sink configured")

	err = NewDispatcher("nats").Publish(ctx, port.BatchMessage{ID: "b1"})
	require.ErrorContains(t, err, `sink "nats" is not configured`)

	boom := errors.New("broker down")
	first, second := &PublisherMock{PublishFunc: func(context.Context, port.BatchMessage) error { return boom }}, &PublisherMock{}
	d := NewDispatcher("a", "b")
	d.AddSink("a", first)
	d.AddSink("b", second)
	err = d.Publish(ctx, port.BatchMessage{ID: "b1"})
	require.ErrorIs(t, err, boom)
	assert.Empty(t, second.sent)
}

func TestLogSink(t *testing.T) {
	t.Parallel()

	require.NoError(t, LogSink{}.Publish(context.Background(), port.BatchMessage{ID: "b1", Payload: []byte(`{}`)}))
}
