package nats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmco/eurekastreams/internal/domain"
)

func TestDecodeMessage(t *testing.T) {
	t.Parallel()

	id, ev, err := decodeMessage("events", "events.activity.like",
		[]byte(`{"id":"e-1","type":"activity.like","event":{"actorId":2,"activityId":100}}`))
	require.NoError(t, err)
	assert.Equal(t, "e-1", id)
	assert.Equal(t, domain.ActivityEvent{Type: domain.EventLike, ActorID: 2, ActivityID: 100}, ev)
}

func TestDecodeMessage_TypeFromSubject(t *testing.T) {
	t.Parallel()

	_, ev, err := decodeMessage("events", "events.follow.person",
		[]byte(`{"id":"e-2","event":{"actorId":2,"targetId":3}}`))
	require.NoError(t, err)
	assert.Equal(t, domain.EventFollowPerson, ev.EventType())
}

func TestDecodeMessage_Errors(t *testing.T) {
	t.Parallel()

	_, _, err := decodeMessage("events", "events.x", []byte(`not json`))
	require.Error(t, err)

	_, _, err = decodeMessage("events", "events.unknown", []byte(`{"id":"e-3","event":{}}`))
	require.ErrorIs(t, err, domain.ErrUnknownEventType)
}

func TestNewClient_Unreachable(t *testing.T) {
	t.Parallel()

	_, err := NewClient("nats://127.0.0.1:1", "test")
	require.Error(t, err)
}
