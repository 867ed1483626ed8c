package translator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmco/eurekastreams/internal/domain"
	"github.com/lmco/eurekastreams/internal/notification"
)

func TestRegistry_Dispatch(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	Register[domain.ActivityEvent](r, domain.EventLike, NewLikeTranslator(activities(personalPost(100, 1, 1))))

	batches, err := r.Translate(context.Background(), domain.ActivityEvent{Type: domain.EventLike, ActorID: 2, ActivityID: 100})
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, []int64{1}, batches[0].Recipients(notification.LikeActivity))

	batches, err = r.Translate(context.Background(), domain.ActivityEvent{Type: domain.EventLike, ActorID: 1, ActivityID: 100})
	require.NoError(t, err)
	assert.Empty(t, batches)
}

func TestRegistry_NoTranslator(t *testing.T) {
	t.Parallel()

	_, err := NewRegistry().Translate(context.Background(), domain.TargetEvent{Type: domain.EventFollowPerson, ActorID: 1, TargetID: 2})
	require.ErrorIs(t, err, ErrNoTranslator)
}

func TestRegistry_RequestMismatch(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	Register[domain.ActivityEvent](r, domain.EventFollowPerson, NewLikeTranslator(activities()))
	_, err := r.Translate(context.Background(), domain.TargetEvent{Type: domain.EventFollowPerson, ActorID: 1, TargetID: 2})
	require.ErrorIs(t, err, ErrRequestMismatch)
}

func TestRegistry_SeveralTranslatorsPerType(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	Register[domain.TargetEvent](r, domain.EventFollowPerson, NewFollowPersonTranslator())
	Register[domain.TargetEvent](r, domain.EventFollowPerson, Func[domain.TargetEvent](
		func(_ context.Context, req domain.TargetEvent) (*notification.Batch, error) {
			return notification.NewBatchFor(notification.PassThrough, 99), nil
		}))

	batches, err := r.Translate(context.Background(), domain.TargetEvent{Type: domain.EventFollowPerson, ActorID: 1, TargetID: 2})
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, []int64{2}, batches[0].Recipients(notification.FollowPerson))
	assert.Equal(t, []int64{99}, batches[1].Recipients(notification.PassThrough))
}

func TestRegistry_ErrorStopsDispatch(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	r := NewRegistry()
	Register[domain.TargetEvent](r, domain.EventFollowPerson, Func[domain.TargetEvent](
		func(context.Context, domain.TargetEvent) (*notification.Batch, error) { return nil, boom }))
	Register[domain.TargetEvent](r, domain.EventFollowPerson, NewFollowPersonTranslator())

	batches, err := r.Translate(context.Background(), domain.TargetEvent{Type: domain.EventFollowPerson, ActorID: 1, TargetID: 2})
	require.ErrorIs(t, err, boom)
	assert.Nil(t, batches)
}

func TestBuild_RegistersEveryEventType(t *testing.T) {
	t.Parallel()

	r := Build(Deps{})
	assert.Equal(t, []domain.EventType{
		domain.EventFlag,
		domain.EventLike,
		domain.EventCommentGroup,
		domain.EventCommentPersonal,
		domain.EventFollowGroup,
		domain.EventFollowPerson,
		domain.EventGroupMembership,
		domain.EventNewGroup,
		domain.EventPreBuilt,
		domain.EventPostGroup,
		domain.EventPostPersonal,
	}, r.Types())
}

func TestBuild_CoordinatorFollowingOwnGroup(t *testing.T) {
	t.Parallel()

	r := Build(Deps{
		Groups:       groups(domain.Group{ID: 50, ShortName: "g"}),
		Coordinators: listOf(map[int64][]int64{50: {10, 11}}).Lookup(),
	})
	batches, err := r.Translate(context.Background(), domain.TargetEvent{Type: domain.EventFollowGroup, ActorID: 10, TargetID: 50})
	require.NoError(t, err)
	assert.Empty(t, batches)
}
