package translator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmco/eurekastreams/internal/domain"
	"github.com/lmco/eurekastreams/internal/notification"
	"github.com/lmco/eurekastreams/internal/port"
)

type groupCommentFixture struct {
	finder       *FinderMock
	coordinators *lists
	commentors   *lists
	savers       *lists
}

func newGroupCommentFixture() *groupCommentFixture {
	acts := activities(groupPost(100, 1, 50))
	cmts := comments(domain.Comment{ID: 500, ActivityID: 100, AuthorID: 2})
	return &groupCommentFixture{
		finder: &FinderMock{
			FindActivityFunc: acts.FindActivityFunc,
			FindCommentFunc:  cmts.FindCommentFunc,
		},
		coordinators: listOf(map[int64][]int64{50: {1, 10, 11}}),
		commentors:   listOf(map[int64][]int64{100: {10, 3, 2, 4}}),
		savers:       listOf(map[int64][]int64{100: {4, 11, 6, 2}}),
	}
}

func (f *groupCommentFixture) translator(withCoordinators bool) *GroupCommentTranslator {
	var coordinators port.IDListLookup
	if withCoordinators {
		coordinators = f.coordinators.Lookup()
	}
	return NewGroupCommentTranslator(f.finder, f.finder, coordinators, f.commentors.Lookup(), f.savers.Lookup())
}

func groupCommentEvent(actor, commentID int64) domain.CommentEvent {
	return domain.CommentEvent{Type: domain.EventCommentGroup, ActorID: actor, CommentID: commentID}
}

func TestGroupCommentTranslator_PriorityOrder(t *testing.T) {
	t.Parallel()

	f := newGroupCommentFixture()
	batch, err := f.translator(true).Translate(context.Background(), groupCommentEvent(2, 500))
	require.NoError(t, err)
	require.NotNil(t, batch)

	assert.Equal(t, []notification.Category{
		notification.CommentToPersonalPost,
		notification.CommentToGroupStream,
		notification.CommentToCommentedPost,
		notification.CommentToSavedPost,
	}, batch.Categories())
	assert.Equal(t, []int64{1}, batch.Recipients(notification.CommentToPersonalPost))
	assert.Equal(t, []int64{10, 11}, batch.Recipients(notification.CommentToGroupStream))
	assert.Equal(t, []int64{3, 4}, batch.Recipients(notification.CommentToCommentedPost))
	assert.Equal(t, []int64{6}, batch.Recipients(notification.CommentToSavedPost))

	stream, ok := batch.Property(notification.PropStream)
	require.True(t, ok)
	assert.Equal(t, notification.GroupRef(50), stream)
}

func TestGroupCommentTranslator_SetsAreDisjoint(t *testing.T) {
	t.Parallel()

	f := newGroupCommentFixture()
	for _, actor := range []int64{1, 2, 3, 4, 6, 10, 99} {
		batch, err := f.translator(true).Translate(context.Background(), groupCommentEvent(actor, 500))
		require.NoError(t, err)
		require.NotNil(t, batch)

		seen := make(map[int64]notification.Category)
		for _, c := range batch.Categories() {
			for _, id := range batch.Recipients(c) {
				prev, dup := seen[id]
				assert.Falsef(t, dup, "actor %d: recipient %d in %s and %s", actor, id, prev, c)
				assert.NotEqualf(t, actor, id, "actor %d notified of own comment", actor)
				seen[id] = c
			}
		}
	}
}

func TestGroupCommentTranslator_CoordinatorsDisabled(t *testing.T) {
	t.Parallel()

	f := newGroupCommentFixture()
	batch, err := f.translator(false).Translate(context.Background(), groupCommentEvent(2, 500))
	require.NoError(t, err)
	require.NotNil(t, batch)

	assert.Empty(t, batch.Recipients(notification.CommentToGroupStream))
	assert.Equal(t, []int64{10, 3, 4}, batch.Recipients(notification.CommentToCommentedPost))
	assert.Equal(t, []int64{11, 6}, batch.Recipients(notification.CommentToSavedPost))
	assert.Zero(t, f.coordinators.calls.Load())
}

func TestGroupCommentTranslator_MissingComment(t *testing.T) {
	t.Parallel()

	f := newGroupCommentFixture()
	batch, err := f.translator(true).Translate(context.Background(), groupCommentEvent(2, 501))
	require.NoError(t, err)
	assert.Nil(t, batch)
	assert.Zero(t, f.commentors.calls.Load())
}

func TestGroupCommentTranslator_MissingActivity(t *testing.T) {
	t.Parallel()

	f := newGroupCommentFixture()
	f.finder.FindActivityFunc = nil
	batch, err := f.translator(true).Translate(context.Background(), groupCommentEvent(2, 500))
	require.NoError(t, err)
	assert.Nil(t, batch)
}

func TestGroupCommentTranslator_LookupError(t *testing.T) {
	t.Parallel()

	boom := errors.New("timeout")
	f := newGroupCommentFixture()
	tr := NewGroupCommentTranslator(f.finder, f.finder, f.coordinators.Lookup(), f.commentors.Lookup(), failingList(boom))

	batch, err := tr.Translate(context.Background(), groupCommentEvent(2, 500))
	require.ErrorIs(t, err, boom)
	assert.Nil(t, batch)
}
