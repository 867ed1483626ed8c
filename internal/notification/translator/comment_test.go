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

func commentEvent(actor, activityID, commentID int64) domain.CommentEvent {
	return domain.CommentEvent{
		Type:       domain.EventCommentPersonal,
		ActorID:    actor,
		ActivityID: activityID,
		CommentID:  commentID,
	}
}

func TestCommentTranslator_AuthorOnly(t *testing.T) {
	t.Parallel()

	tr := NewCommentTranslator(activities(personalPost(100, 1, 1)), listOf(nil).Lookup())

	batch, err := tr.Translate(context.Background(), commentEvent(2, 100, 500))
	require.NoError(t, err)
	require.NotNil(t, batch)
	assert.Equal(t, []notification.Category{notification.CommentToPersonalPost}, batch.Categories())
	assert.Equal(t, []int64{1}, batch.Recipients(notification.CommentToPersonalPost))
	assert.Empty(t, batch.Recipients(notification.CommentToCommentedPost))
}

func TestCommentTranslator_ExcludesActorAndAuthorFromCommentors(t *testing.T) {
	t.Parallel()

	commentors := listOf(map[int64][]int64{100: {1, 3, 4}})
	tr := NewCommentTranslator(activities(personalPost(100, 1, 1)), commentors.Lookup())

	batch, err := tr.Translate(context.Background(), commentEvent(3, 100, 500))
	require.NoError(t, err)
	require.NotNil(t, batch)
	assert.Equal(t, []int64{1}, batch.Recipients(notification.CommentToPersonalPost))
	assert.Equal(t, []int64{4}, batch.Recipients(notification.CommentToCommentedPost))

	actor, ok := batch.Property(notification.PropActor)
	require.True(t, ok)
	assert.Equal(t, notification.PersonRef(3), actor)
	source, ok := batch.Property(notification.PropSource)
	require.True(t, ok)
	assert.Equal(t, notification.PersonRef(1), source)
	comment, ok := batch.Property(notification.PropComment)
	require.True(t, ok)
	assert.Equal(t, notification.CommentRef(500), comment)
	url, ok := batch.Property(notification.PropURL)
	require.True(t, ok)
	assert.Equal(t, notification.Literal{V: "/activity/100"}, url)
}

func TestCommentTranslator_AuthorCommentingOnOwnPost(t *testing.T) {
	t.Parallel()

	commentors := listOf(map[int64][]int64{100: {1, 5, 5, 6}})
	tr := NewCommentTranslator(activities(personalPost(100, 1, 1)), commentors.Lookup())

	batch, err := tr.Translate(context.Background(), commentEvent(1, 100, 500))
	require.NoError(t, err)
	require.NotNil(t, batch)
	assert.Equal(t, []notification.Category{notification.CommentToCommentedPost}, batch.Categories())
	assert.Equal(t, []int64{5, 6}, batch.Recipients(notification.CommentToCommentedPost))
}

func TestCommentTranslator_NobodyToNotify(t *testing.T) {
	t.Parallel()

	commentors := listOf(map[int64][]int64{100: {1}})
	tr := NewCommentTranslator(activities(personalPost(100, 1, 1)), commentors.Lookup())

	batch, err := tr.Translate(context.Background(), commentEvent(1, 100, 500))
	require.NoError(t, err)
	assert.Nil(t, batch)
}

func TestCommentTranslator_MissingActivity(t *testing.T) {
	t.Parallel()

	commentors := listOf(map[int64][]int64{100: {4}})
	tr := NewCommentTranslator(activities(), commentors.Lookup())

	batch, err := tr.Translate(context.Background(), commentEvent(2, 100, 500))
	require.NoError(t, err)
	assert.Nil(t, batch)
	assert.Zero(t, commentors.calls.Load())
}

func TestCommentTranslator_AppAuthoredActivity(t *testing.T) {
	t.Parallel()

	post := personalPost(100, 9, 1)
	post.ActorType = domain.EntityApp
	commentors := listOf(map[int64][]int64{100: {1, 4}})
	tr := NewCommentTranslator(activities(post), commentors.Lookup())

	batch, err := tr.Translate(context.Background(), commentEvent(2, 100, 500))
	require.NoError(t, err)
	require.NotNil(t, batch)
	assert.Empty(t, batch.Recipients(notification.CommentToPersonalPost))
	assert.Equal(t, []int64{1, 4}, batch.Recipients(notification.CommentToCommentedPost))
}

func TestCommentTranslator_LookupError(t *testing.T) {
	t.Parallel()

	boom := errors.New("db down")
	tr := NewCommentTranslator(activities(personalPost(100, 1, 1)), failingList(boom))

	batch, err := tr.Translate(context.Background(), commentEvent(2, 100, 500))
	require.ErrorIs(t, err, boom)
	assert.Nil(t, batch)
}

func TestCommentTranslator_FinderError(t *testing.T) {
	t.Parallel()

	boom := errors.New("db down")
	finder := &FinderMock{
		FindActivityFunc: func(context.Context, int64) (*domain.Activity, error) { return nil, boom },
	}
	tr := NewCommentTranslator(finder, listOf(nil).Lookup())

	_, err := tr.Translate(context.Background(), commentEvent(2, 100, 500))
	require.ErrorIs(t, err, boom)
}
