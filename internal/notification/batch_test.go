package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatch_AddRecipientsAccumulates(t *testing.T) {
	t.Parallel()

	b := NewBatch()
	b.AddRecipients(FollowGroup, 3, 1)
	b.AddRecipients(LikeActivity, 9)
	b.AddRecipients(FollowGroup, 1, 2, 3, 4)

	assert.Equal(t, []int64{3, 1, 2, 4}, b.Recipients(FollowGroup))
	assert.Equal(t, []Category{FollowGroup, LikeActivity}, b.Categories())
	assert.Equal(t, []int64{3, 1, 2, 4, 9}, b.AllRecipients())
}

func TestBatch_EmptyAddCreatesNoCategory(t *testing.T) {
	t.Parallel()

	b := NewBatch()
	b.AddRecipients(CommentToSavedPost)
	b.AddRecipients(CommentToSavedPost, []int64{}...)

	assert.True(t, b.Empty())
	assert.Empty(t, b.Categories())
	assert.Nil(t, b.Recipients(CommentToSavedPost))
}

func TestBatch_AllRecipientsDistinctAcrossCategories(t *testing.T) {
	t.Parallel()

	b := NewBatchFor(CommentToPersonalPost, 1)
	b.AddRecipients(CommentToCommentedPost, 1, 2)
	assert.Equal(t, []int64{1, 2}, b.AllRecipients())
}

func TestBatch_AccessorsReturnCopies(t *testing.T) {
	t.Parallel()

	b := NewBatchFor(LikeActivity, 1, 2)
	b.SetProperty(PropURL, "/activity/1")
	_ = b.SetPropertyAlias(PropSource, PropURL)

	ids := b.Recipients(LikeActivity)
	ids[0] = 42
	props := b.Properties()
	delete(props, PropURL)
	aliases := b.Aliases()
	aliases["x"] = "y"

	assert.Equal(t, []int64{1, 2}, b.Recipients(LikeActivity))
	assert.Contains(t, b.Properties(), PropURL)
	assert.NotContains(t, b.Aliases(), "x")
}

func TestBatch_SetPropertyWrapsLiterals(t *testing.T) {
	t.Parallel()

	b := NewBatch()
	b.SetProperty(PropHighPriority, true)
	b.SetProperty(PropStream, GroupRef(5))
	b.SetKeyRef(PropSource, KindApp, "client-1")

	v, ok := b.Property(PropHighPriority)
	require.True(t, ok)
	assert.Equal(t, Literal{V: true}, v)
	v, ok = b.Property(PropStream)
	require.True(t, ok)
	assert.Equal(t, GroupRef(5), v)
	v, ok = b.Property(PropSource)
	require.True(t, ok)
	assert.Equal(t, AppRef("client-1"), v)
}

func TestBatch_AliasChainsCollapse(t *testing.T) {
	t.Parallel()

	b := NewBatch()
	b.SetRef(PropStream, KindPerson, 7)
	require.NoError(t, b.SetPropertyAlias(PropSource, PropStream))
	require.NoError(t, b.SetPropertyAlias(PropActor, PropSource))

	assert.Equal(t, map[string]string{PropSource: PropStream, PropActor: PropStream}, b.Aliases())
	v, ok := b.Property(PropActor)
	require.True(t, ok)
	assert.Equal(t, PersonRef(7), v)
}

func TestBatch_AliasCycle(t *testing.T) {
	t.Parallel()

	b := NewBatch()
	require.ErrorIs(t, b.SetPropertyAlias("a", "a"), ErrAliasCycle)

	require.NoError(t, b.SetPropertyAlias("a", "b"))
	require.NoError(t, b.SetPropertyAlias("b", "c"))
	require.ErrorIs(t, b.SetPropertyAlias("c", "a"), ErrAliasCycle)

	_, ok := b.Property("a")
	assert.False(t, ok)
}

func TestBatch_SetPropertyReplacesAlias(t *testing.T) {
	t.Parallel()

	b := NewBatch()
	b.SetRef(PropStream, KindGroup, 3)
	require.NoError(t, b.SetPropertyAlias(PropSource, PropStream))
	b.SetRef(PropSource, KindPerson, 4)

	assert.NotContains(t, b.Aliases(), PropSource)
	v, ok := b.Property(PropSource)
	require.True(t, ok)
	assert.Equal(t, PersonRef(4), v)

	require.NoError(t, b.SetPropertyAlias(PropSource, PropStream))
	assert.NotContains(t, b.Properties(), PropSource)
}

func TestParseCategory(t *testing.T) {
	t.Parallel()

	c, err := ParseCategory("flag_activity")
	require.NoError(t, err)
	assert.Equal(t, FlagActivity, c)

	_, err = ParseCategory("flag-activity")
	require.Error(t, err)
}
