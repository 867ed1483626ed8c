package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmco/eurekastreams/internal/domain"
)

// newTestStore opens an in-memory database with all migrations applied.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})
	return s
}

func testDataset() domain.Dataset {
	return domain.Dataset{
		People: []domain.Person{{ID: 1, AccountID: "ada", DisplayName: "Ada"}},
		Groups: []domain.Group{{ID: 50, ShortName: "golang", Name: "Gophers", Private: true}},
		Activities: []domain.Activity{
			{ID: 100, Verb: domain.VerbPost, ActorID: 1, DestinationType: domain.EntityGroup, DestinationID: 50},
		},
		Comments: []domain.Comment{
			{ID: 3, ActivityID: 100, AuthorID: 4},
			{ID: 1, ActivityID: 100, AuthorID: 2},
			{ID: 2, ActivityID: 100, AuthorID: 4},
		},
		Apps:                []domain.App{{ClientID: "bot", Name: "Build Bot"}},
		Coordinators:        map[int64][]int64{50: {11, 10}},
		Members:             map[int64][]int64{50: {5, 6, 7}},
		UnrestrictedMembers: map[int64][]int64{50: {7, 5}},
		Subscribers:         map[int64][]int64{1: {8, 9}},
		Savers:              map[int64][]int64{100: {6}},
		Admins:              []int64{90, 91},
	}
}

func TestStore_ImportAndRead(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Import(ctx, testDataset()))

	g, err := s.FindGroup(ctx, 50)
	require.NoError(t, err)
	assert.Equal(t, domain.Group{ID: 50, ShortName: "golang", Name: "Gophers", Private: true}, *g)

	a, err := s.FindActivity(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, domain.EntityPerson, a.ActorType)
	assert.Equal(t, int64(50), a.DestinationID)

	app, err := s.FindApp(ctx, "bot")
	require.NoError(t, err)
	assert.Equal(t, "Build Bot", app.Name)

	lists := []struct {
		name string
		got  func() ([]int64, error)
		want []int64
	}{
		{"commentors", func() ([]int64, error) { return s.CommentorIDs(ctx, 100) }, []int64{2, 4}},
		{"savers", func() ([]int64, error) { return s.SaverIDs(ctx, 100) }, []int64{6}},
		{"coordinators", func() ([]int64, error) { return s.CoordinatorIDs(ctx, 50) }, []int64{11, 10}},
		{"members", func() ([]int64, error) { return s.MemberIDs(ctx, 50) }, []int64{5, 6, 7}},
		{"unrestricted", func() ([]int64, error) { return s.UnrestrictedMemberIDs(ctx, 50) }, []int64{5, 7}},
		{"subscribers", func() ([]int64, error) { return s.SubscriberIDs(ctx, 1) }, []int64{8, 9}},
		{"admins", func() ([]int64, error) { return s.AdminIDs(ctx) }, []int64{90, 91}},
	}
	for _, l := range lists {
		got, err := l.got()
		require.NoError(t, err, l.name)
		assert.Equal(t, l.want, got, l.name)
	}

	comments, err := s.FindComments(ctx, []int64{3, 404, 1})
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, int64(3), comments[0].ID)
	assert.Equal(t, int64(1), comments[1].ID)
}

func TestStore_NotFound(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.FindPerson(ctx, 1)
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.FindComment(ctx, 1)
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.FindApp(ctx, "x")
	require.ErrorIs(t, err, domain.ErrNotFound)

	ids, err := s.CoordinatorIDs(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestStore_ReimportReplacesLists(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Import(ctx, testDataset()))
	require.NoError(t, s.Import(ctx, domain.Dataset{Coordinators: map[int64][]int64{50: {12}}}))

	ids, err := s.CoordinatorIDs(ctx, 50)
	require.NoError(t, err)
	assert.Equal(t, []int64{12}, ids)

	admins, err := s.AdminIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{90, 91}, admins)
}

func TestStore_OutboxAndIdempotency(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	err := s.WithTx(ctx, func(ctx context.Context) error {
		if err := s.SaveEvent(ctx, "b1", "notifications.batch", []byte(`{}`)); err != nil {
			return err
		}
		return s.Save(ctx, "evt-1", []byte(`{"batches":1}`))
	})
	require.NoError(t, err)

	done, data, err := s.Check(ctx, "evt-1")
	require.NoError(t, err)
	assert.True(t, done)
	assert.JSONEq(t, `{"batches":1}`, string(data))

	pending, err := s.ListPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "b1", pending[0].ID)
	assert.Equal(t, "notifications.batch", pending[0].Topic)

	require.NoError(t, s.MarkProcessed(ctx, "b1"))
	pending, err = s.ListPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestStore_WithTxRollsBack(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("publish failed")

	err := s.WithTx(ctx, func(ctx context.Context) error {
		if err := s.SaveEvent(ctx, "b1", "t", []byte(`{}`)); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	pending, err := s.ListPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
