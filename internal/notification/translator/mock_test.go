package translator

import (
	"context"
	"sync/atomic"

	"github.com/lmco/eurekastreams/internal/domain"
	"github.com/lmco/eurekastreams/internal/port"
)

type FinderMock struct {
	FindActivityFunc func(ctx context.Context, id int64) (*domain.Activity, error)
	FindCommentFunc  func(ctx context.Context, id int64) (*domain.Comment, error)
	FindCommentsFunc func(ctx context.Context, ids []int64) ([]domain.Comment, error)
	FindGroupFunc    func(ctx context.Context, id int64) (*domain.Group, error)
}

func (m *FinderMock) FindActivity(ctx context.Context, id int64) (*domain.Activity, error) {
	if m.FindActivityFunc != nil {
		return m.FindActivityFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *FinderMock) FindComment(ctx context.Context, id int64) (*domain.Comment, error) {
	if m.FindCommentFunc != nil {
		return m.FindCommentFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *FinderMock) FindComments(ctx context.Context, ids []int64) ([]domain.Comment, error) {
	if m.FindCommentsFunc != nil {
		return m.FindCommentsFunc(ctx, ids)
	}
	return nil, nil
}

func (m *FinderMock) FindGroup(ctx context.Context, id int64) (*domain.Group, error) {
	if m.FindGroupFunc != nil {
		return m.FindGroupFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func activities(items ...domain.Activity) *FinderMock {
	byID := make(map[int64]domain.Activity, len(items))
	for _, a := range items {
		byID[a.ID] = a
	}
	return &FinderMock{
		FindActivityFunc: func(_ context.Context, id int64) (*domain.Activity, error) {
			a, ok := byID[id]
			if !ok {
				return nil, domain.ErrNotFound
			}
			return &a, nil
		},
	}
}

func groups(items ...domain.Group) *FinderMock {
	byID := make(map[int64]domain.Group, len(items))
	for _, g := range items {
		byID[g.ID] = g
	}
	return &FinderMock{
		FindGroupFunc: func(_ context.Context, id int64) (*domain.Group, error) {
			g, ok := byID[id]
			if !ok {
				return nil, domain.ErrNotFound
			}
			return &g, nil
		},
	}
}

func comments(items ...domain.Comment) *FinderMock {
	byID := make(map[int64]domain.Comment, len(items))
	for _, c := range items {
		byID[c.ID] = c
	}
	return &FinderMock{
		FindCommentFunc: func(_ context.Context, id int64) (*domain.Comment, error) {
			c, ok := byID[id]
			if !ok {
				return nil, domain.ErrNotFound
			}
			return &c, nil
		},
	}
}

// lists serves fixed id lists keyed by the looked-up id and counts calls.
type lists struct {
	byID  map[int64][]int64
	calls atomic.Int32
}

func listOf(byID map[int64][]int64) *lists {
	return &lists{byID: byID}
}

func (l *lists) Lookup() port.IDListLookup {
	return func(_ context.Context, id int64) ([]int64, error) {
		l.calls.Add(1)
		return l.byID[id], nil
	}
}

func failingList(err error) port.IDListLookup {
	return func(context.Context, int64) ([]int64, error) { return nil, err }
}

func setOf(ids ...int64) port.IDSetLookup {
	return func(context.Context) ([]int64, error) { return ids, nil }
}

func failingSet(err error) port.IDSetLookup {
	return func(context.Context) ([]int64, error) { return nil, err }
}

func personalPost(id, author, owner int64) domain.Activity {
	return domain.Activity{
		ID:              id,
		Verb:            domain.VerbPost,
		ActorID:         author,
		ActorType:       domain.EntityPerson,
		DestinationType: domain.EntityPerson,
		DestinationID:   owner,
	}
}

func groupPost(id, author, groupID int64) domain.Activity {
	return domain.Activity{
		ID:              id,
		Verb:            domain.VerbPost,
		ActorID:         author,
		ActorType:       domain.EntityPerson,
		DestinationType: domain.EntityGroup,
		DestinationID:   groupID,
	}
}
