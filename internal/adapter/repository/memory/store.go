// Package memory provides an in-memory implementation of the read store, used for
// development, previews and tests.
package memory

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/lmco/eurekastreams/internal/domain"
	"github.com/lmco/eurekastreams/internal/port"
)

type Store struct {
	mu                  sync.RWMutex
	people              map[int64]domain.Person
	groups              map[int64]domain.Group
	activities          map[int64]domain.Activity
	comments            map[int64]domain.Comment
	apps                map[string]domain.App
	coordinators        map[int64][]int64
	members             map[int64][]int64
	unrestrictedMembers map[int64][]int64
	subscribers         map[int64][]int64
	savers              map[int64][]int64
	admins              []int64
}

func NewStore() *Store {
	return &Store{
		people:              make(map[int64]domain.Person),
		groups:              make(map[int64]domain.Group),
		activities:          make(map[int64]domain.Activity),
		comments:            make(map[int64]domain.Comment),
		apps:                make(map[string]domain.App),
		coordinators:        make(map[int64][]int64),
		members:             make(map[int64][]int64),
		unrestrictedMembers: make(map[int64][]int64),
		subscribers:         make(map[int64][]int64),
		savers:              make(map[int64][]int64),
	}
}

// Load decodes a domain.Dataset from r and merges it into the store.
func (s *Store) Load(r io.Reader) error {
	seed, err := domain.DecodeDataset(r)
	if err != nil {
		return err
	}
	s.Apply(seed)
	return nil
}

// Apply merges seed into the store. Relation lists replace existing ones.
func (s *Store) Apply(seed domain.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range seed.People {
		s.people[p.ID] = p
	}
	for _, g := range seed.Groups {
		s.groups[g.ID] = g
	}
	for _, a := range seed.Activities {
		s.activities[a.ID] = a
	}
	for _, c := range seed.Comments {
		s.comments[c.ID] = c
	}
	for _, a := range seed.Apps {
		s.apps[a.ClientID] = a
	}
	copyLists(s.coordinators, seed.Coordinators)
	copyLists(s.members, seed.Members)
	copyLists(s.unrestrictedMembers, seed.UnrestrictedMembers)
	copyLists(s.subscribers, seed.Subscribers)
	copyLists(s.savers, seed.Savers)
	if seed.Admins != nil {
		s.admins = append([]int64(nil), seed.Admins...)
	}
}

func copyLists(dst, src map[int64][]int64) {
	for id, ids := range src {
		dst[id] = append([]int64(nil), ids...)
	}
}

func (s *Store) FindPerson(_ context.Context, id int64) (*domain.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.people[id]
	if !ok {
		return nil, fmt.Errorf("person %d: %w", id, domain.ErrNotFound)
	}
	return &p, nil
}

func (s *Store) FindGroup(_ context.Context, id int64) (*domain.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.groups[id]
	if !ok {
		return nil, fmt.Errorf("group %d: %w", id, domain.ErrNotFound)
	}
	return &g, nil
}

func (s *Store) FindActivity(_ context.Context, id int64) (*domain.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.activities[id]
	if !ok {
		return nil, fmt.Errorf("activity %d: %w", id, domain.ErrNotFound)
	}
	return &a, nil
}

func (s *Store) FindComment(_ context.Context, id int64) (*domain.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.comments[id]
	if !ok {
		return nil, fmt.Errorf("comment %d: %w", id, domain.ErrNotFound)
	}
	return &c, nil
}

func (s *Store) FindComments(_ context.Context, ids []int64) ([]domain.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Comment, 0, len(ids))
	for _, id := range ids {
		if c, ok := s.comments[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Store) FindApp(_ context.Context, clientID string) (*domain.App, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.apps[clientID]
	if !ok {
		return nil, fmt.Errorf("app %q: %w", clientID, domain.ErrNotFound)
	}
	return &a, nil
}

// CommentorIDs lists comment authors on the activity in order of their first comment.
func (s *Store) CommentorIDs(_ context.Context, activityID int64) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var cs []domain.Comment
	for _, c := range s.comments {
		if c.ActivityID == activityID {
			cs = append(cs, c)
		}
	}
	sort.Slice(cs, func(i, j int) bool { return cs[i].ID < cs[j].ID })

	seen := make(map[int64]struct{}, len(cs))
	var out []int64
	for _, c := range cs {
		if _, ok := seen[c.AuthorID]; ok {
			continue
		}
		seen[c.AuthorID] = struct{}{}
		out = append(out, c.AuthorID)
	}
	return out, nil
}

func (s *Store) SaverIDs(_ context.Context, activityID int64) ([]int64, error) {
	return s.list(s.savers, activityID), nil
}

func (s *Store) CoordinatorIDs(_ context.Context, groupID int64) ([]int64, error) {
	return s.list(s.coordinators, groupID), nil
}

func (s *Store) MemberIDs(_ context.Context, groupID int64) ([]int64, error) {
	return s.list(s.members, groupID), nil
}

func (s *Store) UnrestrictedMemberIDs(_ context.Context, groupID int64) ([]int64, error) {
	return s.list(s.unrestrictedMembers, groupID), nil
}

func (s *Store) SubscriberIDs(_ context.Context, personID int64) ([]int64, error) {
	return s.list(s.subscribers, personID), nil
}

func (s *Store) AdminIDs(context.Context) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]int64(nil), s.admins...), nil
}

func (s *Store) list(m map[int64][]int64, id int64) []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]int64(nil), m[id]...)
}

var _ port.ReadStore = (*Store)(nil)
