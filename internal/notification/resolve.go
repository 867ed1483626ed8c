package notification

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/lmco/eurekastreams/internal/domain"
	"github.com/lmco/eurekastreams/internal/port"
)

// EntityResolver turns the deferred lookups of a batch into entities. Any finder may be
// nil, in which case refs of that kind are left unresolved.
type EntityResolver struct {
	People     port.PersonFinder
	Groups     port.GroupFinder
	Activities port.ActivityFinder
	Comments   port.CommentFinder
	Apps       port.AppFinder
}

// NewEntityResolver resolves every kind through one read store.
func NewEntityResolver(store port.ReadStore) *EntityResolver {
	return &EntityResolver{
		People:     store,
		Groups:     store,
		Activities: store,
		Comments:   store,
		Apps:       store,
	}
}

// Resolve returns the batch properties with refs replaced by the entities they name.
// Each distinct ref is fetched once; aliases share the fetched value. A ref whose entity
// no longer exists is left out of the result.
func (r *EntityResolver) Resolve(ctx context.Context, b *Batch) (map[string]any, error) {
	fetched := make(map[Ref]any)
	missing := make(map[Ref]bool)

	var commentIDs []int64
	for _, v := range b.properties {
		if ref, ok := v.(Ref); ok && ref.Kind == KindComment {
			commentIDs = append(commentIDs, ref.ID)
		}
	}
	if len(commentIDs) > 0 && r.Comments != nil {
		comments, err := r.Comments.FindComments(ctx, commentIDs)
		if err != nil {
			return nil, fmt.Errorf("find comments: %w", err)
		}
		for i := range comments {
			fetched[CommentRef(comments[i].ID)] = &comments[i]
		}
		for _, id := range commentIDs {
			if _, ok := fetched[CommentRef(id)]; !ok {
				missing[CommentRef(id)] = true
			}
		}
	}

	names := make([]string, 0, len(b.properties)+len(b.aliases))
	for name := range b.properties {
		names = append(names, name)
	}
	for name := range b.aliases {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]any, len(names))
	for _, name := range names {
		v, ok := b.Property(name)
		if !ok {
			continue
		}
		switch v := v.(type) {
		case Literal:
			out[name] = v.V
		case Ref:
			if missing[v] {
				continue
			}
			entity, ok := fetched[v]
			if !ok {
				var err error
				entity, err = r.fetch(ctx, v)
				if errors.Is(err, domain.ErrNotFound) {
					missing[v] = true
					continue
				}
				if err != nil {
					return nil, fmt.Errorf("resolve %s: %w", name, err)
				}
				fetched[v] = entity
			}
			if entity != nil {
				out[name] = entity
			}
		}
	}
	return out, nil
}

func (r *EntityResolver) fetch(ctx context.Context, ref Ref) (any, error) {
	switch ref.Kind {
	case KindPerson:
		if r.People != nil {
			return r.People.FindPerson(ctx, ref.ID)
		}
	case KindGroup:
		if r.Groups != nil {
			return r.Groups.FindGroup(ctx, ref.ID)
		}
	case KindActivity:
		if r.Activities != nil {
			return r.Activities.FindActivity(ctx, ref.ID)
		}
	case KindComment:
		if r.Comments != nil {
			return r.Comments.FindComment(ctx, ref.ID)
		}
	case KindApp:
		if r.Apps != nil {
			return r.Apps.FindApp(ctx, ref.Key)
		}
	}
	return ref, nil
}
