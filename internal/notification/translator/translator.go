// Package translator turns committed domain events into notification batches.
//
// Every translator is stateless apart from its injected read collaborators and may be
// called concurrently. A translator returns (nil, nil) when the event notifies nobody:
// the referenced activity, comment or group is gone, or every candidate recipient was
// excluded. The acting person is never a recipient of their own event.
package translator

import (
	"context"
	"errors"

	"github.com/lmco/eurekastreams/internal/domain"
	"github.com/lmco/eurekastreams/internal/notification"
)

// Translator computes the notification batch for one request type.
type Translator[R domain.Event] interface {
	Translate(ctx context.Context, req R) (*notification.Batch, error)
}

// Func adapts a plain function to Translator.
type Func[R domain.Event] func(ctx context.Context, req R) (*notification.Batch, error)

func (f Func[R]) Translate(ctx context.Context, req R) (*notification.Batch, error) {
	return f(ctx, req)
}

// found folds a not-found lookup into a nil entity, so stale references end translation
// quietly instead of failing the caller.
func found[T any](v *T, err error) (*T, error) {
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

type idSet map[int64]struct{}

func newIDSet(ids ...int64) idSet {
	s := make(idSet, len(ids))
	s.add(ids...)
	return s
}

func (s idSet) add(ids ...int64) {
	for _, id := range ids {
		s[id] = struct{}{}
	}
}

func (s idSet) has(id int64) bool {
	_, ok := s[id]
	return ok
}

// without returns ids minus anything in exclude, de-duplicated, in original order.
func without(ids []int64, exclude idSet) []int64 {
	out := make([]int64, 0, len(ids))
	seen := make(idSet, len(ids))
	for _, id := range ids {
		if exclude.has(id) || seen.has(id) {
			continue
		}
		seen.add(id)
		out = append(out, id)
	}
	return out
}

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// streamRef points at the stream an activity was posted to.
func streamRef(a *domain.Activity) notification.Ref {
	if a.DestinationType == domain.EntityGroup {
		return notification.GroupRef(a.DestinationID)
	}
	return notification.PersonRef(a.DestinationID)
}

// setActivityProperties attaches the properties shared by every activity-based
// notification: actor, stream (also reachable as source), activity and its link.
func setActivityProperties(b *notification.Batch, actorID int64, a *domain.Activity) error {
	b.SetRef(notification.PropActor, notification.KindPerson, actorID)
	b.SetProperty(notification.PropStream, streamRef(a))
	if err := b.SetPropertyAlias(notification.PropSource, notification.PropStream); err != nil {
		return err
	}
	b.SetRef(notification.PropActivity, notification.KindActivity, a.ID)
	b.SetProperty(notification.PropURL, notification.ActivityURL(a.ID))
	return nil
}
