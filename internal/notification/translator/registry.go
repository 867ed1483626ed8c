package translator

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/lmco/eurekastreams/internal/domain"
	"github.com/lmco/eurekastreams/internal/notification"
	"github.com/lmco/eurekastreams/internal/port"
)

var (
	ErrNoTranslator    = errors.New("no translator registered for event type")
	ErrRequestMismatch = errors.New("event does not match the translator's request type")
	ErrUnknownDecision = errors.New("unknown decision")
)

type translateFunc func(ctx context.Context, ev domain.Event) (*notification.Batch, error)

// Registry maps event types to the translators that handle them. It is filled once at
// startup and only read afterwards.
type Registry struct {
	translators map[domain.EventType][]translateFunc
}

func NewRegistry() *Registry {
	return &Registry{translators: make(map[domain.EventType][]translateFunc)}
}

// Register adds t for events of type typ. Several translators may share one type; each
// contributes its own batch.
func Register[R domain.Event](r *Registry, typ domain.EventType, t Translator[R]) {
	r.translators[typ] = append(r.translators[typ], func(ctx context.Context, ev domain.Event) (*notification.Batch, error) {
		req, ok := ev.(R)
		if !ok {
			return nil, fmt.Errorf("%w: %s got %T", ErrRequestMismatch, typ, ev)
		}
		return t.Translate(ctx, req)
	})
}

// Translate runs every translator registered for the event's type and returns the
// batches that notify someone, in registration order.
func (r *Registry) Translate(ctx context.Context, ev domain.Event) ([]*notification.Batch, error) {
	fns, ok := r.translators[ev.EventType()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoTranslator, ev.EventType())
	}
	var out []*notification.Batch
	for _, fn := range fns {
		batch, err := fn(ctx, ev)
		if err != nil {
			return nil, err
		}
		if batch != nil && !batch.Empty() {
			out = append(out, batch)
		}
	}
	return out, nil
}

func (r *Registry) Has(typ domain.EventType) bool {
	_, ok := r.translators[typ]
	return ok
}

// Types returns the registered event types, sorted.
func (r *Registry) Types() []domain.EventType {
	out := make([]domain.EventType, 0, len(r.translators))
	for typ := range r.translators {
		out = append(out, typ)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Deps are the read collaborators shared by the standard translators.
type Deps struct {
	Activities port.ActivityFinder
	Comments   port.CommentFinder
	Groups     port.GroupFinder

	Commentors          port.IDListLookup
	Savers              port.IDListLookup
	Coordinators        port.IDListLookup
	Members             port.IDListLookup
	UnrestrictedMembers port.IDListLookup
	Subscribers         port.IDListLookup
	Admins              port.IDSetLookup

	// NotifyGroupCoordinators enables comment notifications to group coordinators.
	NotifyGroupCoordinators bool
}

// StoreDeps takes every collaborator from one read store.
func StoreDeps(store port.ReadStore) Deps {
	return Deps{
		Activities:          store,
		Comments:            store,
		Groups:              store,
		Commentors:          store.CommentorIDs,
		Savers:              store.SaverIDs,
		Coordinators:        store.CoordinatorIDs,
		Members:             store.MemberIDs,
		UnrestrictedMembers: store.UnrestrictedMemberIDs,
		Subscribers:         store.SubscriberIDs,
		Admins:              store.AdminIDs,
	}
}

// Build registers one translator per known event type.
func Build(d Deps) *Registry {
	var groupCoordinators port.IDListLookup
	if d.NotifyGroupCoordinators {
		groupCoordinators = d.Coordinators
	}

	r := NewRegistry()
	Register[domain.CommentEvent](r, domain.EventCommentPersonal, NewCommentTranslator(d.Activities, d.Commentors))
	Register[domain.CommentEvent](r, domain.EventCommentGroup,
		NewGroupCommentTranslator(d.Comments, d.Activities, groupCoordinators, d.Commentors, d.Savers))
	Register[domain.ActivityEvent](r, domain.EventLike, NewLikeTranslator(d.Activities))
	Register[domain.TargetEvent](r, domain.EventFollowPerson, NewFollowPersonTranslator())
	Register[domain.TargetEvent](r, domain.EventFollowGroup, NewFollowGroupTranslator(d.Groups, d.Coordinators))
	Register[domain.ActivityEvent](r, domain.EventFlag, NewFlagTranslator(d.Activities, d.Admins))
	Register[domain.ActivityEvent](r, domain.EventPostPersonal, NewPostPersonalStreamTranslator(d.Activities, d.Subscribers))
	Register[domain.ActivityEvent](r, domain.EventPostGroup,
		NewPostGroupStreamTranslator(d.Activities, d.Groups, d.Coordinators, d.Members, d.UnrestrictedMembers))
	Register[domain.MembershipEvent](r, domain.EventGroupMembership, NewGroupMembershipTranslator(d.Groups, d.Coordinators))
	Register[domain.NewGroupEvent](r, domain.EventNewGroup, NewNewGroupTranslator(d.Groups, d.Admins))
	Register[domain.PreBuiltEvent](r, domain.EventPreBuilt, NewPreBuiltTranslator())
	return r
}
