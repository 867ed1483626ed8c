package translator

import (
	"context"
	"fmt"

	"github.com/lmco/eurekastreams/internal/domain"
	"github.com/lmco/eurekastreams/internal/notification"
	"github.com/lmco/eurekastreams/internal/port"
)

// FollowPersonTranslator notifies a person that someone started following them.
type FollowPersonTranslator struct{}

func NewFollowPersonTranslator() *FollowPersonTranslator {
	return &FollowPersonTranslator{}
}

func (t *FollowPersonTranslator) Translate(_ context.Context, req domain.TargetEvent) (*notification.Batch, error) {
	if req.TargetID == req.ActorID {
		return nil, nil
	}
	batch := notification.NewBatchFor(notification.FollowPerson, req.TargetID)
	batch.SetRef(notification.PropActor, notification.KindPerson, req.ActorID)
	batch.SetRef(notification.PropStream, notification.KindPerson, req.TargetID)
	if err := batch.SetPropertyAlias(notification.PropSource, notification.PropStream); err != nil {
		return nil, err
	}
	return batch, nil
}

// FollowGroupTranslator notifies the coordinators of a group about a new follower.
// A coordinator following their own group is not reported: that follow is made
// automatically when someone is promoted to coordinator.
type FollowGroupTranslator struct {
	Groups       port.GroupFinder
	Coordinators port.IDListLookup
}

func NewFollowGroupTranslator(groups port.GroupFinder, coordinators port.IDListLookup) *FollowGroupTranslator {
	return &FollowGroupTranslator{Groups: groups, Coordinators: coordinators}
}

func (t *FollowGroupTranslator) Translate(ctx context.Context, req domain.TargetEvent) (*notification.Batch, error) {
	coordinators, err := t.Coordinators(ctx, req.TargetID)
	if err != nil {
		return nil, fmt.Errorf("list coordinators of group %d: %w", req.TargetID, err)
	}
	if contains(coordinators, req.ActorID) {
		return nil, nil
	}
	recipients := without(coordinators, newIDSet(req.ActorID))
	if len(recipients) == 0 {
		return nil, nil
	}

	group, err := found(t.Groups.FindGroup(ctx, req.TargetID))
	if err != nil {
		return nil, fmt.Errorf("find group %d: %w", req.TargetID, err)
	}
	if group == nil {
		return nil, nil
	}

	batch := notification.NewBatchFor(notification.FollowGroup, recipients...)
	batch.SetRef(notification.PropActor, notification.KindPerson, req.ActorID)
	batch.SetRef(notification.PropStream, notification.KindGroup, group.ID)
	if err := batch.SetPropertyAlias(notification.PropSource, notification.PropStream); err != nil {
		return nil, err
	}
	batch.SetProperty(notification.PropURL, notification.GroupURL(group.ShortName))
	return batch, nil
}
