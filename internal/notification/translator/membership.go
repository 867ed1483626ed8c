package translator

import (
	"context"
	"fmt"

	"github.com/lmco/eurekastreams/internal/domain"
	"github.com/lmco/eurekastreams/internal/notification"
	"github.com/lmco/eurekastreams/internal/port"
)

// GroupMembershipTranslator handles access requests to private groups and the
// coordinators' answers to them.
type GroupMembershipTranslator struct {
	Groups       port.GroupFinder
	Coordinators port.IDListLookup
}

func NewGroupMembershipTranslator(groups port.GroupFinder, coordinators port.IDListLookup) *GroupMembershipTranslator {
	return &GroupMembershipTranslator{Groups: groups, Coordinators: coordinators}
}

func (t *GroupMembershipTranslator) Translate(ctx context.Context, req domain.MembershipEvent) (*notification.Batch, error) {
	group, err := found(t.Groups.FindGroup(ctx, req.GroupID))
	if err != nil {
		return nil, fmt.Errorf("find group %d: %w", req.GroupID, err)
	}
	if group == nil {
		return nil, nil
	}

	var batch *notification.Batch
	switch req.Decision {
	case domain.DecisionRequested:
		coordinators, err := t.Coordinators(ctx, group.ID)
		if err != nil {
			return nil, fmt.Errorf("list coordinators of group %d: %w", group.ID, err)
		}
		recipients := without(coordinators, newIDSet(req.ActorID))
		if len(recipients) == 0 {
			return nil, nil
		}
		batch = notification.NewBatchFor(notification.RequestGroupAccess, recipients...)
	case domain.DecisionApproved:
		if req.RequesterID == req.ActorID {
			return nil, nil
		}
		batch = notification.NewBatchFor(notification.GroupMembershipApproved, req.RequesterID)
		batch.SetProperty(notification.PropURL, notification.GroupURL(group.ShortName))
	case domain.DecisionDenied:
		if req.RequesterID == req.ActorID {
			return nil, nil
		}
		batch = notification.NewBatchFor(notification.GroupMembershipDenied, req.RequesterID)
	default:
		return nil, fmt.Errorf("membership decision %q: %w", req.Decision, ErrUnknownDecision)
	}

	batch.SetRef(notification.PropActor, notification.KindPerson, req.ActorID)
	batch.SetRef(notification.PropGroup, notification.KindGroup, group.ID)
	if err := batch.SetPropertyAlias(notification.PropStream, notification.PropGroup); err != nil {
		return nil, err
	}
	return batch, nil
}
