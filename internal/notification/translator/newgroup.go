package translator

import (
	"context"
	"fmt"

	"github.com/lmco/eurekastreams/internal/domain"
	"github.com/lmco/eurekastreams/internal/notification"
	"github.com/lmco/eurekastreams/internal/port"
)

// NewGroupTranslator handles requests to create a group and the administrators' answers.
// A denied group is deleted, so the denial carries the group name instead of a reference.
type NewGroupTranslator struct {
	Groups port.GroupFinder
	Admins port.IDSetLookup
}

func NewNewGroupTranslator(groups port.GroupFinder, admins port.IDSetLookup) *NewGroupTranslator {
	return &NewGroupTranslator{Groups: groups, Admins: admins}
}

func (t *NewGroupTranslator) Translate(ctx context.Context, req domain.NewGroupEvent) (*notification.Batch, error) {
	if req.Decision == domain.DecisionDenied {
		if req.RequesterID == req.ActorID {
			return nil, nil
		}
		batch := notification.NewBatchFor(notification.RequestNewGroupDenied, req.RequesterID)
		batch.SetRef(notification.PropActor, notification.KindPerson, req.ActorID)
		batch.SetProperty(notification.PropGroup, req.GroupName)
		return batch, nil
	}

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
		admins, err := t.Admins(ctx)
		if err != nil {
			return nil, fmt.Errorf("list system admins: %w", err)
		}
		recipients := without(admins, newIDSet(req.ActorID))
		if len(recipients) == 0 {
			return nil, nil
		}
		batch = notification.NewBatchFor(notification.RequestNewGroup, recipients...)
		batch.SetProperty(notification.PropURL, notification.PendingGroupsURL)
	case domain.DecisionApproved:
		if req.RequesterID == req.ActorID {
			return nil, nil
		}
		batch = notification.NewBatchFor(notification.RequestNewGroupApproved, req.RequesterID)
		batch.SetProperty(notification.PropURL, notification.GroupURL(group.ShortName))
	default:
		return nil, fmt.Errorf("new group decision %q: %w", req.Decision, ErrUnknownDecision)
	}

	batch.SetRef(notification.PropActor, notification.KindPerson, req.ActorID)
	batch.SetRef(notification.PropGroup, notification.KindGroup, group.ID)
	return batch, nil
}
