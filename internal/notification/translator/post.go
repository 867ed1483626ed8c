package translator

import (
	"context"
	"fmt"

	"github.com/lmco/eurekastreams/internal/domain"
	"github.com/lmco/eurekastreams/internal/notification"
	"github.com/lmco/eurekastreams/internal/port"
)

// PostPersonalStreamTranslator handles a post to someone's personal stream: the stream
// owner and the people subscribed to that stream are notified.
type PostPersonalStreamTranslator struct {
	Activities  port.ActivityFinder
	Subscribers port.IDListLookup
}

func NewPostPersonalStreamTranslator(activities port.ActivityFinder, subscribers port.IDListLookup) *PostPersonalStreamTranslator {
	return &PostPersonalStreamTranslator{Activities: activities, Subscribers: subscribers}
}

func (t *PostPersonalStreamTranslator) Translate(ctx context.Context, req domain.ActivityEvent) (*notification.Batch, error) {
	activity, err := found(t.Activities.FindActivity(ctx, req.ActivityID))
	if err != nil {
		return nil, fmt.Errorf("find activity %d: %w", req.ActivityID, err)
	}
	if activity == nil {
		return nil, nil
	}

	owner := activity.DestinationID
	batch := notification.NewBatch()
	if owner != req.ActorID {
		batch.AddRecipients(notification.PostToPersonalStream, owner)
	}

	subscribers, err := t.Subscribers(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list subscribers of person %d: %w", owner, err)
	}
	batch.AddRecipients(notification.PostToFollowedStream, without(subscribers, newIDSet(req.ActorID, owner))...)

	if batch.Empty() {
		return nil, nil
	}
	if err := setActivityProperties(batch, req.ActorID, activity); err != nil {
		return nil, err
	}
	return batch, nil
}

// PostGroupStreamTranslator handles a post to a group stream. Posts by a coordinator go
// to every member; other posts only reach members who asked for every post.
type PostGroupStreamTranslator struct {
	Activities          port.ActivityFinder
	Groups              port.GroupFinder
	Coordinators        port.IDListLookup
	Members             port.IDListLookup
	UnrestrictedMembers port.IDListLookup
}

func NewPostGroupStreamTranslator(
	activities port.ActivityFinder,
	groups port.GroupFinder,
	coordinators port.IDListLookup,
	members port.IDListLookup,
	unrestricted port.IDListLookup,
) *PostGroupStreamTranslator {
	return &PostGroupStreamTranslator{
		Activities:          activities,
		Groups:              groups,
		Coordinators:        coordinators,
		Members:             members,
		UnrestrictedMembers: unrestricted,
	}
}

func (t *PostGroupStreamTranslator) Translate(ctx context.Context, req domain.ActivityEvent) (*notification.Batch, error) {
	activity, err := found(t.Activities.FindActivity(ctx, req.ActivityID))
	if err != nil {
		return nil, fmt.Errorf("find activity %d: %w", req.ActivityID, err)
	}
	if activity == nil {
		return nil, nil
	}
	groupID := activity.DestinationID
	group, err := found(t.Groups.FindGroup(ctx, groupID))
	if err != nil {
		return nil, fmt.Errorf("find group %d: %w", groupID, err)
	}
	if group == nil {
		return nil, nil
	}

	coordinators, err := t.Coordinators(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("list coordinators of group %d: %w", group.ID, err)
	}
	audience := t.UnrestrictedMembers
	if contains(coordinators, req.ActorID) {
		audience = t.Members
	}
	members, err := audience(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("list members of group %d: %w", group.ID, err)
	}
	recipients := without(members, newIDSet(req.ActorID))
	if len(recipients) == 0 {
		return nil, nil
	}

	batch := notification.NewBatchFor(notification.PostToJoinedGroup, recipients...)
	if err := setActivityProperties(batch, req.ActorID, activity); err != nil {
		return nil, err
	}
	batch.SetRef(notification.PropStream, notification.KindGroup, group.ID)
	return batch, nil
}
