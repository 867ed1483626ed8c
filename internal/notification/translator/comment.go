package translator

import (
	"context"
	"fmt"

	"github.com/lmco/eurekastreams/internal/domain"
	"github.com/lmco/eurekastreams/internal/notification"
	"github.com/lmco/eurekastreams/internal/port"
)

// CommentTranslator handles comments on activities in personal streams.
type CommentTranslator struct {
	Activities port.ActivityFinder
	Commentors port.IDListLookup
}

func NewCommentTranslator(activities port.ActivityFinder, commentors port.IDListLookup) *CommentTranslator {
	return &CommentTranslator{Activities: activities, Commentors: commentors}
}

func (t *CommentTranslator) Translate(ctx context.Context, req domain.CommentEvent) (*notification.Batch, error) {
	activity, err := found(t.Activities.FindActivity(ctx, req.ActivityID))
	if err != nil {
		return nil, fmt.Errorf("find activity %d: %w", req.ActivityID, err)
	}
	if activity == nil {
		return nil, nil
	}

	batch := notification.NewBatch()
	exclude := newIDSet(req.ActorID)
	if activity.AuthoredByPerson() {
		if activity.ActorID != req.ActorID {
			batch.AddRecipients(notification.CommentToPersonalPost, activity.ActorID)
		}
		exclude.add(activity.ActorID)
	}

	commentors, err := t.Commentors(ctx, activity.ID)
	if err != nil {
		return nil, fmt.Errorf("list commentors of activity %d: %w", activity.ID, err)
	}
	batch.AddRecipients(notification.CommentToCommentedPost, without(commentors, exclude)...)

	if batch.Empty() {
		return nil, nil
	}
	if err := setActivityProperties(batch, req.ActorID, activity); err != nil {
		return nil, err
	}
	batch.SetRef(notification.PropComment, notification.KindComment, req.CommentID)
	return batch, nil
}
