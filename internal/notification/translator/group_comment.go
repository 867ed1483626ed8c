package translator

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/lmco/eurekastreams/internal/domain"
	"github.com/lmco/eurekastreams/internal/notification"
	"github.com/lmco/eurekastreams/internal/port"
)

// GroupCommentTranslator handles comments on activities in group streams.
//
// Recipients fall into four sets, each person notified once under the first set they
// belong to: the post author, the group coordinators, earlier commentors, and people
// who saved the activity.
type GroupCommentTranslator struct {
	Comments   port.CommentFinder
	Activities port.ActivityFinder
	// Coordinators is optional; when nil coordinators get no comment notifications.
	Coordinators port.IDListLookup
	Commentors   port.IDListLookup
	Savers       port.IDListLookup
}

func NewGroupCommentTranslator(
	comments port.CommentFinder,
	activities port.ActivityFinder,
	coordinators port.IDListLookup,
	commentors port.IDListLookup,
	savers port.IDListLookup,
) *GroupCommentTranslator {
	return &GroupCommentTranslator{
		Comments:     comments,
		Activities:   activities,
		Coordinators: coordinators,
		Commentors:   commentors,
		Savers:       savers,
	}
}

func (t *GroupCommentTranslator) Translate(ctx context.Context, req domain.CommentEvent) (*notification.Batch, error) {
	comment, err := found(t.Comments.FindComment(ctx, req.CommentID))
	if err != nil {
		return nil, fmt.Errorf("find comment %d: %w", req.CommentID, err)
	}
	if comment == nil {
		return nil, nil
	}
	activity, err := found(t.Activities.FindActivity(ctx, comment.ActivityID))
	if err != nil {
		return nil, fmt.Errorf("find activity %d: %w", comment.ActivityID, err)
	}
	if activity == nil {
		return nil, nil
	}

	// The three sets do not depend on each other; only the exclusion below needs all of them.
	var coordinators, commentors, savers []int64
	g, gctx := errgroup.WithContext(ctx)
	if t.Coordinators != nil {
		g.Go(func() error {
			ids, err := t.Coordinators(gctx, activity.DestinationID)
			if err != nil {
				return fmt.Errorf("list coordinators of group %d: %w", activity.DestinationID, err)
			}
			coordinators = ids
			return nil
		})
	}
	g.Go(func() error {
		ids, err := t.Commentors(gctx, activity.ID)
		if err != nil {
			return fmt.Errorf("list commentors of activity %d: %w", activity.ID, err)
		}
		commentors = ids
		return nil
	})
	g.Go(func() error {
		ids, err := t.Savers(gctx, activity.ID)
		if err != nil {
			return fmt.Errorf("list savers of activity %d: %w", activity.ID, err)
		}
		savers = ids
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	batch := notification.NewBatch()
	placed := newIDSet(req.ActorID)

	if activity.AuthoredByPerson() {
		if activity.ActorID != req.ActorID {
			batch.AddRecipients(notification.CommentToPersonalPost, activity.ActorID)
		}
		placed.add(activity.ActorID)
	}

	batch.AddRecipients(notification.CommentToGroupStream, without(coordinators, placed)...)
	placed.add(coordinators...)

	commented := without(commentors, placed)
	batch.AddRecipients(notification.CommentToCommentedPost, commented...)
	placed.add(commented...)

	batch.AddRecipients(notification.CommentToSavedPost, without(savers, placed)...)

	if batch.Empty() {
		return nil, nil
	}
	if err := setActivityProperties(batch, req.ActorID, activity); err != nil {
		return nil, err
	}
	batch.SetRef(notification.PropComment, notification.KindComment, comment.ID)
	return batch, nil
}
