package translator

import (
	"context"
	"fmt"

	"github.com/lmco/eurekastreams/internal/domain"
	"github.com/lmco/eurekastreams/internal/notification"
	"github.com/lmco/eurekastreams/internal/port"
)

// LikeTranslator notifies the author of a liked activity.
type LikeTranslator struct {
	Activities port.ActivityFinder
}

func NewLikeTranslator(activities port.ActivityFinder) *LikeTranslator {
	return &LikeTranslator{Activities: activities}
}

func (t *LikeTranslator) Translate(ctx context.Context, req domain.ActivityEvent) (*notification.Batch, error) {
	activity, err := found(t.Activities.FindActivity(ctx, req.ActivityID))
	if err != nil {
		return nil, fmt.Errorf("find activity %d: %w", req.ActivityID, err)
	}
	if activity == nil || !activity.AuthoredByPerson() || activity.ActorID == req.ActorID {
		return nil, nil
	}

	batch := notification.NewBatchFor(notification.LikeActivity, activity.ActorID)
	if err := setActivityProperties(batch, req.ActorID, activity); err != nil {
		return nil, err
	}
	return batch, nil
}
