package translator

import (
	"context"
	"fmt"

	"github.com/lmco/eurekastreams/internal/domain"
	"github.com/lmco/eurekastreams/internal/notification"
	"github.com/lmco/eurekastreams/internal/port"
)

// FlagTranslator tells the system administrators that an activity was flagged as
// inappropriate. These notifications are always high priority.
type FlagTranslator struct {
	Activities port.ActivityFinder
	Admins     port.IDSetLookup
}

func NewFlagTranslator(activities port.ActivityFinder, admins port.IDSetLookup) *FlagTranslator {
	return &FlagTranslator{Activities: activities, Admins: admins}
}

func (t *FlagTranslator) Translate(ctx context.Context, req domain.ActivityEvent) (*notification.Batch, error) {
	activity, err := found(t.Activities.FindActivity(ctx, req.ActivityID))
	if err != nil {
		return nil, fmt.Errorf("find activity %d: %w", req.ActivityID, err)
	}
	if activity == nil {
		return nil, nil
	}

	admins, err := t.Admins(ctx)
	if err != nil {
		return nil, fmt.Errorf("list system admins: %w", err)
	}
	recipients := without(admins, newIDSet(req.ActorID))
	if len(recipients) == 0 {
		return nil, nil
	}

	batch := notification.NewBatchFor(notification.FlagActivity, recipients...)
	if err := setActivityProperties(batch, req.ActorID, activity); err != nil {
		return nil, err
	}
	batch.SetProperty(notification.PropURL, notification.FlaggedContentURL)
	batch.SetProperty(notification.PropHighPriority, true)
	return batch, nil
}
