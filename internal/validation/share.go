package validation

import (
	"context"
	"errors"
	"fmt"

	"github.com/lmco/eurekastreams/internal/domain"
	"github.com/lmco/eurekastreams/internal/port"
)

// ShareValidator checks a share-verb activity before it is posted. It reads the shared
// activity through a finder whose transaction scope belongs to the caller.
type ShareValidator struct {
	Activities port.ActivityFinder
	// Groups is optional; without it shares out of private groups are not detected.
	Groups port.GroupFinder
}

func NewShareValidator(activities port.ActivityFinder, groups port.GroupFinder) *ShareValidator {
	return &ShareValidator{Activities: activities, Groups: groups}
}

// Validate returns *Error with every rule the share breaks, nil when it is valid, or a
// plain error when the original activity could not be read.
func (s *ShareValidator) Validate(ctx context.Context, a domain.Activity) error {
	verr := &Error{}
	if a.Verb != domain.VerbShare {
		verr.add("verb", "eq", "must be "+domain.VerbShare)
	}
	if a.OriginalActorID <= 0 {
		verr.add("originalActorId", "required", "is required")
	}
	if a.OriginalActivityID <= 0 {
		verr.add("originalActivityId", "required", "is required")
		return verr.errOrNil()
	}

	original, err := s.Activities.FindActivity(ctx, a.OriginalActivityID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		verr.add("originalActivityId", "exists", "activity does not exist")
		return verr.errOrNil()
	case err != nil:
		return fmt.Errorf("find activity %d: %w", a.OriginalActivityID, err)
	}

	if original.Verb == domain.VerbShare {
		verr.add("originalActivityId", "not_share", "a share cannot be shared again")
	}
	if a.OriginalActorID > 0 && original.ActorID != a.OriginalActorID {
		verr.add("originalActorId", "matches", "does not match the author of the shared activity")
	}
	if s.Groups != nil && original.DestinationType == domain.EntityGroup {
		group, err := s.Groups.FindGroup(ctx, original.DestinationID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("find group %d: %w", original.DestinationID, err)
		}
		if group != nil && group.Private {
			verr.add("originalActivityId", "public", "activities in private groups cannot be shared")
		}
	}
	return verr.errOrNil()
}
