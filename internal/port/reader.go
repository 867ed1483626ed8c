package port

import (
	"context"

	"github.com/lmco/eurekastreams/internal/domain"
)

// Finders return domain.ErrNotFound when the entity does not exist.

type ActivityFinder interface {
	FindActivity(ctx context.Context, id int64) (*domain.Activity, error)
}

type CommentFinder interface {
	FindComment(ctx context.Context, id int64) (*domain.Comment, error)
	// FindComments returns the comments that exist, in the order of ids.
	FindComments(ctx context.Context, ids []int64) ([]domain.Comment, error)
}

type GroupFinder interface {
	FindGroup(ctx context.Context, id int64) (*domain.Group, error)
}

type PersonFinder interface {
	FindPerson(ctx context.Context, id int64) (*domain.Person, error)
}

type AppFinder interface {
	FindApp(ctx context.Context, clientID string) (*domain.App, error)
}

// ReadStore is the full read surface a store adapter provides to the notification core.
type ReadStore interface {
	ActivityFinder
	CommentFinder
	GroupFinder
	PersonFinder
	AppFinder

	// CommentorIDs lists distinct comment authors on an activity, by first comment.
	CommentorIDs(ctx context.Context, activityID int64) ([]int64, error)
	// SaverIDs lists people who saved (starred) an activity.
	SaverIDs(ctx context.Context, activityID int64) ([]int64, error)
	CoordinatorIDs(ctx context.Context, groupID int64) ([]int64, error)
	MemberIDs(ctx context.Context, groupID int64) ([]int64, error)
	// UnrestrictedMemberIDs lists members who opted into notifications for every post.
	UnrestrictedMemberIDs(ctx context.Context, groupID int64) ([]int64, error)
	// SubscriberIDs lists people subscribed to new posts on a person's stream.
	SubscriberIDs(ctx context.Context, personID int64) ([]int64, error)
	AdminIDs(ctx context.Context) ([]int64, error)
}
