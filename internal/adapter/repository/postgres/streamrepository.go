package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lmco/eurekastreams/internal/domain"
	"github.com/lmco/eurekastreams/internal/port"
)

// StreamRepository reads the activity stream tables for notification translation.
type StreamRepository struct {
	DB *pgxpool.Pool
}

func NewStreamRepository(pool *pgxpool.Pool) *StreamRepository {
	return &StreamRepository{DB: pool}
}

func findOne[T any](ctx context.Context, exec executor, what string, id any, sql string) (*T, error) {
	rows, err := exec.Query(ctx, sql, id)
	if err != nil {
		return nil, fmt.Errorf("query %s %v: %w", what, id, err)
	}
	v, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s %v: %w", what, id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scan %s %v: %w", what, id, err)
	}
	return &v, nil
}

func (r *StreamRepository) FindPerson(ctx context.Context, id int64) (*domain.Person, error) {
	return findOne[domain.Person](ctx, getExecutor(ctx, r.DB), "person", id,
		"SELECT id, account_id, display_name FROM people WHERE id = $1")
}

func (r *StreamRepository) FindGroup(ctx context.Context, id int64) (*domain.Group, error) {
	return findOne[domain.Group](ctx, getExecutor(ctx, r.DB), "group", id,
		"SELECT id, short_name, name, private, pending FROM social_groups WHERE id = $1")
}

const activityColumns = `id, verb, actor_id, actor_type, destination_type, destination_id,
	original_actor_id, original_activity_id, body`

func (r *StreamRepository) FindActivity(ctx context.Context, id int64) (*domain.Activity, error) {
	return findOne[domain.Activity](ctx, getExecutor(ctx, r.DB), "activity", id,
		"SELECT "+activityColumns+" FROM activities WHERE id = $1")
}

func (r *StreamRepository) FindComment(ctx context.Context, id int64) (*domain.Comment, error) {
	return findOne[domain.Comment](ctx, getExecutor(ctx, r.DB), "comment", id,
		"SELECT id, activity_id, author_id, body FROM comments WHERE id = $1")
}

// FindComments returns the comments that exist, in the order of ids.
func (r *StreamRepository) FindComments(ctx context.Context, ids []int64) ([]domain.Comment, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := getExecutor(ctx, r.DB).Query(ctx,
		`SELECT c.id, c.activity_id, c.author_id, c.body
		FROM unnest($1::bigint[]) WITH ORDINALITY AS want(id, ord)
		JOIN comments c ON c.id = want.id
		ORDER BY want.ord`, ids)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Comment])
	if err != nil {
		return nil, fmt.Errorf("scan comments: %w", err)
	}
	return out, nil
}

func (r *StreamRepository) FindApp(ctx context.Context, clientID string) (*domain.App, error) {
	return findOne[domain.App](ctx, getExecutor(ctx, r.DB), "app", clientID,
		"SELECT client_id, name FROM apps WHERE client_id = $1")
}

func (r *StreamRepository) ids(ctx context.Context, what, sql string, args ...any) ([]int64, error) {
	rows, err := getExecutor(ctx, r.DB).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", what, err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", what, err)
	}
	return out, nil
}

func (r *StreamRepository) CommentorIDs(ctx context.Context, activityID int64) ([]int64, error) {
	return r.ids(ctx, "commentors",
		"SELECT author_id FROM comments WHERE activity_id = $1 GROUP BY author_id ORDER BY MIN(id)", activityID)
}

func (r *StreamRepository) SaverIDs(ctx context.Context, activityID int64) ([]int64, error) {
	return r.ids(ctx, "savers",
		"SELECT person_id FROM saved_activities WHERE activity_id = $1 ORDER BY position", activityID)
}

func (r *StreamRepository) CoordinatorIDs(ctx context.Context, groupID int64) ([]int64, error) {
	return r.ids(ctx, "coordinators",
		"SELECT person_id FROM group_coordinators WHERE group_id = $1 ORDER BY position", groupID)
}

func (r *StreamRepository) MemberIDs(ctx context.Context, groupID int64) ([]int64, error) {
	return r.ids(ctx, "members",
		"SELECT person_id FROM group_members WHERE group_id = $1 ORDER BY position", groupID)
}

func (r *StreamRepository) UnrestrictedMemberIDs(ctx context.Context, groupID int64) ([]int64, error) {
	return r.ids(ctx, "unrestricted members",
		"SELECT person_id FROM group_members WHERE group_id = $1 AND unrestricted ORDER BY position", groupID)
}

func (r *StreamRepository) SubscriberIDs(ctx context.Context, personID int64) ([]int64, error) {
	return r.ids(ctx, "subscribers",
		"SELECT subscriber_id FROM stream_subscriptions WHERE person_id = $1 ORDER BY position", personID)
}

func (r *StreamRepository) AdminIDs(ctx context.Context) ([]int64, error) {
	return r.ids(ctx, "system admins", "SELECT person_id FROM system_admins ORDER BY person_id")
}

var _ port.ReadStore = (*StreamRepository)(nil)
