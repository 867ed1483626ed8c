package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/lmco/eurekastreams/internal/domain"
	"github.com/lmco/eurekastreams/internal/port"
)

func notFound(err error, what string, id any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %v: %w", what, id, domain.ErrNotFound)
	}
	return fmt.Errorf("getting %s %v: %w", what, id, err)
}

func (s *Store) FindPerson(ctx context.Context, id int64) (*domain.Person, error) {
	var p domain.Person
	err := sqlx.GetContext(ctx, s.executor(ctx), &p,
		"SELECT id, account_id, display_name FROM people WHERE id = ?", id)
	if err != nil {
		return nil, notFound(err, "person", id)
	}
	return &p, nil
}

func (s *Store) FindGroup(ctx context.Context, id int64) (*domain.Group, error) {
	var g domain.Group
	err := sqlx.GetContext(ctx, s.executor(ctx), &g,
		"SELECT id, short_name, name, private, pending FROM social_groups WHERE id = ?", id)
	if err != nil {
		return nil, notFound(err, "group", id)
	}
	return &g, nil
}

const activityColumns = `id, verb, actor_id, actor_type, destination_type, destination_id,
	original_actor_id, original_activity_id, body`

func (s *Store) FindActivity(ctx context.Context, id int64) (*domain.Activity, error) {
	var a domain.Activity
	err := sqlx.GetContext(ctx, s.executor(ctx), &a,
		"SELECT "+activityColumns+" FROM activities WHERE id = ?", id)
	if err != nil {
		return nil, notFound(err, "activity", id)
	}
	return &a, nil
}

func (s *Store) FindComment(ctx context.Context, id int64) (*domain.Comment, error) {
	var c domain.Comment
	err := sqlx.GetContext(ctx, s.executor(ctx), &c,
		"SELECT id, activity_id, author_id, body FROM comments WHERE id = ?", id)
	if err != nil {
		return nil, notFound(err, "comment", id)
	}
	return &c, nil
}

// FindComments returns the comments that exist, in the order of ids.
func (s *Store) FindComments(ctx context.Context, ids []int64) ([]domain.Comment, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In("SELECT id, activity_id, author_id, body FROM comments WHERE id IN (?)", ids)
	if err != nil {
		return nil, fmt.Errorf("building comments query: %w", err)
	}
	var rows []domain.Comment
	if err := sqlx.SelectContext(ctx, s.executor(ctx), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("querying comments: %w", err)
	}
	byID := make(map[int64]domain.Comment, len(rows))
	for _, c := range rows {
		byID[c.ID] = c
	}
	out := make([]domain.Comment, 0, len(rows))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			out = append(out, c)
			delete(byID, id)
		}
	}
	return out, nil
}

func (s *Store) FindApp(ctx context.Context, clientID string) (*domain.App, error) {
	var a domain.App
	err := sqlx.GetContext(ctx, s.executor(ctx), &a,
		"SELECT client_id, name FROM apps WHERE client_id = ?", clientID)
	if err != nil {
		return nil, notFound(err, "app", clientID)
	}
	return &a, nil
}

func (s *Store) ids(ctx context.Context, what, query string, args ...any) ([]int64, error) {
	var out []int64
	if err := sqlx.SelectContext(ctx, s.executor(ctx), &out, query, args...); err != nil {
		return nil, fmt.Errorf("listing %s: %w", what, err)
	}
	return out, nil
}

func (s *Store) CommentorIDs(ctx context.Context, activityID int64) ([]int64, error) {
	return s.ids(ctx, "commentors",
		"SELECT author_id FROM comments WHERE activity_id = ? GROUP BY author_id ORDER BY MIN(id)", activityID)
}

func (s *Store) SaverIDs(ctx context.Context, activityID int64) ([]int64, error) {
	return s.ids(ctx, "savers",
		"SELECT person_id FROM saved_activities WHERE activity_id = ? ORDER BY rowid", activityID)
}

func (s *Store) CoordinatorIDs(ctx context.Context, groupID int64) ([]int64, error) {
	return s.ids(ctx, "coordinators",
		"SELECT person_id FROM group_coordinators WHERE group_id = ? ORDER BY rowid", groupID)
}

func (s *Store) MemberIDs(ctx context.Context, groupID int64) ([]int64, error) {
	return s.ids(ctx, "members",
		"SELECT person_id FROM group_members WHERE group_id = ? ORDER BY rowid", groupID)
}

func (s *Store) UnrestrictedMemberIDs(ctx context.Context, groupID int64) ([]int64, error) {
	return s.ids(ctx, "unrestricted members",
		"SELECT person_id FROM group_members WHERE group_id = ? AND unrestricted = 1 ORDER BY rowid", groupID)
}

func (s *Store) SubscriberIDs(ctx context.Context, personID int64) ([]int64, error) {
	return s.ids(ctx, "subscribers",
		"SELECT subscriber_id FROM stream_subscriptions WHERE person_id = ? ORDER BY rowid", personID)
}

func (s *Store) AdminIDs(ctx context.Context) ([]int64, error) {
	return s.ids(ctx, "system admins", "SELECT person_id FROM system_admins ORDER BY rowid")
}

var _ port.ReadStore = (*Store)(nil)
