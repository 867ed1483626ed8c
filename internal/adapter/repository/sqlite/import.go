package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/lmco/eurekastreams/internal/domain"
)

// Import upserts every entity of ds and replaces the relation lists it names, in one
// transaction.
func (s *Store) Import(ctx context.Context, ds domain.Dataset) error {
	return s.WithTx(ctx, func(ctx context.Context) error {
		db := s.executor(ctx)

		for _, p := range ds.People {
			if _, err := sqlx.NamedExecContext(ctx, db, `INSERT OR REPLACE INTO people (id, account_id, display_name)
				VALUES (:id, :account_id, :display_name)`, p); err != nil {
				return fmt.Errorf("importing person %d: %w", p.ID, err)
			}
		}
		for _, g := range ds.Groups {
			if _, err := sqlx.NamedExecContext(ctx, db, `INSERT OR REPLACE INTO social_groups (id, short_name, name, private, pending)
				VALUES (:id, :short_name, :name, :private, :pending)`, g); err != nil {
				return fmt.Errorf("importing group %d: %w", g.ID, err)
			}
		}
		for _, a := range ds.Activities {
			if a.ActorType == "" {
				a.ActorType = domain.EntityPerson
			}
			if _, err := sqlx.NamedExecContext(ctx, db, `INSERT OR REPLACE INTO activities (`+activityColumns+`)
				VALUES (:id, :verb, :actor_id, :actor_type, :destination_type, :destination_id,
					:original_actor_id, :original_activity_id, :body)`, a); err != nil {
				return fmt.Errorf("importing activity %d: %w", a.ID, err)
			}
		}
		for _, c := range ds.Comments {
			if _, err := sqlx.NamedExecContext(ctx, db, `INSERT OR REPLACE INTO comments (id, activity_id, author_id, body)
				VALUES (:id, :activity_id, :author_id, :body)`, c); err != nil {
				return fmt.Errorf("importing comment %d: %w", c.ID, err)
			}
		}
		for _, a := range ds.Apps {
			if _, err := sqlx.NamedExecContext(ctx, db, `INSERT OR REPLACE INTO apps (client_id, name)
				VALUES (:client_id, :name)`, a); err != nil {
				return fmt.Errorf("importing app %q: %w", a.ClientID, err)
			}
		}

		if err := replaceLists(ctx, db, "group_coordinators", "group_id", "person_id", ds.Coordinators); err != nil {
			return err
		}
		if err := replaceLists(ctx, db, "stream_subscriptions", "person_id", "subscriber_id", ds.Subscribers); err != nil {
			return err
		}
		if err := replaceLists(ctx, db, "saved_activities", "activity_id", "person_id", ds.Savers); err != nil {
			return err
		}
		if err := importMembers(ctx, db, ds.Members, ds.UnrestrictedMembers); err != nil {
			return err
		}

		if ds.Admins != nil {
			if _, err := db.ExecContext(ctx, "DELETE FROM system_admins"); err != nil {
				return fmt.Errorf("clearing system admins: %w", err)
			}
			for _, id := range ds.Admins {
				if _, err := db.ExecContext(ctx, "INSERT OR IGNORE INTO system_admins (person_id) VALUES (?)", id); err != nil {
					return fmt.Errorf("importing system admin %d: %w", id, err)
				}
			}
		}
		return nil
	})
}

// replaceLists rewrites the rows of table for every owner in lists. Table and column
// names are fixed by the caller.
func replaceLists(ctx context.Context, db sqlx.ExtContext, table, ownerCol, personCol string, lists map[int64][]int64) error {
	for owner, ids := range lists {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+table+" WHERE "+ownerCol+" = ?", owner); err != nil {
			return fmt.Errorf("clearing %s for %d: %w", table, owner, err)
		}
		for _, id := range ids {
			_, err := db.ExecContext(ctx,
				"INSERT OR IGNORE INTO "+table+" ("+ownerCol+", "+personCol+") VALUES (?, ?)", owner, id)
			if err != nil {
				return fmt.Errorf("importing %s %d/%d: %w", table, owner, id, err)
			}
		}
	}
	return nil
}

// importMembers writes group membership. A person listed as unrestricted is also a member.
func importMembers(ctx context.Context, db sqlx.ExtContext, members, unrestricted map[int64][]int64) error {
	groups := make(map[int64]struct{}, len(members)+len(unrestricted))
	for id := range members {
		groups[id] = struct{}{}
	}
	for id := range unrestricted {
		groups[id] = struct{}{}
	}
	for groupID := range groups {
		if _, err := db.ExecContext(ctx, "DELETE FROM group_members WHERE group_id = ?", groupID); err != nil {
			return fmt.Errorf("clearing members of group %d: %w", groupID, err)
		}
		opted := make(map[int64]bool, len(unrestricted[groupID]))
		for _, id := range unrestricted[groupID] {
			opted[id] = true
		}
		for _, id := range members[groupID] {
			if _, err := db.ExecContext(ctx,
				"INSERT OR IGNORE INTO group_members (group_id, person_id, unrestricted) VALUES (?, ?, ?)",
				groupID, id, opted[id]); err != nil {
				return fmt.Errorf("importing member %d of group %d: %w", id, groupID, err)
			}
			delete(opted, id)
		}
		for _, id := range unrestricted[groupID] {
			if !opted[id] {
				continue
			}
			if _, err := db.ExecContext(ctx,
				"INSERT OR IGNORE INTO group_members (group_id, person_id, unrestricted) VALUES (?, ?, 1)",
				groupID, id); err != nil {
				return fmt.Errorf("importing member %d of group %d: %w", id, groupID, err)
			}
		}
	}
	return nil
}
