package domain

import "errors"

// ErrNotFound is returned by read adapters when the referenced entity does not exist.
var ErrNotFound = errors.New("not found")

// EntityType identifies what owns a stream or authored an activity.
type EntityType string

const (
	EntityPerson EntityType = "person"
	EntityGroup  EntityType = "group"
	EntityApp    EntityType = "app"
)

// Verbs an activity may carry.
const (
	VerbPost  = "post"
	VerbShare = "share"
)

type Person struct {
	ID          int64  `db:"id" json:"id"`
	AccountID   string `db:"account_id" json:"accountId"`
	DisplayName string `db:"display_name" json:"displayName"`
}

type Group struct {
	ID        int64  `db:"id" json:"id"`
	ShortName string `db:"short_name" json:"shortName"`
	Name      string `db:"name" json:"name"`
	Private   bool   `db:"private" json:"private"`
	Pending   bool   `db:"pending" json:"pending"`
}

// Activity is a single stream entry. ActorID is the author; the destination is the
// stream (a person's or a group's) the activity was posted to.
type Activity struct {
	ID                 int64      `db:"id" json:"id"`
	Verb               string     `db:"verb" json:"verb"`
	ActorID            int64      `db:"actor_id" json:"actorId"`
	ActorType          EntityType `db:"actor_type" json:"actorType"`
	DestinationType    EntityType `db:"destination_type" json:"destinationType"`
	DestinationID      int64      `db:"destination_id" json:"destinationId"`
	OriginalActorID    int64      `db:"original_actor_id" json:"originalActorId,omitempty"`
	OriginalActivityID int64      `db:"original_activity_id" json:"originalActivityId,omitempty"`
	Body               string     `db:"body" json:"body"`
}

// AuthoredByPerson reports whether the activity author is a person (and thus notifiable).
func (a *Activity) AuthoredByPerson() bool {
	return a.ActorType == "" || a.ActorType == EntityPerson
}

type Comment struct {
	ID         int64  `db:"id" json:"id"`
	ActivityID int64  `db:"activity_id" json:"activityId"`
	AuthorID   int64  `db:"author_id" json:"authorId"`
	Body       string `db:"body" json:"body"`
}

// App is an OAuth consumer allowed to send pre-built notifications.
type App struct {
	ClientID string `db:"client_id" json:"clientId"`
	Name     string `db:"name" json:"name"`
}
