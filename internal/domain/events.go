package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// EventType names a committed domain event that may produce notifications.
type EventType string

const (
	EventCommentPersonal EventType = "comment.personal"
	EventCommentGroup    EventType = "comment.group"
	EventLike            EventType = "activity.like"
	EventFollowPerson    EventType = "follow.person"
	EventFollowGroup     EventType = "follow.group"
	EventFlag            EventType = "activity.flag"
	EventPostPersonal    EventType = "post.personal"
	EventPostGroup       EventType = "post.group"
	EventGroupMembership EventType = "group.membership"
	EventNewGroup        EventType = "group.new"
	EventPreBuilt        EventType = "notification.prebuilt"
)

// ErrUnknownEventType is returned when an envelope names an event type nothing can decode.
var ErrUnknownEventType = errors.New("unknown event type")

// Decision is the state of an access or creation request.
type Decision string

const (
	DecisionRequested Decision = "requested"
	DecisionApproved  Decision = "approved"
	DecisionDenied    Decision = "denied"
)

// Event is implemented by every notification request.
type Event interface {
	EventType() EventType
	Actor() int64
}

type ActivityEvent struct {
	Type          EventType `json:"type" validate:"required"`
	ActorID       int64     `json:"actorId" validate:"gt=0"`
	ActivityID    int64     `json:"activityId" validate:"gt=0"`
	DestinationID int64     `json:"destinationId" validate:"gte=0"`
}

func (e ActivityEvent) EventType() EventType { return e.Type }
func (e ActivityEvent) Actor() int64         { return e.ActorID }

type CommentEvent struct {
	Type          EventType `json:"type" validate:"required"`
	ActorID       int64     `json:"actorId" validate:"gt=0"`
	ActivityID    int64     `json:"activityId" validate:"gte=0"`
	CommentID     int64     `json:"commentId" validate:"gt=0"`
	DestinationID int64     `json:"destinationId" validate:"gte=0"`
}

func (e CommentEvent) EventType() EventType { return e.Type }
func (e CommentEvent) Actor() int64         { return e.ActorID }

// TargetEvent carries an actor acting on a person or group, e.g. a follow.
type TargetEvent struct {
	Type     EventType `json:"type" validate:"required"`
	ActorID  int64     `json:"actorId" validate:"gt=0"`
	TargetID int64     `json:"targetId" validate:"gt=0"`
}

func (e TargetEvent) EventType() EventType { return e.Type }
func (e TargetEvent) Actor() int64         { return e.ActorID }

// MembershipEvent covers a request to join a private group and the coordinator's response.
type MembershipEvent struct {
	Type        EventType `json:"type" validate:"required"`
	ActorID     int64     `json:"actorId" validate:"gt=0"`
	GroupID     int64     `json:"groupId" validate:"gt=0"`
	RequesterID int64     `json:"requesterId" validate:"gt=0"`
	Decision    Decision  `json:"decision" validate:"oneof=requested approved denied"`
}

func (e MembershipEvent) EventType() EventType { return e.Type }
func (e MembershipEvent) Actor() int64         { return e.ActorID }

// NewGroupEvent covers a request to create a group and the administrator's response.
// GroupName is carried because a denied group no longer exists.
type NewGroupEvent struct {
	Type        EventType `json:"type" validate:"required"`
	ActorID     int64     `json:"actorId" validate:"gt=0"`
	GroupID     int64     `json:"groupId" validate:"gte=0"`
	RequesterID int64     `json:"requesterId" validate:"gt=0"`
	GroupName   string    `json:"groupName" validate:"required_if=Decision denied"`
	Decision    Decision  `json:"decision" validate:"oneof=requested approved denied"`
}

func (e NewGroupEvent) EventType() EventType { return e.Type }
func (e NewGroupEvent) Actor() int64         { return e.ActorID }

// PreBuiltEvent is an administrator- or application-composed notification.
// ClientID identifies the sending OAuth consumer; when empty the sender is ActorID.
type PreBuiltEvent struct {
	Type         EventType `json:"type" validate:"required"`
	ActorID      int64     `json:"actorId" validate:"required_without=ClientID,gte=0"`
	ClientID     string    `json:"clientId"`
	RecipientID  int64     `json:"recipientId" validate:"gt=0"`
	Message      string    `json:"message" validate:"required,max=250"`
	URL          string    `json:"url" validate:"omitempty,max=2048"`
	HighPriority bool      `json:"highPriority"`
}

func (e PreBuiltEvent) EventType() EventType { return e.Type }
func (e PreBuiltEvent) Actor() int64         { return e.ActorID }

// Envelope is the wire form of an event on the bus and the HTTP ingest endpoint.
type Envelope struct {
	ID    string          `json:"id"`
	Type  EventType       `json:"type"`
	Event json.RawMessage `json:"event"`
}

// Decode builds the typed event named by the envelope.
func (e Envelope) Decode() (Event, error) {
	return DecodeEvent(e.Type, e.Event)
}

// DecodeEvent unmarshals raw into the request struct for typ. The Type field of the
// result is always typ, whatever raw says.
func DecodeEvent(typ EventType, raw json.RawMessage) (Event, error) {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	switch typ {
	case EventCommentPersonal, EventCommentGroup:
		var ev CommentEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			return nil, fmt.Errorf("decode %s: %w", typ, err)
		}
		ev.Type = typ
		return ev, nil
	case EventLike, EventFlag, EventPostPersonal, EventPostGroup:
		var ev ActivityEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			return nil, fmt.Errorf("decode %s: %w", typ, err)
		}
		ev.Type = typ
		return ev, nil
	case EventFollowPerson, EventFollowGroup:
		var ev TargetEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			return nil, fmt.Errorf("decode %s: %w", typ, err)
		}
		ev.Type = typ
		return ev, nil
	case EventGroupMembership:
		var ev MembershipEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			return nil, fmt.Errorf("decode %s: %w", typ, err)
		}
		ev.Type = typ
		return ev, nil
	case EventNewGroup:
		var ev NewGroupEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			return nil, fmt.Errorf("decode %s: %w", typ, err)
		}
		ev.Type = typ
		return ev, nil
	case EventPreBuilt:
		var ev PreBuiltEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			return nil, fmt.Errorf("decode %s: %w", typ, err)
		}
		ev.Type = typ
		return ev, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, typ)
	}
}
