package notification

// EntityKind names what a deferred lookup resolves to.
type EntityKind string

const (
	KindPerson   EntityKind = "person"
	KindGroup    EntityKind = "group"
	KindActivity EntityKind = "activity"
	KindComment  EntityKind = "comment"
	KindApp      EntityKind = "app"
)

// Property names used by the translators.
const (
	PropActor        = "actor"
	PropSource       = "source"
	PropStream       = "stream"
	PropActivity     = "activity"
	PropComment      = "comment"
	PropGroup        = "group"
	PropURL          = "url"
	PropMessage      = "message"
	PropHighPriority = "highPriority"
)

// Value is a batch property: either a Literal or a Ref resolved later by the delivery side.
type Value interface {
	value()
}

// Literal is a property whose value is already known.
type Literal struct {
	V any
}

// Ref is a deferred lookup. Apps are keyed by Key; every other kind by ID.
type Ref struct {
	Kind EntityKind
	ID   int64
	Key  string
}

func (Literal) value() {}
func (Ref) value()     {}

func PersonRef(id int64) Ref   { return Ref{Kind: KindPerson, ID: id} }
func GroupRef(id int64) Ref    { return Ref{Kind: KindGroup, ID: id} }
func ActivityRef(id int64) Ref { return Ref{Kind: KindActivity, ID: id} }
func CommentRef(id int64) Ref  { return Ref{Kind: KindComment, ID: id} }
func AppRef(clientID string) Ref {
	return Ref{Kind: KindApp, Key: clientID}
}
