// Package notification holds the output of notification translation: which people are
// notified under which category, and the properties needed to render the notification.
package notification

import (
	"errors"
	"fmt"
)

// ErrAliasCycle is returned when an alias would resolve back to itself.
var ErrAliasCycle = errors.New("property alias cycle")

// Batch maps categories to recipients and carries a property bag with aliases.
// A Batch is built by one translation call and is not safe for concurrent mutation.
type Batch struct {
	order      []Category
	recipients map[Category][]int64
	seen       map[Category]map[int64]struct{}
	properties map[string]Value
	aliases    map[string]string
}

func NewBatch() *Batch {
	return &Batch{
		recipients: make(map[Category][]int64),
		seen:       make(map[Category]map[int64]struct{}),
		properties: make(map[string]Value),
		aliases:    make(map[string]string),
	}
}

// NewBatchFor returns a batch with one category pre-populated.
func NewBatchFor(c Category, ids ...int64) *Batch {
	b := NewBatch()
	b.AddRecipients(c, ids...)
	return b
}

// AddRecipients appends ids to the category's list, skipping ids already present.
// Order of first appearance is kept. An empty call leaves the batch unchanged.
func (b *Batch) AddRecipients(c Category, ids ...int64) {
	if len(ids) == 0 {
		return
	}
	seen, ok := b.seen[c]
	if !ok {
		seen = make(map[int64]struct{}, len(ids))
		b.seen[c] = seen
		b.order = append(b.order, c)
	}
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		b.recipients[c] = append(b.recipients[c], id)
	}
}

// Categories returns the categories in the order they were first populated.
func (b *Batch) Categories() []Category {
	return append([]Category(nil), b.order...)
}

func (b *Batch) Recipients(c Category) []int64 {
	return append([]int64(nil), b.recipients[c]...)
}

// AllRecipients returns every distinct recipient across categories.
func (b *Batch) AllRecipients() []int64 {
	var out []int64
	seen := make(map[int64]struct{})
	for _, c := range b.order {
		for _, id := range b.recipients[c] {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

// Empty reports whether no category has recipients.
func (b *Batch) Empty() bool {
	return len(b.order) == 0
}

// SetProperty stores a literal value. A Value argument is stored as is.
func (b *Batch) SetProperty(name string, v any) {
	val, ok := v.(Value)
	if !ok {
		val = Literal{V: v}
	}
	delete(b.aliases, name)
	b.properties[name] = val
}

// SetRef stores a deferred lookup of an id-keyed entity.
func (b *Batch) SetRef(name string, kind EntityKind, id int64) {
	b.SetProperty(name, Ref{Kind: kind, ID: id})
}

// SetKeyRef stores a deferred lookup of a string-keyed entity such as an app.
func (b *Batch) SetKeyRef(name string, kind EntityKind, key string) {
	b.SetProperty(name, Ref{Kind: kind, Key: key})
}

// SetPropertyAlias makes name resolve to whatever existing resolves to. Chains are
// collapsed to their final target; existing does not have to be set yet.
func (b *Batch) SetPropertyAlias(name, existing string) error {
	target := existing
	for hops := 0; ; hops++ {
		if target == name {
			return fmt.Errorf("%w: %s -> %s", ErrAliasCycle, name, existing)
		}
		next, ok := b.aliases[target]
		if !ok {
			break
		}
		if hops > len(b.aliases) {
			return fmt.Errorf("%w: %s -> %s", ErrAliasCycle, name, existing)
		}
		target = next
	}
	delete(b.properties, name)
	b.aliases[name] = target
	return nil
}

// Property returns the value name resolves to, following aliases.
func (b *Batch) Property(name string) (Value, bool) {
	for hops := 0; hops <= len(b.aliases); hops++ {
		if v, ok := b.properties[name]; ok {
			return v, true
		}
		next, ok := b.aliases[name]
		if !ok {
			return nil, false
		}
		name = next
	}
	return nil, false
}

// Properties returns a copy of the directly set properties.
func (b *Batch) Properties() map[string]Value {
	out := make(map[string]Value, len(b.properties))
	for k, v := range b.properties {
		out[k] = v
	}
	return out
}

// Aliases returns a copy of the alias table.
func (b *Batch) Aliases() map[string]string {
	out := make(map[string]string, len(b.aliases))
	for k, v := range b.aliases {
		out[k] = v
	}
	return out
}
