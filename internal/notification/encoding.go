package notification

import (
	"encoding/json"
	"fmt"
	"time"
)

type batchJSON struct {
	Recipients []recipientsJSON     `json:"recipients"`
	Properties map[string]valueJSON `json:"properties,omitempty"`
	Aliases    map[string]string    `json:"aliases,omitempty"`
}

type recipientsJSON struct {
	Category Category `json:"category"`
	IDs      []int64  `json:"ids"`
}

type valueJSON struct {
	Literal json.RawMessage `json:"literal,omitempty"`
	Ref     *refJSON        `json:"ref,omitempty"`
}

type refJSON struct {
	Kind EntityKind `json:"kind"`
	ID   int64      `json:"id,omitempty"`
	Key  string     `json:"key,omitempty"`
}

func (b *Batch) MarshalJSON() ([]byte, error) {
	out := batchJSON{
		Recipients: make([]recipientsJSON, 0, len(b.order)),
		Properties: make(map[string]valueJSON, len(b.properties)),
		Aliases:    b.aliases,
	}
	for _, c := range b.order {
		out.Recipients = append(out.Recipients, recipientsJSON{Category: c, IDs: b.recipients[c]})
	}
	for name, v := range b.properties {
		switch v := v.(type) {
		case Literal:
			raw, err := json.Marshal(v.V)
			if err != nil {
				return nil, fmt.Errorf("marshal property %s: %w", name, err)
			}
			out.Properties[name] = valueJSON{Literal: raw}
		case Ref:
			out.Properties[name] = valueJSON{Ref: &refJSON{Kind: v.Kind, ID: v.ID, Key: v.Key}}
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a batch. Literal values come back as their generic JSON
// form (numbers as float64, objects as map[string]any).
func (b *Batch) UnmarshalJSON(data []byte) error {
	var in batchJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*b = *NewBatch()
	for _, r := range in.Recipients {
		if !r.Category.Valid() {
			return fmt.Errorf("unknown notification category %q", r.Category)
		}
		b.AddRecipients(r.Category, r.IDs...)
	}
	for name, v := range in.Properties {
		switch {
		case v.Ref != nil:
			b.properties[name] = Ref{Kind: v.Ref.Kind, ID: v.Ref.ID, Key: v.Ref.Key}
		case v.Literal != nil:
			var lit any
			if err := json.Unmarshal(v.Literal, &lit); err != nil {
				return fmt.Errorf("unmarshal property %s: %w", name, err)
			}
			b.properties[name] = Literal{V: lit}
		}
	}
	for name, target := range in.Aliases {
		b.aliases[name] = target
	}
	return nil
}

// Envelope is the hand-off form of a batch written to the outbox and the broker.
type Envelope struct {
	ID        string    `json:"id"`
	EventID   string    `json:"eventId,omitempty"`
	EventType string    `json:"eventType"`
	CreatedAt time.Time `json:"createdAt"`
	Batch     *Batch    `json:"batch"`
}
