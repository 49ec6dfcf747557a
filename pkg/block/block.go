// Package block defines the block instance data model shared by the style
// resolver, the document controller and the edit sessions.
//
// A block carries kind-specific content, which this package treats as an
// opaque JSON object, plus a generic style envelope and advanced settings.
// Instances are values: mutation always goes through a copy.
package block

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Kind discriminates block content variants.
type Kind string

// MinIDLength is the shortest blockId accepted as a stable identity.
// Shorter or missing ids are replaced on load.
const MinIDLength = 6

// Instance is one composable unit of a document.
type Instance struct {
	Kind     Kind           `json:"kind"`
	BlockID  string         `json:"blockId,omitempty"`
	Content  map[string]any `json:"content,omitempty"`
	Style    *Style         `json:"style,omitempty"`
	Advanced *Advanced      `json:"advanced,omitempty"`
}

// NewID mints a block identity.
func NewID() string {
	return uuid.NewString()
}

// Clone returns a deep copy of b. Content is copied through its JSON form,
// so numbers come back as float64 and typed slices as []any.
func (b Instance) Clone() Instance {
	data, err := json.Marshal(b)
	if err != nil {
		// Content holding values JSON cannot encode; copy what we can.
		out := b
		out.Content = copyMap(b.Content)
		return out
	}
	var out Instance
	if err := json.Unmarshal(data, &out); err != nil {
		return b
	}
	return out
}

// Duplicate returns a structural copy of b with a freshly minted identity.
func (b Instance) Duplicate() Instance {
	out := b.Clone()
	out.BlockID = NewID()
	return out
}

// EnsureIdentity assigns a new blockId when the current one is missing or
// too short. It reports whether the id changed.
func (b *Instance) EnsureIdentity() bool {
	if len(b.BlockID) >= MinIDLength {
		return false
	}
	b.BlockID = NewID()
	return true
}

// Text returns a content field as a string, or "".
func (b Instance) Text(field string) string {
	s, _ := b.Content[field].(string)
	return s
}

// Items returns the length of a list-valued content field.
func (b Instance) Items(field string) int {
	list, _ := b.Content[field].([]any)
	return len(list)
}

// Number returns a numeric content field.
func (b Instance) Number(field string) (float64, bool) {
	switch v := b.Content[field].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func copyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return copyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}
