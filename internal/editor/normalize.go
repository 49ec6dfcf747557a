package editor

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Normalize returns a comparable copy of v: a deep copy in JSON form with
// null values removed and "id" fields holding a UUID dropped. Those ids
// track rows in editable lists and carry no domain meaning.
func Normalize(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return prune(out)
}

// Snapshot is the canonical serialized form of Normalize(v). Object keys
// are emitted in sorted order, so equal values give equal snapshots.
func Snapshot(v any) string {
	data, err := json.Marshal(Normalize(v))
	if err != nil {
		return ""
	}
	return string(data)
}

func prune(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			if item == nil || (k == "id" && isRowID(item)) {
				delete(t, k)
				continue
			}
			t[k] = prune(item)
		}
		return t
	case []any:
		for i, item := range t {
			t[i] = prune(item)
		}
		return t
	default:
		return v
	}
}

func isRowID(v any) bool {
	s, ok := v.(string)
	return ok && len(s) == 36 && uuid.Validate(s) == nil
}
