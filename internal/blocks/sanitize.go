package blocks

import (
	"fmt"
	"strings"
)

// SanitizeContent cleans avatar objects anywhere in content: the source is
// trimmed and an avatar without one is dropped; a blank alt is removed. It
// returns a new map and reports whether anything changed.
func SanitizeContent(content map[string]any) (map[string]any, bool) {
	if content == nil {
		return nil, false
	}
	out, changed := sanitizeValue(content)
	m, _ := out.(map[string]any)
	return m, changed
}

func sanitizeValue(v any) (any, bool) {
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		changed := false
		for i, item := range t {
			var c bool
			out[i], c = sanitizeValue(item)
			changed = changed || c
		}
		return out, changed
	case map[string]any:
		return sanitizeObject(t)
	default:
		return v, false
	}
}

func sanitizeObject(obj map[string]any) (map[string]any, bool) {
	out := make(map[string]any, len(obj))
	changed := false
	for k, v := range obj {
		if k == "avatar" {
			avatar, ok, c := sanitizeAvatar(v)
			changed = changed || c
			if ok {
				out[k] = avatar
			}
			continue
		}
		nv, c := sanitizeValue(v)
		changed = changed || c
		out[k] = nv
	}
	return out, changed
}

func sanitizeAvatar(raw any) (map[string]any, bool, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, false, true
	}
	var src string
	switch s := obj["src"].(type) {
	case string:
		src = strings.TrimSpace(s)
	case nil:
	default:
		src = fmt.Sprint(s)
	}
	if src == "" {
		return nil, false, true
	}

	out := make(map[string]any, len(obj))
	for k, v := range obj {
		out[k] = v
	}
	changed := out["src"] != src
	out["src"] = src
	if alt, isString := out["alt"].(string); isString {
		trimmed := strings.TrimSpace(alt)
		if trimmed == "" {
			delete(out, "alt")
		} else {
			out["alt"] = trimmed
		}
		changed = changed || trimmed != alt
	}
	return out, true, changed
}
