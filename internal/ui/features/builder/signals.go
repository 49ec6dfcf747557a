package builder

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/leapstack-labs/pagecraft/internal/workspace"
	"github.com/leapstack-labs/pagecraft/pkg/block"
)

// inspectorSignals are the inspector fields bound in the browser.
type inspectorSignals struct {
	Content    string `json:"content"`
	Style      string `json:"style"`
	Anchor     string `json:"anchor"`
	ClassName  string `json:"className"`
	PresetLock bool   `json:"presetLock"`
}

// builderSignals is everything the builder page posts back.
type builderSignals struct {
	inspectorSignals
	Preset string `json:"preset"`
	Note   string `json:"note"`
}

// signalsFor fills the inspector from b.
func signalsFor(b block.Instance) inspectorSignals {
	s := inspectorSignals{
		Content: indentJSON(b.Content),
	}
	if s.Content == "null" {
		s.Content = "{}"
	}
	if b.Style != nil {
		s.Style = indentJSON(b.Style)
	}
	if b.Advanced != nil {
		s.Anchor = b.Advanced.AnchorID
		s.ClassName = b.Advanced.CustomClassName
		s.PresetLock = b.Advanced.PresetLock
	}
	return s
}

// initialSignals seeds the builder page with the selected block's fields.
func initialSignals(v workspace.View) string {
	var signals builderSignals
	if b, ok := v.SelectedBlock(); ok {
		signals.inspectorSignals = signalsFor(b)
	}
	data, err := json.Marshal(signals)
	if err != nil {
		return "{}"
	}
	return string(data)
}

func indentJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ""
	}
	return string(data)
}

// edit parses the inspector fields into a workspace edit.
func (s inspectorSignals) edit() (workspace.Edit, error) {
	e := workspace.Edit{
		Content:    map[string]any{},
		Anchor:     s.Anchor,
		ClassName:  strings.TrimSpace(s.ClassName),
		PresetLock: s.PresetLock,
	}

	if content := strings.TrimSpace(s.Content); content != "" {
		if err := json.Unmarshal([]byte(content), &e.Content); err != nil {
			return workspace.Edit{}, fmt.Errorf("content is not a valid JSON object: %w", err)
		}
		if e.Content == nil {
			e.Content = map[string]any{}
		}
	}

	if raw := strings.TrimSpace(s.Style); raw != "" && raw != "null" {
		dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
		dec.DisallowUnknownFields()
		var style block.Style
		if err := dec.Decode(&style); err != nil {
			return workspace.Edit{}, fmt.Errorf("style is not valid: %w", err)
		}
		e.Style = &style
	}
	return e, nil
}
