package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/pagecraft/pkg/block"
	"github.com/leapstack-labs/pagecraft/pkg/responsive"
)

// Preset is a named, reusable block style.
type Preset struct {
	ID          string
	Label       string
	Description string
	Style       block.Style
}

// Apply returns a copy of the preset's style tagged with its id.
func (p Preset) Apply() *block.Style {
	out := block.Style{}
	if data, err := json.Marshal(p.Style); err == nil {
		_ = json.Unmarshal(data, &out)
	}
	out.PresetID = p.ID
	return &out
}

// Presets is an ordered preset catalogue.
type Presets struct {
	byID  map[string]Preset
	order []string
}

// NewPresets builds a catalogue. A later preset replaces an earlier one
// with the same id but keeps its position.
func NewPresets(presets ...Preset) *Presets {
	p := &Presets{byID: map[string]Preset{}}
	for _, preset := range presets {
		p.Add(preset)
	}
	return p
}

// Add inserts or replaces a preset.
func (p *Presets) Add(preset Preset) {
	if _, ok := p.byID[preset.ID]; !ok {
		p.order = append(p.order, preset.ID)
	}
	p.byID[preset.ID] = preset
}

// Lookup returns the preset with id.
func (p *Presets) Lookup(id string) (Preset, bool) {
	if p == nil {
		return Preset{}, false
	}
	preset, ok := p.byID[id]
	return preset, ok
}

// List returns presets in catalogue order.
func (p *Presets) List() []Preset {
	if p == nil {
		return nil
	}
	out := make([]Preset, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.byID[id])
	}
	return out
}

// BuiltinPresets returns the presets every project starts with.
func BuiltinPresets() *Presets {
	return NewPresets(
		Preset{
			ID:          "compact",
			Label:       "Compact",
			Description: "Tight vertical rhythm for dense pages.",
			Style: block.Style{Layout: &block.Layout{Padding: &block.Padding{
				Top:    responsive.Of("sm"),
				Bottom: responsive.Of("sm"),
			}}},
		},
		Preset{
			ID:          "spacious",
			Label:       "Spacious",
			Description: "Generous padding that opens up on larger screens.",
			Style: block.Style{Layout: &block.Layout{Padding: &block.Padding{
				Top:    responsive.Value[string]{responsive.Base: "lg", responsive.Desktop: "2xl"},
				Bottom: responsive.Value[string]{responsive.Base: "lg", responsive.Desktop: "2xl"},
			}}},
		},
		Preset{
			ID:          "muted",
			Label:       "Muted band",
			Description: "Soft neutral background to separate sections.",
			Style: block.Style{Background: &block.Background{
				Variant: block.BackgroundSolid,
				Color:   responsive.Of("#f4f4f5"),
			}},
		},
		Preset{
			ID:          "inverted",
			Label:       "Inverted",
			Description: "Dark background with light text.",
			Style: block.Style{
				Background: &block.Background{
					Variant: block.BackgroundSolid,
					Color:   responsive.Of("#0f172a"),
				},
				Typography: &block.Typography{TextColor: responsive.Of("#f8fafc")},
			},
		},
		Preset{
			ID:          "narrow",
			Label:       "Narrow column",
			Description: "Centered reading width for long text.",
			Style: block.Style{Layout: &block.Layout{
				MaxWidth:        responsive.Of("content"),
				HorizontalAlign: responsive.Of("center"),
			}},
		},
	)
}

// PresetFileError reports a malformed preset catalogue.
type PresetFileError struct {
	Path    string
	Message string
}

func (e *PresetFileError) Error() string {
	if e.Path == "" {
		return "invalid preset catalogue: " + e.Message
	}
	return fmt.Sprintf("invalid preset catalogue %s: %s", e.Path, e.Message)
}

type presetFileYAML struct {
	Presets []presetYAML `yaml:"presets"`
}

type presetYAML struct {
	ID          string         `yaml:"id"`
	Label       string         `yaml:"label"`
	Description string         `yaml:"description"`
	Style       map[string]any `yaml:"style"`
}

// ParsePresets reads a YAML preset catalogue:
//
//	presets:
//	  - id: brand
//	    label: Brand band
//	    style:
//	      background: {variant: solid, color: {base: "#1d4ed8"}}
//
// Style keys use the same names as the JSON block format.
func ParsePresets(r io.Reader) ([]Preset, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file presetFileYAML
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, &PresetFileError{Message: err.Error()}
	}

	out := make([]Preset, 0, len(file.Presets))
	for i, raw := range file.Presets {
		if raw.ID == "" {
			return nil, &PresetFileError{Message: fmt.Sprintf("preset %d has no id", i)}
		}
		data, err := json.Marshal(raw.Style)
		if err != nil {
			return nil, &PresetFileError{Message: fmt.Sprintf("preset %q: %v", raw.ID, err)}
		}
		var st block.Style
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&st); err != nil {
			return nil, &PresetFileError{Message: fmt.Sprintf("preset %q: %v", raw.ID, err)}
		}
		label := raw.Label
		if label == "" {
			label = raw.ID
		}
		out = append(out, Preset{ID: raw.ID, Label: label, Description: raw.Description, Style: st})
	}
	return out, nil
}

// LoadPresets returns the built-in presets extended by the catalogue at
// path. An empty path yields only the built-ins.
func LoadPresets(path string) (*Presets, error) {
	presets := BuiltinPresets()
	if path == "" {
		return presets, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open preset catalogue: %w", err)
	}
	defer func() { _ = f.Close() }()

	extra, err := ParsePresets(f)
	if err != nil {
		var pe *PresetFileError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	for _, p := range extra {
		presets.Add(p)
	}
	return presets, nil
}
