package pages

import (
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/pagecraft/internal/blocks"
	"github.com/leapstack-labs/pagecraft/internal/document"
	"github.com/leapstack-labs/pagecraft/internal/publish"
	"github.com/leapstack-labs/pagecraft/internal/workspace"
	"github.com/leapstack-labs/pagecraft/pkg/block"
)

// Data is everything the builder views draw from.
type Data struct {
	View     workspace.View
	Device   document.Device
	Registry *blocks.Registry
	Renderer publish.Renderer
	Presets  []document.Preset
	IsDev    bool
	// Signals is the JSON object seeding the page's datastar signals.
	Signals string
}

// URL joins parts under the page's route, escaping each one.
func (d Data) URL(parts ...string) string {
	u := "/pages/" + url.PathEscape(d.View.Slug)
	for _, p := range parts {
		u += "/" + url.PathEscape(p)
	}
	return u
}

func (d Data) title() string {
	if d.View.Title == "" {
		return d.View.Slug
	}
	return d.View.Title
}

func (d Data) updates() string {
	return "@get('" + d.URL("updates") + "?rev=" + strconv.FormatUint(d.View.InspectorRev, 10) + "')"
}

func (d Data) label(kind block.Kind) string {
	if def, err := d.Registry.Lookup(kind); err == nil {
		return def.Label
	}
	return string(kind)
}

// frameStyle sizes the preview to the chosen device.
func (d Data) frameStyle() templ.OrderedAttributes {
	return templ.OrderedAttributes{templ.KV[string, any]("style", "width:"+d.Device.Width())}
}

func post(u string) string {
	return "@post('" + u + "')"
}

func remove(u string) string {
	return "@delete('" + u + "')"
}

func deviceClass(dev, current document.Device) string {
	if dev == current {
		return "btn btn-default"
	}
	return "btn btn-outline"
}

func statusClass(v workspace.View) string {
	if v.Dirty {
		return "toolbar__status toolbar__status--dirty"
	}
	return "toolbar__status"
}

func statusText(v workspace.View) string {
	if v.Dirty {
		return "Unsaved changes"
	}
	return "All changes saved"
}

func itemClass(i, selected int) string {
	if i == selected {
		return "structure__item structure__item--selected"
	}
	return "structure__item"
}

func canvasID(version uint64) string {
	return "canvas-" + strconv.FormatUint(version, 10)
}

func issueText(is blocks.FieldIssue) string {
	if is.Field == "" {
		return is.Message
	}
	return is.Field + ": " + is.Message
}
