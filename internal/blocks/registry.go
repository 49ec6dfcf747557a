// Package blocks is the catalogue of block kinds: for each kind its label,
// category, default content, content schema and renderer. Everything the
// document controller and edit sessions need to know about a kind is looked
// up here by the kind discriminant.
package blocks

import (
	"errors"
	"fmt"
	"slices"

	"github.com/a-h/templ"
	validator "github.com/go-playground/validator/v10"

	"github.com/leapstack-labs/pagecraft/pkg/block"
	"github.com/leapstack-labs/pagecraft/pkg/style"
	"github.com/leapstack-labs/pagecraft/pkg/surface"
)

// ErrUnknownKind is returned for a kind the registry does not hold.
var ErrUnknownKind = errors.New("unknown block kind")

// Block kinds.
const (
	KindHero         block.Kind = "hero"
	KindStatGrid     block.Kind = "statGrid"
	KindRichText     block.Kind = "richText"
	KindImageFeature block.Kind = "imageFeature"
	KindFeatureGrid  block.Kind = "featureGrid"
	KindLogoGrid     block.Kind = "logoGrid"
	KindCallToAction block.Kind = "callToAction"
	KindFAQ          block.Kind = "faq"
	KindQuote        block.Kind = "quote"
	KindTreatments   block.Kind = "treatments"
	KindDoctors      block.Kind = "doctors"
)

// Category groups kinds in the block picker.
type Category string

// Categories.
const (
	CategoryHero       Category = "hero"
	CategoryContent    Category = "content"
	CategoryLayout     Category = "layout"
	CategorySocial     Category = "social"
	CategoryEngagement Category = "engagement"
)

// Definition is the capability bundle of one kind.
type Definition struct {
	Kind        block.Kind
	Label       string
	Description string
	Category    Category
	Schema      Schema
	// Surface holds the wrapper defaults the kind renders with.
	Surface surface.Options

	defaults map[string]any
	render   renderFunc
}

// DefaultContent returns a fresh copy of the kind's starter content.
func (d Definition) DefaultContent() map[string]any {
	return block.Instance{Content: d.defaults}.Clone().Content
}

// Registry maps kinds to their definitions.
type Registry struct {
	defs     map[block.Kind]Definition
	order    []block.Kind
	validate *validator.Validate
}

// NewRegistry returns a registry holding every built-in kind.
func NewRegistry() *Registry {
	v := newValidate()
	r := &Registry{defs: make(map[block.Kind]Definition), validate: v}

	padding5 := surface.Options{Padding: style.PaddingDefaults{Top: "5rem", Bottom: "5rem"}}
	withContent := func(o surface.Options, class string) surface.Options {
		o.ContentClass = class
		return o
	}

	r.register(Definition{
		Kind:        KindHero,
		Label:       "Hero",
		Description: "Large introductory section with optional media and primary actions.",
		Category:    CategoryHero,
		Schema:      newSchema[Hero](KindHero, v),
		Surface:     withContent(padding5, "grid gap-10 items-center"),
		render:      renderer(renderHero),
		defaults: map[string]any{
			"eyebrow":        "Eyebrow",
			"heading":        "Craft a compelling hero headline",
			"highlight":      "Highlight key benefits",
			"description":    "Use this section to introduce the page and set context for visitors.",
			"alignment":      "center",
			"background":     "white",
			"containerWidth": "default",
		},
	})
	r.register(Definition{
		Kind:        KindStatGrid,
		Label:       "Stats",
		Description: "Display quick metrics or achievements in a responsive grid.",
		Category:    CategoryContent,
		Schema:      newSchema[StatGrid](KindStatGrid, v),
		Surface:     surface.Options{ContentClass: "space-y-12"},
		render:      renderer(renderStatGrid),
		defaults: map[string]any{
			"columns":        4,
			"emphasizeValue": true,
			"items": []any{
				map[string]any{"label": "Metric", "value": "100+"},
				map[string]any{"label": "Metric", "value": "24/7"},
				map[string]any{"label": "Metric", "value": "50+"},
				map[string]any{"label": "Metric", "value": "98%"},
			},
		},
	})
	r.register(Definition{
		Kind:        KindRichText,
		Label:       "Rich Text",
		Description: "Markdown-enabled content for longer copy blocks.",
		Category:    CategoryContent,
		Schema:      newSchema[RichText](KindRichText, v),
		render:      renderer(renderRichText),
		defaults: map[string]any{
			"markdown": "## Headline\n\nUse markdown to format body content and tell your story.",
			"align":    "start",
			"width":    "prose",
		},
	})
	r.register(Definition{
		Kind:        KindImageFeature,
		Label:       "Image Feature",
		Description: "Content paired with imagery and supporting bullets.",
		Category:    CategoryLayout,
		Schema:      newSchema[ImageFeature](KindImageFeature, v),
		Surface:     withContent(padding5, "grid items-center gap-12 lg:grid-cols-2"),
		render:      renderer(renderImageFeature),
		defaults: map[string]any{
			"layout":  "imageRight",
			"heading": "Section headline",
			"body":    "Describe the value behind the imagery and support it with optional bullets.",
			"image": map[string]any{
				"src":     "/placeholder.svg",
				"alt":     "Placeholder image",
				"rounded": true,
			},
		},
	})
	r.register(Definition{
		Kind:        KindFeatureGrid,
		Label:       "Feature Grid",
		Description: "Showcase core differentiators or services in cards.",
		Category:    CategoryContent,
		Schema:      newSchema[FeatureGrid](KindFeatureGrid, v),
		Surface:     withContent(padding5, "space-y-12"),
		render:      renderer(renderFeatureGrid),
		defaults: map[string]any{
			"columns": 3,
			"variant": "cards",
			"items": []any{
				map[string]any{"title": "Feature", "description": "Tell visitors why this matters."},
				map[string]any{"title": "Feature", "description": "Add supporting context and detail."},
				map[string]any{"title": "Feature", "description": "Keep each item short and focused."},
			},
		},
	})
	r.register(Definition{
		Kind:        KindLogoGrid,
		Label:       "Logo Grid",
		Description: "Display partner or certification logos in a responsive grid.",
		Category:    CategoryContent,
		Schema:      newSchema[LogoGrid](KindLogoGrid, v),
		Surface:     surface.Options{ContentClass: "space-y-10"},
		render:      renderer(renderLogoGrid),
		defaults: map[string]any{
			"columns": 5,
			"logos": []any{
				map[string]any{"name": "Partner", "src": "/logos/logo-1.svg"},
				map[string]any{"name": "Partner", "src": "/logos/logo-2.svg"},
				map[string]any{"name": "Partner", "src": "/logos/logo-3.svg"},
				map[string]any{"name": "Partner", "src": "/logos/logo-4.svg"},
			},
		},
	})
	r.register(Definition{
		Kind:        KindCallToAction,
		Label:       "Call To Action",
		Description: "High-impact CTA section to drive conversions.",
		Category:    CategoryEngagement,
		Schema:      newSchema[CallToAction](KindCallToAction, v),
		render:      renderer(renderCallToAction),
		defaults: map[string]any{
			"layout":     "centered",
			"background": "muted",
			"heading":    "Ready to take the next step?",
			"actions": []any{
				map[string]any{"label": "Book a consultation", "href": "/consultation", "variant": "default"},
			},
		},
	})
	r.register(Definition{
		Kind:        KindFAQ,
		Label:       "FAQ",
		Description: "Answer common questions in an accordion style.",
		Category:    CategoryContent,
		Schema:      newSchema[FAQ](KindFAQ, v),
		Surface:     surface.Options{ContentClass: "space-y-10"},
		render:      renderer(renderFAQ),
		defaults: map[string]any{
			"layout": "twoColumn",
			"items": []any{
				map[string]any{
					"question": "How does the process work?",
					"answer":   "Provide a concise answer that reassures the visitor and explains next steps.",
				},
				map[string]any{
					"question": "What services are included?",
					"answer":   "Highlight the breadth of support and value you deliver.",
				},
			},
		},
	})
	r.register(Definition{
		Kind:        KindQuote,
		Label:       "Quote",
		Description: "Spotlight a testimonial or leadership quote.",
		Category:    CategorySocial,
		Schema:      newSchema[Quote](KindQuote, v),
		Surface:     withContent(padding5, "max-w-4xl"),
		render:      renderer(renderQuote),
		defaults: map[string]any{
			"quote":       "Working with the team made the whole journey seamless from start to finish.",
			"attribution": "Customer Name",
			"role":        "Role • Company",
		},
	})
	r.register(Definition{
		Kind:        KindTreatments,
		Label:       "Treatments",
		Description: "Surface treatments dynamically from the catalog.",
		Category:    CategoryContent,
		Schema:      newSchema[Treatments](KindTreatments, v),
		Surface:     surface.Options{ContentClass: "space-y-10"},
		render:      renderer(renderTreatments),
		defaults: map[string]any{
			"title":        "Featured Treatments",
			"description":  "Highlight high-impact procedures with live data.",
			"layout":       "grid",
			"limit":        6,
			"featuredOnly": true,
		},
	})
	r.register(Definition{
		Kind:        KindDoctors,
		Label:       "Doctors",
		Description: "Showcase specialists pulled from the directory.",
		Category:    CategoryContent,
		Schema:      newSchema[Doctors](KindDoctors, v),
		Surface:     surface.Options{ContentClass: "space-y-10"},
		render:      renderer(renderDoctors),
		defaults: map[string]any{
			"title":        "Meet Our Doctors",
			"description":  "Introduce patients to experienced specialists.",
			"layout":       "grid",
			"limit":        6,
			"featuredOnly": true,
		},
	})
	return r
}

func (r *Registry) register(d Definition) {
	if _, dup := r.defs[d.Kind]; !dup {
		r.order = append(r.order, d.Kind)
	}
	r.defs[d.Kind] = d
}

// Lookup returns the definition of kind.
func (r *Registry) Lookup(kind block.Kind) (Definition, error) {
	d, ok := r.defs[kind]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return d, nil
}

// Definitions returns every definition in registration order.
func (r *Registry) Definitions() []Definition {
	out := make([]Definition, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.defs[k])
	}
	return out
}

// Categories returns the categories in use, in first-seen order.
func (r *Registry) Categories() []Category {
	var out []Category
	for _, d := range r.Definitions() {
		if !slices.Contains(out, d.Category) {
			out = append(out, d.Category)
		}
	}
	return out
}

// ByCategory returns the definitions filed under c.
func (r *Registry) ByCategory(c Category) []Definition {
	var out []Definition
	for _, d := range r.Definitions() {
		if d.Category == c {
			out = append(out, d)
		}
	}
	return out
}

// NewBlock is the default factory: a block of kind holding the kind's
// starter content and a fresh identity.
func (r *Registry) NewBlock(kind block.Kind) (block.Instance, error) {
	d, err := r.Lookup(kind)
	if err != nil {
		return block.Instance{}, err
	}
	return block.Instance{Kind: kind, BlockID: block.NewID(), Content: d.DefaultContent()}, nil
}

// Validate checks b's content against its kind schema and its advanced
// settings. The returned instance carries the normalized content; style,
// identity and advanced settings are passed through.
func (r *Registry) Validate(b block.Instance) (block.Instance, error) {
	d, err := r.Lookup(b.Kind)
	if err != nil {
		return block.Instance{}, err
	}
	content, err := d.Schema.Validate(b.Content)
	if err != nil {
		return block.Instance{}, err
	}
	if err := validateAdvanced(r.validate, b.Kind, b.Advanced); err != nil {
		return block.Instance{}, err
	}
	out := b.Clone()
	out.Content = content
	return out, nil
}

// Render returns the full section for b: the surface assembled by res
// around the kind's content renderer. Unknown kinds and undecodable content
// render a notice in place of the content.
func (r *Registry) Render(res *style.Resolver, b block.Instance) templ.Component {
	d, err := r.Lookup(b.Kind)
	if err != nil {
		return surface.Assemble(res, b, surface.Options{}).Component(renderUnsupported("Unsupported block: " + string(b.Kind)))
	}
	s := surface.Assemble(res, b, d.Surface)
	content, err := d.Schema.Decode(b.Content)
	if err != nil {
		return s.Component(renderUnsupported(err.Error()))
	}
	return s.Component(func(c surface.Context) templ.Component {
		return d.render(c, b, content)
	})
}
