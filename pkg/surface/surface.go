// Package surface assembles the structural wrapper shared by every block:
// the section element with its resolved id, classes, inline style and
// scoped stylesheet, the optional background video and overlay layers, and
// the content container handed to a kind-specific renderer.
package surface

import (
	"strings"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/pagecraft/pkg/block"
	"github.com/leapstack-labs/pagecraft/pkg/responsive"
	"github.com/leapstack-labs/pagecraft/pkg/style"
)

// ContentIDSuffix is appended to the DOM id to name the content element.
const ContentIDSuffix = "__content"

const (
	sectionClass   = "relative overflow-hidden bg-background"
	containerClass = "container mx-auto px-4"
	contentClass   = "relative z-10"
)

// Options tunes how a block is wrapped.
type Options struct {
	// Padding is used when the block sets no padding. Zero means
	// the resolver's DefaultPadding.
	Padding style.PaddingDefaults
	// Class is appended to the section classes.
	Class string
	// Style overrides the background inline style property by property.
	Style style.Inline
	// NoContainer drops the centered container utilities; the inner
	// selector class is kept so inner-layout rules still apply.
	NoContainer bool
	// ContainerClass is appended to the container classes.
	ContainerClass string
	// ContentClass is appended to the content element classes.
	ContentClass string
	// TypographyTarget replaces the derived content id.
	TypographyTarget string
}

// Context is what a content renderer receives.
type Context struct {
	DomID     string
	ContentID string
}

// Renderer draws a block's content inside its surface.
type Renderer func(Context) templ.Component

// Surface is a render-ready block wrapper.
type Surface struct {
	Context

	SectionClasses   []string
	ContainerClasses []string
	ContentClasses   []string
	Inline           style.Inline
	Sheet            responsive.Stylesheet
	Attrs            []style.Attr
	Video            *block.Video
	Overlay          bool
}

// Assemble resolves b through r. The block is not modified.
func Assemble(r *style.Resolver, b block.Instance, opts Options) Surface {
	domID := style.DomID(b)
	contentID := opts.TypographyTarget
	if contentID == "" {
		contentID = domID + ContentIDSuffix
	}
	padding := opts.Padding
	if padding == (style.PaddingDefaults{}) {
		padding = r.DefaultPadding()
	}

	s := Surface{Context: Context{DomID: domID, ContentID: contentID}}

	var (
		layout *block.Layout
		typo   *block.Typography
		bg     *block.Background
		fx     *block.Effects
	)
	if b.Style != nil {
		layout, typo, bg, fx = b.Style.Layout, b.Style.Typography, b.Style.Background, b.Style.Effects
	}
	var pad *block.Padding
	if layout != nil {
		pad = layout.Padding
	}

	background := r.Background(domID, bg)

	s.Sheet.Append(r.Spacing(domID, pad, padding))
	s.Sheet.Append(r.InnerLayout(domID, layout))
	s.Sheet.Append(r.Typography(contentID, typo))
	s.Sheet.Append(background.Sheet)
	if background.Overlay != nil {
		s.Overlay = true
		s.Sheet.Append(r.Overlay(domID, background.Overlay))
	}
	s.Sheet = s.Sheet.Sorted()

	s.Inline = background.Inline.Merge(opts.Style)
	if background.Video != nil && strings.TrimSpace(background.Video.Src) != "" {
		s.Video = background.Video
	}
	s.Attrs = style.AnimationAttrs(fx)

	s.SectionClasses = classes(append([]string{sectionClass}, style.VisibilityClasses(b.Style)...),
		style.AdvancedClass(b.Advanced), opts.Class)
	inner := strings.TrimPrefix(r.InnerSelector(), ".")
	if opts.NoContainer {
		s.ContainerClasses = classes(nil, inner, opts.ContainerClass)
	} else {
		s.ContainerClasses = classes([]string{containerClass}, inner, opts.ContainerClass)
	}
	s.ContentClasses = classes([]string{contentClass}, opts.ContentClass)
	return s
}

// CSS returns the block's stylesheet: breakpoints ascending, duplicate
// blocks emitted once.
func (s Surface) CSS() string {
	return s.Sheet.String()
}

// Component renders the surface around the content render draws.
func (s Surface) Component(render Renderer) templ.Component {
	var content templ.Component
	if render != nil {
		content = render(s.Context)
	}
	return section(s, content)
}

// attributes lists the inline style and animation attributes in order.
func (s Surface) attributes() templ.OrderedAttributes {
	attrs := make(templ.OrderedAttributes, 0, len(s.Attrs)+1)
	if len(s.Inline) > 0 {
		attrs = append(attrs, templ.KV[string, any]("style", s.Inline.String()))
	}
	for _, a := range s.Attrs {
		attrs = append(attrs, templ.KV[string, any](a.Name, a.Value))
	}
	return attrs
}

func styleElement(css string) string {
	return "<style>" + strings.ReplaceAll(css, "</", `<\/`) + "</style>"
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// classes appends the non-blank extras to base, skipping repeats.
func classes(base []string, extra ...string) []string {
	out := make([]string, 0, len(base)+len(extra))
	seen := make(map[string]bool, cap(out))
	for _, c := range append(base, extra...) {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
