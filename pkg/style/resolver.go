package style

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/pagecraft/pkg/block"
	"github.com/leapstack-labs/pagecraft/pkg/responsive"
)

// Structural selectors and defaults.
const (
	DefaultInnerSelector = ".cms-block__inner"
	OverlaySelector      = ".cms-block__overlay"
)

// PaddingDefaults is the section padding used when a block sets none.
type PaddingDefaults struct {
	Top    string
	Bottom string
}

// DefaultPadding applies to blocks whose renderer asks for nothing else.
var DefaultPadding = PaddingDefaults{Top: "4rem", Bottom: "4rem"}

// Resolver turns style envelopes into CSS using injected token tables.
type Resolver struct {
	tokens        Tokens
	innerSelector string
	padding       PaddingDefaults
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithInnerSelector changes the selector inner-layout rules target below the
// block's DOM id.
func WithInnerSelector(sel string) Option {
	return func(r *Resolver) {
		if sel != "" {
			r.innerSelector = sel
		}
	}
}

// WithDefaultPadding replaces DefaultPadding for blocks whose renderer
// asks for nothing else. Empty sides keep the built-in value.
func WithDefaultPadding(p PaddingDefaults) Option {
	return func(r *Resolver) {
		if p.Top != "" {
			r.padding.Top = p.Top
		}
		if p.Bottom != "" {
			r.padding.Bottom = p.Bottom
		}
	}
}

// NewResolver creates a resolver over tokens.
func NewResolver(tokens Tokens, opts ...Option) *Resolver {
	r := &Resolver{tokens: tokens, innerSelector: DefaultInnerSelector, padding: DefaultPadding}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DefaultPadding returns the section padding used when neither the block
// nor its renderer sets one.
func (r *Resolver) DefaultPadding() PaddingDefaults {
	return r.padding
}

// InnerSelector returns the selector used for the inner container.
func (r *Resolver) InnerSelector() string {
	return r.innerSelector
}

// Spacing emits the padding cascade for domID. Unknown tokens resolve to the
// supplied defaults.
func (r *Resolver) Spacing(domID string, p *block.Padding, def PaddingDefaults) responsive.Stylesheet {
	if domID == "" {
		return nil
	}
	if p == nil {
		p = &block.Padding{}
	}
	return responsive.Cascade("#"+domID,
		responsive.Field{
			Value:   p.Top,
			Resolve: responsive.Lookup("padding-top", r.tokens.Spacing),
			Default: []responsive.Decl{{Property: "padding-top", Value: def.Top}},
		},
		responsive.Field{
			Value:   p.Bottom,
			Resolve: responsive.Lookup("padding-bottom", r.tokens.Spacing),
			Default: []responsive.Decl{{Property: "padding-bottom", Value: def.Bottom}},
		},
	)
}

// InnerLayout emits max-width and alignment rules for the inner container.
func (r *Resolver) InnerLayout(domID string, l *block.Layout) responsive.Stylesheet {
	if domID == "" || l == nil {
		return nil
	}
	sel := []string{"#" + domID + " " + r.innerSelector}

	var sheet responsive.Stylesheet
	sheet.Append(responsive.Expand(l.MaxWidth, func(token string) []responsive.Rule {
		w, ok := r.tokens.MaxWidth[token]
		if !ok {
			return nil
		}
		return []responsive.Rule{{Selectors: sel, Decls: []responsive.Decl{{Property: "max-width", Value: w}}}}
	}))
	sheet.Append(responsive.Expand(l.HorizontalAlign, func(token string) []responsive.Rule {
		a, ok := r.tokens.Align[token]
		if !ok {
			return nil
		}
		return []responsive.Rule{{Selectors: sel, Decls: []responsive.Decl{
			{Property: "margin", Value: a.Margin},
			{Property: "text-align", Value: a.TextAlign},
		}}}
	}))
	return sheet
}

var textDescendants = []string{"p", "li", "blockquote", "strong", "em", "span"}

// Typography emits scale, weight, letter-spacing and color rules scoped to
// target, the element id wrapping the block's content.
func (r *Resolver) Typography(target string, t *block.Typography) responsive.Stylesheet {
	if target == "" || t == nil {
		return nil
	}
	root := "#" + target

	var sheet responsive.Stylesheet
	sheet.Append(responsive.Expand(t.Scale, func(token string) []responsive.Rule {
		s, ok := r.tokens.Scale[token]
		if !ok {
			return nil
		}
		return []responsive.Rule{
			rule(root, "font-size", s.Body),
			rule(root+" h1", "font-size", s.H1),
			rule(root+" h2", "font-size", s.H2),
			rule(root+" h3", "font-size", s.H3),
		}
	}))
	sheet.Append(responsive.Expand(t.Weight, func(token string) []responsive.Rule {
		w, ok := r.tokens.Weight[token]
		if !ok {
			return nil
		}
		return []responsive.Rule{rule(root, "font-weight", w)}
	}))
	sheet.Append(responsive.Expand(t.LetterSpacing, func(token string) []responsive.Rule {
		ls, ok := r.tokens.LetterSpacing[token]
		if !ok {
			return nil
		}
		return []responsive.Rule{rule(root, "letter-spacing", ls)}
	}))

	if accent, ok := cssValue(t.HeadingAccentColor); ok {
		sheet.Add(responsive.Base,
			responsive.Rule{
				Selectors: []string{root + " h1", root + " h2", root + " h3"},
				Decls:     []responsive.Decl{{Property: "color", Value: accent, Important: true}},
			},
			responsive.Rule{
				Selectors: []string{root + " p", root + " li", root + " blockquote"},
				Decls:     []responsive.Decl{{Property: "color", Value: "inherit"}},
			},
		)
	}

	sheet.Append(responsive.Expand(t.TextColor, func(color string) []responsive.Rule {
		c, ok := cssValue(color)
		if !ok {
			return nil
		}
		descendants := make([]string, len(textDescendants))
		for i, tag := range textDescendants {
			descendants[i] = root + " " + tag
		}
		decl := []responsive.Decl{{Property: "color", Value: c, Important: true}}
		return []responsive.Rule{
			{Selectors: []string{root}, Decls: decl},
			{Selectors: descendants, Decls: decl},
		}
	}))
	return sheet
}

// BackgroundResult is the resolved background of one block.
type BackgroundResult struct {
	// Inline holds the unconditional background declarations.
	Inline Inline
	// Sheet holds breakpoint-scoped background overrides.
	Sheet responsive.Stylesheet
	// Overlay is non-nil when an overlay layer should be rendered.
	Overlay responsive.Value[float64]
	// Video is the base background video, if any.
	Video *block.Video
}

// Background dispatches on the background variant.
func (r *Resolver) Background(domID string, bg *block.Background) BackgroundResult {
	var res BackgroundResult
	if bg == nil {
		return res
	}
	sel := "#" + domID

	switch bg.Variant {
	case block.BackgroundSolid:
		if c, ok := responsive.DefaultEntry(bg.Color); ok {
			if c, ok := cssValue(c); ok {
				res.Inline.Set("background-color", c)
			}
		}
		for _, bp := range responsive.Overrides {
			c, ok := cssValue(bg.Color[bp])
			if !ok {
				continue
			}
			res.Sheet.Add(bp, rule(sel, "background-color", c))
		}

	case block.BackgroundGradient:
		if g, ok := gradientCSS(bg.Gradient); ok {
			res.Inline.Set("background-image", g)
		}

	case block.BackgroundImage:
		if m, ok := responsive.DefaultEntry(bg.Image); ok {
			if src, ok := cssValue(m.Src); ok {
				if !strings.HasPrefix(src, "url(") {
					src = "url(" + src + ")"
				}
				res.Inline.Set("background-image", src)
				res.Inline.Set("background-size", "cover")
				res.Inline.Set("background-repeat", "no-repeat")
				res.Inline.Set("background-position", "center")
				if m.FocalPoint != nil {
					res.Inline.Set("background-position", focal(m.FocalPoint))
				}
				if m.Fit != "" {
					res.Inline.Set("background-size", fit(m.Fit))
				}
			}
		}
		for _, bp := range responsive.Overrides {
			m, ok := bg.Image[bp]
			if !ok {
				continue
			}
			src, ok := cssValue(m.Src)
			if !ok {
				continue
			}
			position := "center"
			if m.FocalPoint != nil {
				position = focal(m.FocalPoint)
			}
			res.Sheet.Add(bp, responsive.Rule{Selectors: []string{sel}, Decls: []responsive.Decl{
				{Property: "background-image", Value: "url(" + src + ")"},
				{Property: "background-position", Value: position},
				{Property: "background-size", Value: fit(m.Fit)},
			}})
		}

	case block.BackgroundVideo:
		if v, ok := responsive.DefaultEntry(bg.Video); ok {
			res.Video = &v
		}
	}

	if bg.OverlayOpacity != nil {
		res.Overlay = bg.OverlayOpacity.Clone()
	}
	return res
}

// Overlay emits the opacity cascade for the overlay layer. The base opacity
// defaults to 0; values are emitted as given.
func (r *Resolver) Overlay(domID string, opacity responsive.Value[float64]) responsive.Stylesheet {
	if domID == "" || opacity == nil {
		return nil
	}
	sel := "#" + domID + " " + OverlaySelector

	var sheet responsive.Stylesheet
	sheet.Add(responsive.Base, rule(sel, "opacity", formatNumber(opacity[responsive.Base])))
	for _, bp := range responsive.Overrides {
		v, ok := opacity[bp]
		if !ok {
			continue
		}
		sheet.Add(bp, rule(sel, "opacity", formatNumber(v)))
	}
	return sheet
}

func gradientCSS(g *block.Gradient) (string, bool) {
	if g == nil {
		return "", false
	}
	if g.CSS != "" {
		return cssValue(g.CSS)
	}
	angle := 180.0
	if g.Angle != nil {
		angle = *g.Angle
	}
	prefix := "linear-gradient(" + formatNumber(angle) + "deg, "

	var parts []string
	switch {
	case len(g.Stops) > 0:
		for _, s := range g.Stops {
			parts = append(parts, s.Color+" "+formatNumber(s.Position)+"%")
		}
	case g.From != "" && g.To != "" && g.Via != "":
		parts = []string{g.From, g.Via, g.To}
	case g.From != "" && g.To != "":
		parts = []string{g.From, g.To}
	default:
		return "", false
	}
	return cssValue(prefix + strings.Join(parts, ", ") + ")")
}

func focal(p *block.FocalPoint) string {
	return formatNumber(p.X) + "% " + formatNumber(p.Y) + "%"
}

func fit(f string) string {
	if f == "contain" {
		return "contain"
	}
	return "cover"
}

func rule(selector, property, value string) responsive.Rule {
	return responsive.Rule{
		Selectors: []string{selector},
		Decls:     []responsive.Decl{{Property: property, Value: value}},
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// cssValue trims v and rejects values that could escape their declaration.
func cssValue(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if v == "" || strings.ContainsAny(v, "{};<>") {
		return "", false
	}
	return v, true
}
