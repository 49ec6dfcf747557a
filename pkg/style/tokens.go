// Package style resolves a block's style envelope into CSS rules, inline
// declarations, class lists and markup attributes.
//
// The resolver is pure: it never mutates the block it reads and never fails.
// Tokens it cannot resolve are skipped (spacing falls back to the supplied
// default instead) and missing style data yields only structural defaults.
package style

import "maps"

// ScaleSizes are the font sizes a typography scale token expands to.
type ScaleSizes struct {
	Body string
	H1   string
	H2   string
	H3   string
}

// Alignment is the margin and text-align pair an alignment token expands to.
type Alignment struct {
	Margin    string
	TextAlign string
}

// Tokens holds the lookup tables the resolver consults. Tables are plain
// data; swap or extend them without touching the resolver.
type Tokens struct {
	Spacing       map[string]string
	MaxWidth      map[string]string
	Align         map[string]Alignment
	Scale         map[string]ScaleSizes
	Weight        map[string]string
	LetterSpacing map[string]string
}

// DefaultTokens returns the built-in token tables.
func DefaultTokens() Tokens {
	return Tokens{
		Spacing: map[string]string{
			"none": "0rem",
			"xs":   "1rem",
			"sm":   "2rem",
			"md":   "3rem",
			"lg":   "4rem",
			"xl":   "5rem",
			"2xl":  "6rem",
			"3xl":  "8rem",
		},
		MaxWidth: map[string]string{
			"content": "60rem",
			"wide":    "72rem",
			"full":    "100%",
		},
		Align: map[string]Alignment{
			"start":  {Margin: "0 auto 0 0", TextAlign: "left"},
			"center": {Margin: "0 auto", TextAlign: "center"},
			"end":    {Margin: "0 0 0 auto", TextAlign: "right"},
		},
		Scale: map[string]ScaleSizes{
			"xs":   {Body: "0.95rem", H1: "2.25rem", H2: "1.75rem", H3: "1.4rem"},
			"sm":   {Body: "1rem", H1: "2.5rem", H2: "1.9rem", H3: "1.5rem"},
			"base": {Body: "1.05rem", H1: "2.75rem", H2: "2rem", H3: "1.6rem"},
			"lg":   {Body: "1.125rem", H1: "3rem", H2: "2.25rem", H3: "1.75rem"},
			"xl":   {Body: "1.2rem", H1: "3.25rem", H2: "2.5rem", H3: "1.9rem"},
			"2xl":  {Body: "1.3rem", H1: "3.5rem", H2: "2.75rem", H3: "2.2rem"},
			"3xl":  {Body: "1.4rem", H1: "3.75rem", H2: "3rem", H3: "2.4rem"},
			"4xl":  {Body: "1.5rem", H1: "4rem", H2: "3.25rem", H3: "2.6rem"},
		},
		Weight: map[string]string{
			"light":    "300",
			"normal":   "400",
			"medium":   "500",
			"semibold": "600",
			"bold":     "700",
		},
		LetterSpacing: map[string]string{
			"tight":  "-0.02em",
			"normal": "0",
			"wide":   "0.08em",
		},
	}
}

// Merge returns a copy of t with the given entries added to, or replacing,
// the spacing, max-width and letter-spacing tables.
func (t Tokens) Merge(spacing, maxWidth, letterSpacing map[string]string) Tokens {
	out := t
	out.Spacing = mergeTable(t.Spacing, spacing)
	out.MaxWidth = mergeTable(t.MaxWidth, maxWidth)
	out.LetterSpacing = mergeTable(t.LetterSpacing, letterSpacing)
	return out
}

func mergeTable(base, extra map[string]string) map[string]string {
	out := maps.Clone(base)
	if out == nil {
		out = make(map[string]string, len(extra))
	}
	maps.Copy(out, extra)
	return out
}
