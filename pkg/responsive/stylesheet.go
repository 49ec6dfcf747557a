package responsive

import (
	"sort"
	"strings"
)

// Decl is a single CSS declaration.
type Decl struct {
	Property  string
	Value     string
	Important bool
}

func (d Decl) String() string {
	if d.Important {
		return d.Property + ":" + d.Value + " !important;"
	}
	return d.Property + ":" + d.Value + ";"
}

// Rule is a selector list with its declarations.
type Rule struct {
	Selectors []string
	Decls     []Decl
}

func (r Rule) String() string {
	var b strings.Builder
	b.WriteString(strings.Join(r.Selectors, ","))
	b.WriteByte('{')
	for _, d := range r.Decls {
		b.WriteString(d.String())
	}
	b.WriteByte('}')
	return b.String()
}

// Block groups rules sharing one breakpoint scope. Base blocks are
// unconditional; other blocks render inside the breakpoint's media query.
type Block struct {
	Breakpoint Breakpoint
	Rules      []Rule
}

func (b Block) String() string {
	if len(b.Rules) == 0 {
		return ""
	}
	query := b.Breakpoint.MediaQuery()
	if query == "" {
		parts := make([]string, len(b.Rules))
		for i, r := range b.Rules {
			parts[i] = r.String()
		}
		return strings.Join(parts, "\n")
	}
	var sb strings.Builder
	sb.WriteString(query)
	sb.WriteByte('{')
	for _, r := range b.Rules {
		sb.WriteString(r.String())
	}
	sb.WriteByte('}')
	return sb.String()
}

// Stylesheet is an ordered list of rule blocks.
type Stylesheet []Block

// Add appends a block holding rules at bp. Empty rule lists are dropped.
func (s *Stylesheet) Add(bp Breakpoint, rules ...Rule) {
	kept := rules[:0:0]
	for _, r := range rules {
		if len(r.Decls) > 0 && len(r.Selectors) > 0 {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		return
	}
	*s = append(*s, Block{Breakpoint: bp, Rules: kept})
}

// Append concatenates other onto s.
func (s *Stylesheet) Append(other Stylesheet) {
	*s = append(*s, other...)
}

// Empty reports whether s holds no rules.
func (s Stylesheet) Empty() bool {
	for _, b := range s {
		if len(b.Rules) > 0 {
			return false
		}
	}
	return true
}

// Sorted returns a copy of s ordered by ascending breakpoint. The sort is
// stable, so blocks at the same breakpoint keep their relative order.
func (s Stylesheet) Sorted() Stylesheet {
	out := make(Stylesheet, len(s))
	copy(out, s)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Breakpoint.Rank() < out[j].Breakpoint.Rank()
	})
	return out
}

// String renders each block on its own line. Identical blocks are emitted
// once.
func (s Stylesheet) String() string {
	seen := make(map[string]struct{}, len(s))
	parts := make([]string, 0, len(s))
	for _, b := range s {
		text := b.String()
		if text == "" {
			continue
		}
		if _, dup := seen[text]; dup {
			continue
		}
		seen[text] = struct{}{}
		parts = append(parts, text)
	}
	return strings.Join(parts, "\n")
}

// MediaBlocks counts the blocks scoped to a breakpoint other than base.
func (s Stylesheet) MediaBlocks() int {
	n := 0
	for _, b := range s {
		if b.Breakpoint != Base && len(b.Rules) > 0 {
			n++
		}
	}
	return n
}
