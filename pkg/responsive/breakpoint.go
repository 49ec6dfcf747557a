// Package responsive defines the breakpoint vocabulary and the two
// strategies for resolving breakpoint-keyed values.
//
// A Value maps a subset of breakpoints to a value. Base is the
// unconditional default; every other key is an override that applies at its
// viewport threshold and above until a wider breakpoint overrides it again.
//
// Values are either collapsed into one best-effort choice (ResolveSingle,
// DefaultEntry) or expanded into a cascade of CSS rules (Cascade) where
// wider breakpoints are emitted after narrower ones so that source order
// lets them win.
package responsive

import "fmt"

// Breakpoint names a viewport-width threshold.
type Breakpoint string

// Breakpoints in ascending order.
const (
	Base    Breakpoint = "base"
	Mobile  Breakpoint = "mobile"
	Tablet  Breakpoint = "tablet"
	Desktop Breakpoint = "desktop"
)

// Breakpoints lists every breakpoint in declaration order.
var Breakpoints = []Breakpoint{Base, Mobile, Tablet, Desktop}

// Overrides lists the breakpoints that carry a viewport condition, ascending.
var Overrides = []Breakpoint{Mobile, Tablet, Desktop}

var minWidths = map[Breakpoint]int{
	Mobile:  640,
	Tablet:  768,
	Desktop: 1024,
}

// ParseBreakpoint converts a name into a Breakpoint.
func ParseBreakpoint(s string) (Breakpoint, error) {
	bp := Breakpoint(s)
	if bp.Valid() {
		return bp, nil
	}
	return "", fmt.Errorf("unknown breakpoint %q", s)
}

// Valid reports whether b is one of the known breakpoints.
func (b Breakpoint) Valid() bool {
	return b == Base || b.Rank() > 0
}

// Rank returns the position of b in ascending order (base is 0).
// Unknown breakpoints rank -1.
func (b Breakpoint) Rank() int {
	for i, bp := range Breakpoints {
		if bp == b {
			return i
		}
	}
	return -1
}

// MinWidth returns the viewport threshold in pixels. Base has none and
// returns 0.
func (b Breakpoint) MinWidth() int {
	return minWidths[b]
}

// MediaQuery returns the at-rule prelude scoping rules to b, or "" for base.
func (b Breakpoint) MediaQuery() string {
	w, ok := minWidths[b]
	if !ok {
		return ""
	}
	return fmt.Sprintf("@media (min-width: %dpx)", w)
}

// Next returns the next wider breakpoint, or false for desktop.
func (b Breakpoint) Next() (Breakpoint, bool) {
	r := b.Rank()
	if r < 0 || r+1 >= len(Breakpoints) {
		return "", false
	}
	return Breakpoints[r+1], true
}

func (b Breakpoint) String() string {
	return string(b)
}
