package style

import (
	"encoding/json"
	"slices"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/leapstack-labs/pagecraft/pkg/block"
	"github.com/leapstack-labs/pagecraft/pkg/responsive"
)

// hashPrefixUnits is how much of the serialized block feeds the fallback id.
const hashPrefixUnits = 32

// DomID returns the element id of b's section: the anchor id when set, else
// "block-{blockId}", else the kind followed by a hash of the start of the
// block's JSON form. The last form changes whenever that prefix changes.
func DomID(b block.Instance) string {
	if b.Advanced != nil && b.Advanced.AnchorID != "" {
		return b.Advanced.AnchorID
	}
	if b.BlockID != "" {
		return "block-" + b.BlockID
	}
	data, _ := json.Marshal(b)
	units := utf16.Encode([]rune(string(data)))
	if len(units) > hashPrefixUnits {
		units = units[:hashPrefixUnits]
	}
	return string(b.Kind) + "-" + hashUnits(units)
}

// hashUnits is the 31-multiplier string hash over UTF-16 code units with
// 32-bit wraparound, rendered as the base-36 absolute value.
func hashUnits(units []uint16) string {
	var h int32
	for _, u := range units {
		h = (h << 5) - h + int32(u)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return strconv.FormatInt(v, 36)
}

// VisibilityClasses returns the utility classes that hide or show a block
// per device. ShowOnlyOn wins when both lists are set.
func VisibilityClasses(s *block.Style) []string {
	if s == nil || s.Visibility == nil {
		return nil
	}
	var classes orderedSet
	v := s.Visibility

	if len(v.ShowOnlyOn) > 0 {
		has := func(bp responsive.Breakpoint) bool { return slices.Contains(v.ShowOnlyOn, bp) }
		classes.add("hidden")
		if has(responsive.Mobile) {
			classes.add("block")
		}
		if has(responsive.Tablet) {
			classes.add("md:block")
		}
		if has(responsive.Desktop) {
			classes.add("lg:block")
		}
		if !has(responsive.Mobile) {
			classes.add("sm:hidden")
		}
		if !has(responsive.Tablet) {
			classes.add("md:hidden")
		}
		if !has(responsive.Desktop) {
			classes.add("lg:hidden")
		}
		return classes
	}

	for _, bp := range v.HideOn {
		switch bp {
		case responsive.Mobile:
			classes.add("hidden", "sm:block")
		case responsive.Tablet:
			classes.add("md:hidden", "lg:block")
		case responsive.Desktop:
			classes.add("lg:hidden")
		}
	}
	return classes
}

type orderedSet []string

func (s *orderedSet) add(items ...string) {
	for _, item := range items {
		if !slices.Contains(*s, item) {
			*s = append(*s, item)
		}
	}
}

// AdvancedClass returns the trimmed custom class name, or "".
func AdvancedClass(a *block.Advanced) string {
	if a == nil {
		return ""
	}
	return strings.TrimSpace(a.CustomClassName)
}

// Attr is a single markup attribute.
type Attr struct {
	Name  string
	Value string
}

// Animation defaults.
const (
	DefaultAnimationTrigger    = "load"
	DefaultAnimationDelayMs    = 0
	DefaultAnimationDurationMs = 500
)

// AnimationAttrs returns the data attributes that drive the entrance
// animation script. Nothing is emitted for a missing or "none" animation.
func AnimationAttrs(e *block.Effects) []Attr {
	if e == nil || e.Animation == nil {
		return nil
	}
	a := e.Animation
	if a.Type == "" || a.Type == "none" {
		return nil
	}
	trigger := a.Trigger
	if trigger == "" {
		trigger = DefaultAnimationTrigger
	}
	delay := DefaultAnimationDelayMs
	if a.DelayMs != nil {
		delay = *a.DelayMs
	}
	duration := DefaultAnimationDurationMs
	if a.DurationMs != nil {
		duration = *a.DurationMs
	}
	once := true
	if a.Once != nil {
		once = *a.Once
	}
	return []Attr{
		{Name: "data-animate", Value: a.Type},
		{Name: "data-animate-trigger", Value: trigger},
		{Name: "data-animate-delay", Value: strconv.Itoa(delay)},
		{Name: "data-animate-duration", Value: strconv.Itoa(duration)},
		{Name: "data-animate-once", Value: strconv.FormatBool(once)},
		{Name: "data-animate-state", Value: "hidden"},
	}
}
