package style

import (
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/pagecraft/pkg/block"
	"github.com/leapstack-labs/pagecraft/pkg/responsive"
)

func TestDomID(t *testing.T) {
	tests := []struct {
		name  string
		block block.Instance
		want  string
	}{
		{
			name:  "anchor wins",
			block: block.Instance{Kind: "hero", BlockID: "abcdef", Advanced: &block.Advanced{AnchorID: "intro"}},
			want:  "intro",
		},
		{
			name:  "block id",
			block: block.Instance{Kind: "hero", BlockID: "abcdef"},
			want:  "block-abcdef",
		},
		{
			name:  "hash of serialized prefix",
			block: block.Instance{Kind: "hero", Content: map[string]any{"heading": "A long heading"}},
			want:  "hero-2wwsdc",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DomID(tt.block))
		})
	}
}

// Content beyond the hashed prefix does not change the fallback id.
func TestDomID_HashIgnoresTail(t *testing.T) {
	a := block.Instance{Kind: "hero", Content: map[string]any{"heading": "A long heading"}}
	b := block.Instance{Kind: "hero", Content: map[string]any{"heading": "Another"}}
	assert.Equal(t, DomID(a), DomID(b))
}

func TestHashUnits(t *testing.T) {
	assert.Equal(t, "1n1e4y", hashUnits(utf16.Encode([]rune("hello"))))
	assert.Equal(t, "0", hashUnits(nil))
}

func TestVisibilityClasses(t *testing.T) {
	tests := []struct {
		name string
		vis  *block.Visibility
		want []string
	}{
		{"none", nil, nil},
		{
			name: "show only on desktop",
			vis:  &block.Visibility{ShowOnlyOn: []responsive.Breakpoint{responsive.Desktop}},
			want: []string{"hidden", "lg:block", "sm:hidden", "md:hidden"},
		},
		{
			name: "show only on mobile and tablet",
			vis:  &block.Visibility{ShowOnlyOn: []responsive.Breakpoint{responsive.Mobile, responsive.Tablet}},
			want: []string{"hidden", "block", "md:block", "lg:hidden"},
		},
		{
			name: "hide on mobile",
			vis:  &block.Visibility{HideOn: []responsive.Breakpoint{responsive.Mobile}},
			want: []string{"hidden", "sm:block"},
		},
		{
			name: "hide on tablet and desktop",
			vis:  &block.Visibility{HideOn: []responsive.Breakpoint{responsive.Tablet, responsive.Desktop}},
			want: []string{"md:hidden", "lg:block", "lg:hidden"},
		},
		{
			name: "show only on wins over hide on",
			vis: &block.Visibility{
				HideOn:     []responsive.Breakpoint{responsive.Mobile},
				ShowOnlyOn: []responsive.Breakpoint{responsive.Mobile, responsive.Tablet, responsive.Desktop},
			},
			want: []string{"hidden", "block", "md:block", "lg:block"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VisibilityClasses(&block.Style{Visibility: tt.vis})
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnimationAttrs(t *testing.T) {
	assert.Nil(t, AnimationAttrs(nil))
	assert.Nil(t, AnimationAttrs(&block.Effects{Animation: &block.Animation{Type: "none"}}))

	attrs := AnimationAttrs(&block.Effects{Animation: &block.Animation{Type: "fade"}})
	assert.Equal(t, []Attr{
		{Name: "data-animate", Value: "fade"},
		{Name: "data-animate-trigger", Value: "load"},
		{Name: "data-animate-delay", Value: "0"},
		{Name: "data-animate-duration", Value: "500"},
		{Name: "data-animate-once", Value: "true"},
		{Name: "data-animate-state", Value: "hidden"},
	}, attrs)

	delay, once := 200, false
	attrs = AnimationAttrs(&block.Effects{Animation: &block.Animation{
		Type: "slide-up", Trigger: "scroll", DelayMs: &delay, Once: &once,
	}})
	assert.Contains(t, attrs, Attr{Name: "data-animate-trigger", Value: "scroll"})
	assert.Contains(t, attrs, Attr{Name: "data-animate-delay", Value: "200"})
	assert.Contains(t, attrs, Attr{Name: "data-animate-once", Value: "false"})
}

func TestAdvancedClass(t *testing.T) {
	assert.Equal(t, "", AdvancedClass(nil))
	assert.Equal(t, "promo wide", AdvancedClass(&block.Advanced{CustomClassName: "  promo wide "}))
}

func TestInline(t *testing.T) {
	var in Inline
	in.Set("background-color", "red")
	in.Set("background-image", "url(/a.png)")
	in.Set("background-color", "blue")
	assert.Equal(t, "background-color:blue;background-image:url(/a.png)", in.String())

	merged := in.Merge(Inline{{Property: "background-image", Value: "none"}, {Property: "color", Value: "white"}})
	assert.Equal(t, "background-color:blue;background-image:none;color:white", merged.String())
	assert.Equal(t, "background-color:blue;background-image:url(/a.png)", in.String())
}
