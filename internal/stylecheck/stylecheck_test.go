package stylecheck

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/pagecraft/pkg/block"
	"github.com/leapstack-labs/pagecraft/pkg/responsive"
	"github.com/leapstack-labs/pagecraft/pkg/style"
	"github.com/leapstack-labs/pagecraft/pkg/surface"
)

func TestCheck_Clean(t *testing.T) {
	sheet := "#a{padding-top:2rem;padding-bottom:2rem;}\n" +
		"@media (min-width: 768px){#a{padding-top:3rem;}}\n" +
		"@media (min-width: 1024px){#a{padding-top:5rem;}#a .inner{max-width:60rem;}}"

	r := Check(sheet)
	assert.Empty(t, r.Issues)
	assert.False(t, r.HasErrors())
	assert.Equal(t, 4, r.Rules)
	assert.Equal(t, 2, r.MediaBlocks)
	assert.Equal(t, 5, r.Declarations)
}

func TestCheck_Issues(t *testing.T) {
	tests := []struct {
		name     string
		sheet    string
		severity Severity
		contains string
	}{
		{
			name:     "descending media",
			sheet:    "@media (min-width: 1024px){#a{color:red;}}@media (min-width: 640px){#a{color:blue;}}",
			severity: SeverityError,
			contains: "follows a wider breakpoint (1024px)",
		},
		{
			name:     "base after media",
			sheet:    "@media (min-width: 640px){#a{color:red;}}#a{color:blue;}",
			severity: SeverityError,
			contains: "unconditional rule #a follows a media block",
		},
		{
			name:     "unscoped selector",
			sheet:    "#a,p{color:red;}",
			severity: SeverityError,
			contains: `selector "p" is not scoped`,
		},
		{
			name:     "duplicate rule",
			sheet:    "#a{color:red;}#a{color:red;}",
			severity: SeverityWarning,
			contains: "duplicate rule #a",
		},
		{
			name:     "other media query",
			sheet:    "@media print{#a{color:red;}}",
			severity: SeverityWarning,
			contains: "is not a min-width query",
		},
		{
			name:     "other at-rule",
			sheet:    "@font-face{font-family:x;}",
			severity: SeverityWarning,
			contains: "unexpected at-rule @font-face",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Check(tt.sheet)
			require.NotEmpty(t, r.Issues)
			found := false
			for _, issue := range r.Issues {
				if issue.Severity == tt.severity && strings.Contains(issue.Message, tt.contains) {
					found = true
				}
			}
			assert.True(t, found, "issues: %v", r.Issues)
		})
	}
}

func TestCheck_SameRuleInDifferentScopes(t *testing.T) {
	r := Check("#a{color:red;}@media (min-width: 640px){#a{color:red;}}")
	assert.Empty(t, r.Issues)
}

func TestCheck_Empty(t *testing.T) {
	r := Check("")
	assert.Empty(t, r.Issues)
	assert.Zero(t, r.Rules)
}

func TestCheck_SurfaceOutput(t *testing.T) {
	b := block.Instance{
		Kind:    "hero",
		BlockID: "hero-abcdef",
		Style: &block.Style{
			Layout: &block.Layout{
				Padding: &block.Padding{
					Top:    responsive.Value[string]{responsive.Base: "sm", responsive.Desktop: "xl"},
					Bottom: responsive.Of("sm"),
				},
				MaxWidth: responsive.Value[string]{responsive.Base: "content", responsive.Tablet: "wide"},
			},
			Typography: &block.Typography{
				Scale:     responsive.Value[string]{responsive.Base: "sm", responsive.Mobile: "lg"},
				TextColor: responsive.Of("#111111"),
			},
			Background: &block.Background{
				Variant:        block.BackgroundImage,
				Image:          responsive.Value[block.Media]{responsive.Base: {Src: "/a.jpg"}, responsive.Desktop: {Src: "/b.jpg"}},
				OverlayOpacity: responsive.Value[float64]{responsive.Base: 0.2, responsive.Tablet: 0.5},
			},
		},
	}
	s := surface.Assemble(style.NewResolver(style.DefaultTokens()), b, surface.Options{})

	r := Check(s.CSS())
	assert.False(t, r.HasErrors(), "issues: %v", r.Issues)
	assert.Positive(t, r.MediaBlocks)
}
