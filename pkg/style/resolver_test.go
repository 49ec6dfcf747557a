package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/pagecraft/pkg/block"
	"github.com/leapstack-labs/pagecraft/pkg/responsive"
)

func newTestResolver() *Resolver {
	return NewResolver(DefaultTokens())
}

func TestSpacing(t *testing.T) {
	r := newTestResolver()

	tests := []struct {
		name    string
		padding *block.Padding
		want    string
	}{
		{
			name: "desktop override fills bottom from base",
			padding: &block.Padding{
				Top:    responsive.Value[string]{responsive.Base: "sm", responsive.Desktop: "xl"},
				Bottom: responsive.Value[string]{responsive.Base: "sm"},
			},
			want: "#block-a{padding-top:2rem;padding-bottom:2rem;}\n" +
				"@media (min-width: 1024px){#block-a{padding-top:5rem;padding-bottom:2rem;}}",
		},
		{
			name:    "nil padding uses defaults",
			padding: nil,
			want:    "#block-a{padding-top:4rem;padding-bottom:4rem;}",
		},
		{
			name: "unknown base token uses default",
			padding: &block.Padding{
				Top: responsive.Value[string]{responsive.Base: "huge"},
			},
			want: "#block-a{padding-top:4rem;padding-bottom:4rem;}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sheet := r.Spacing("block-a", tt.padding, DefaultPadding)
			assert.Equal(t, tt.want, sheet.String())
		})
	}

	assert.Nil(t, r.Spacing("", nil, DefaultPadding))
}

func TestInnerLayout(t *testing.T) {
	r := NewResolver(DefaultTokens(), WithInnerSelector(".inner"))
	sheet := r.InnerLayout("x", &block.Layout{
		MaxWidth:        responsive.Value[string]{responsive.Base: "content", responsive.Tablet: "wide", responsive.Desktop: "nope"},
		HorizontalAlign: responsive.Value[string]{responsive.Mobile: "center"},
	})

	assert.Equal(t,
		"#x .inner{max-width:60rem;}\n"+
			"@media (min-width: 768px){#x .inner{max-width:72rem;}}\n"+
			"@media (min-width: 640px){#x .inner{margin:0 auto;text-align:center;}}",
		sheet.String())

	sorted := sheet.Sorted()
	assert.Equal(t, responsive.Mobile, sorted[1].Breakpoint)
	assert.Equal(t, responsive.Tablet, sorted[2].Breakpoint)
}

func TestTypography(t *testing.T) {
	r := newTestResolver()

	t.Run("scale expands to body and headings", func(t *testing.T) {
		sheet := r.Typography("c", &block.Typography{Scale: responsive.Value[string]{responsive.Base: "lg"}})
		assert.Equal(t,
			"#c{font-size:1.125rem;}\n#c h1{font-size:3rem;}\n#c h2{font-size:2.25rem;}\n#c h3{font-size:1.75rem;}",
			sheet.String())
	})

	t.Run("unknown weight and letter spacing are ignored", func(t *testing.T) {
		sheet := r.Typography("c", &block.Typography{
			Weight:        responsive.Value[string]{responsive.Base: "heavy", responsive.Desktop: "bold"},
			LetterSpacing: responsive.Value[string]{responsive.Base: "loose"},
		})
		assert.Equal(t, "@media (min-width: 1024px){#c{font-weight:700;}}", sheet.String())
	})

	t.Run("heading accent forces headings and inherits body", func(t *testing.T) {
		sheet := r.Typography("c", &block.Typography{HeadingAccentColor: "#ff0000"})
		assert.Equal(t,
			"#c h1,#c h2,#c h3{color:#ff0000 !important;}\n#c p,#c li,#c blockquote{color:inherit;}",
			sheet.String())
	})

	t.Run("text color cascades onto descendants", func(t *testing.T) {
		sheet := r.Typography("c", &block.Typography{TextColor: responsive.Value[string]{responsive.Tablet: "white"}})
		require.Len(t, sheet, 1)
		assert.Equal(t, responsive.Tablet, sheet[0].Breakpoint)
		assert.Equal(t,
			"@media (min-width: 768px){#c{color:white !important;}#c p,#c li,#c blockquote,#c strong,#c em,#c span{color:white !important;}}",
			sheet.String())
	})

	t.Run("values that break out of a declaration are dropped", func(t *testing.T) {
		sheet := r.Typography("c", &block.Typography{
			TextColor:          responsive.Value[string]{responsive.Base: "red;}</style>"},
			HeadingAccentColor: "blue}",
		})
		assert.True(t, sheet.Empty())
	})

	assert.Nil(t, r.Typography("c", nil))
}

func TestBackground(t *testing.T) {
	r := newTestResolver()
	angle := 90.0

	t.Run("solid uses first present color inline", func(t *testing.T) {
		res := r.Background("x", &block.Background{
			Variant: block.BackgroundSolid,
			Color:   responsive.Value[string]{responsive.Tablet: "#111", responsive.Desktop: "#222"},
		})
		assert.Equal(t, "background-color:#111", res.Inline.String())
		assert.Equal(t,
			"@media (min-width: 768px){#x{background-color:#111;}}\n@media (min-width: 1024px){#x{background-color:#222;}}",
			res.Sheet.String())
		assert.Nil(t, res.Overlay)
	})

	tests := []struct {
		name     string
		gradient *block.Gradient
		want     string
	}{
		{"css wins", &block.Gradient{CSS: "radial-gradient(red, blue)", From: "a", To: "b"}, "radial-gradient(red, blue)"},
		{"stops win over from and to", &block.Gradient{From: "a", To: "b", Stops: []block.GradientStop{{Color: "red", Position: 0}, {Color: "blue", Position: 100}}}, "linear-gradient(180deg, red 0%, blue 100%)"},
		{"from via to", &block.Gradient{From: "a", Via: "b", To: "c", Angle: &angle}, "linear-gradient(90deg, a, b, c)"},
		{"from to", &block.Gradient{From: "a", To: "c"}, "linear-gradient(180deg, a, c)"},
		{"incomplete", &block.Gradient{From: "a"}, ""},
	}
	for _, tt := range tests {
		t.Run("gradient "+tt.name, func(t *testing.T) {
			res := r.Background("x", &block.Background{Variant: block.BackgroundGradient, Gradient: tt.gradient})
			got, _ := res.Inline.Get("background-image")
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("image picks base then scans upward", func(t *testing.T) {
		res := r.Background("x", &block.Background{
			Variant: block.BackgroundImage,
			Image: responsive.Value[block.Media]{
				responsive.Mobile:  {Src: "/m.jpg", FocalPoint: &block.FocalPoint{X: 20, Y: 80}, Fit: "contain"},
				responsive.Desktop: {Src: "/d.jpg"},
			},
		})
		assert.Equal(t,
			"background-image:url(/m.jpg);background-size:contain;background-repeat:no-repeat;background-position:20% 80%",
			res.Inline.String())
		assert.Equal(t,
			"@media (min-width: 640px){#x{background-image:url(/m.jpg);background-position:20% 80%;background-size:contain;}}\n"+
				"@media (min-width: 1024px){#x{background-image:url(/d.jpg);background-position:center;background-size:cover;}}",
			res.Sheet.String())
	})

	t.Run("video picks base entry", func(t *testing.T) {
		res := r.Background("x", &block.Background{
			Variant: block.BackgroundVideo,
			Video: responsive.Value[block.Video]{
				responsive.Base:   {Src: "/base.mp4"},
				responsive.Mobile: {Src: "/mobile.mp4"},
			},
			OverlayOpacity: responsive.Value[float64]{responsive.Desktop: 0.4},
		})
		require.NotNil(t, res.Video)
		assert.Equal(t, "/base.mp4", res.Video.Src)
		assert.Empty(t, res.Inline)
		assert.Equal(t, responsive.Value[float64]{responsive.Desktop: 0.4}, res.Overlay)
	})

	t.Run("variant none ignores payloads", func(t *testing.T) {
		res := r.Background("x", &block.Background{Variant: block.BackgroundNone, Color: responsive.Of("red")})
		assert.Empty(t, res.Inline)
		assert.True(t, res.Sheet.Empty())
	})
}

func TestOverlay(t *testing.T) {
	r := newTestResolver()
	sheet := r.Overlay("x", responsive.Value[float64]{responsive.Tablet: 0.5, responsive.Desktop: 0})
	assert.Equal(t,
		"#x .cms-block__overlay{opacity:0;}\n"+
			"@media (min-width: 768px){#x .cms-block__overlay{opacity:0.5;}}\n"+
			"@media (min-width: 1024px){#x .cms-block__overlay{opacity:0;}}",
		sheet.String())

	assert.Nil(t, r.Overlay("x", nil))
}

func TestTokens_Merge(t *testing.T) {
	base := DefaultTokens()
	merged := base.Merge(map[string]string{"sm": "1.5rem", "4xl": "10rem"}, nil, map[string]string{"wider": "0.12em"})

	assert.Equal(t, "1.5rem", merged.Spacing["sm"])
	assert.Equal(t, "10rem", merged.Spacing["4xl"])
	assert.Equal(t, "0.12em", merged.LetterSpacing["wider"])
	assert.Equal(t, "60rem", merged.MaxWidth["content"])
	// the source tables are untouched
	assert.Equal(t, "2rem", base.Spacing["sm"])
}
