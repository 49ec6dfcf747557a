package blocks

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/pagecraft/pkg/block"
	"github.com/leapstack-labs/pagecraft/pkg/responsive"
	"github.com/leapstack-labs/pagecraft/pkg/style"
)

func TestRegistry_Definitions(t *testing.T) {
	r := NewRegistry()
	defs := r.Definitions()
	require.Len(t, defs, 11)

	kinds := make([]block.Kind, len(defs))
	for i, d := range defs {
		kinds[i] = d.Kind
		assert.NotEmpty(t, d.Label, d.Kind)
		assert.NotEmpty(t, d.Description, d.Kind)
		assert.NotNil(t, d.Schema, d.Kind)
	}
	assert.Equal(t, []block.Kind{
		KindHero, KindStatGrid, KindRichText, KindImageFeature, KindFeatureGrid, KindLogoGrid,
		KindCallToAction, KindFAQ, KindQuote, KindTreatments, KindDoctors,
	}, kinds)

	assert.Equal(t, []Category{CategoryHero, CategoryContent, CategoryLayout, CategoryEngagement, CategorySocial}, r.Categories())
	assert.Len(t, r.ByCategory(CategoryContent), 7)
}

func TestRegistry_LookupUnknown(t *testing.T) {
	_, err := NewRegistry().Lookup("carousel")
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = NewRegistry().NewBlock("carousel")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

// Every kind's starter content must pass its own schema.
func TestRegistry_DefaultsAreValid(t *testing.T) {
	r := NewRegistry()
	for _, d := range r.Definitions() {
		t.Run(string(d.Kind), func(t *testing.T) {
			b, err := r.NewBlock(d.Kind)
			require.NoError(t, err)
			assert.Equal(t, d.Kind, b.Kind)
			assert.GreaterOrEqual(t, len(b.BlockID), block.MinIDLength)

			_, err = r.Validate(b)
			assert.NoError(t, err)
		})
	}
}

func TestRegistry_NewBlockIsIndependent(t *testing.T) {
	r := NewRegistry()
	a, err := r.NewBlock(KindFAQ)
	require.NoError(t, err)
	b, err := r.NewBlock(KindFAQ)
	require.NoError(t, err)

	assert.NotEqual(t, a.BlockID, b.BlockID)
	a.Content["heading"] = "changed"
	items, _ := a.Content["items"].([]any)
	items[0].(map[string]any)["question"] = "changed"

	d, _ := r.Lookup(KindFAQ)
	fresh := d.DefaultContent()
	assert.NotContains(t, fresh, "heading")
	assert.Equal(t, "How does the process work?", fresh["items"].([]any)[0].(map[string]any)["question"])
	assert.NotContains(t, b.Content, "heading")
}

func TestRegistry_ValidatePassesEnvelopeThrough(t *testing.T) {
	r := NewRegistry()
	b := block.Instance{
		Kind:     KindRichText,
		BlockID:  "abcdef",
		Content:  map[string]any{"markdown": "hello", "stray": true},
		Style:    &block.Style{PresetID: "muted"},
		Advanced: &block.Advanced{AnchorID: "intro"},
	}
	out, err := r.Validate(b)
	require.NoError(t, err)
	assert.Equal(t, "abcdef", out.BlockID)
	assert.Equal(t, "muted", out.Style.PresetID)
	assert.Equal(t, map[string]any{"markdown": "hello", "align": "start", "width": "prose"}, out.Content)
	assert.Contains(t, b.Content, "stray", "input is not modified")
}

func TestRegistry_ValidateAdvanced(t *testing.T) {
	r := NewRegistry()
	b, err := r.NewBlock(KindRichText)
	require.NoError(t, err)

	b.Advanced = &block.Advanced{AnchorID: "not an anchor"}
	_, err = r.Validate(b)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []FieldIssue{{Field: "advanced.anchorId", Message: "must be URL friendly"}}, ve.Issues)

	b.Advanced = &block.Advanced{CTA: &block.Action{Label: "Go"}}
	_, err = r.Validate(b)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "advanced.cta.href", ve.Issues[0].Field)
}

func TestRegistry_Render(t *testing.T) {
	r := NewRegistry()
	res := style.NewResolver(style.DefaultTokens())

	tests := []struct {
		name     string
		block    block.Instance
		contains []string
	}{
		{
			name:  "hero uses its own padding",
			block: block.Instance{Kind: KindHero, BlockID: "hero01", Content: map[string]any{"heading": "Welcome <home>"}},
			contains: []string{
				`<section id="block-hero01"`,
				"#block-hero01{padding-top:5rem;padding-bottom:5rem;}",
				"Welcome &lt;home&gt;",
				`class="relative z-10 grid gap-10 items-center"`,
			},
		},
		{
			name: "hero actions",
			block: block.Instance{Kind: KindHero, BlockID: "hero02", Content: map[string]any{
				"heading":         "Welcome",
				"primaryAction":   map[string]any{"label": "Book <now>", "href": "/book", "target": "_blank"},
				"secondaryAction": map[string]any{"label": "More", "href": "/more"},
			}},
			contains: []string{
				`<a href="/book" target="_blank" rel="noopener noreferrer" class="btn btn-default btn-lg">Book &lt;now&gt;</a>`,
				`<a href="/more" class="btn btn-outline btn-lg">More</a>`,
			},
		},
		{
			name:  "rich text renders markdown",
			block: block.Instance{Kind: KindRichText, BlockID: "rich01", Content: map[string]any{"markdown": "## Title\n\n*hi*"}},
			contains: []string{
				"<h2>Title</h2>",
				"<em>hi</em>",
				"#block-rich01{padding-top:4rem;padding-bottom:4rem;}",
			},
		},
		{
			name:     "unknown kind",
			block:    block.Instance{Kind: "carousel", BlockID: "car001"},
			contains: []string{`data-unsupported="true"`, "Unsupported block: carousel"},
		},
		{
			name:     "undecodable content",
			block:    block.Instance{Kind: KindStatGrid, BlockID: "stat01", Content: map[string]any{"columns": "four"}},
			contains: []string{`data-unsupported="true"`, "columns must be a number"},
		},
		{
			name: "treatments placeholders",
			block: block.Instance{Kind: KindTreatments, BlockID: "tre001", Content: map[string]any{
				"limit": 2, "layout": "carousel", "categories": []any{"dental"},
			}},
			contains: []string{`data-listing="treatments"`, `data-limit="2"`, `data-slot="1"`, "Filtered by dental"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sb strings.Builder
			require.NoError(t, r.Render(res, tt.block).Render(context.Background(), &sb))
			for _, want := range tt.contains {
				assert.Contains(t, sb.String(), want)
			}
		})
	}
}

func TestRegistry_RenderHeadingAlignFromStyle(t *testing.T) {
	r := NewRegistry()
	res := style.NewResolver(style.DefaultTokens())
	b := block.Instance{
		Kind:    KindFAQ,
		BlockID: "faq001",
		Content: map[string]any{
			"heading": "Questions",
			"items":   []any{map[string]any{"question": "Q", "answer": "A"}},
		},
		Style: &block.Style{Layout: &block.Layout{
			HorizontalAlign: responsive.Value[string]{responsive.Tablet: "end", responsive.Desktop: "start"},
		}},
	}
	var sb strings.Builder
	require.NoError(t, r.Render(res, b).Render(context.Background(), &sb))
	assert.Contains(t, sb.String(), `class="mb-4 max-w-3xl space-y-3 ml-auto text-right"`)
}
