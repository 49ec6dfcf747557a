package pages

import (
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/pagecraft/internal/blocks"
	"github.com/leapstack-labs/pagecraft/internal/document"
	"github.com/leapstack-labs/pagecraft/internal/publish"
	"github.com/leapstack-labs/pagecraft/internal/workspace"
	"github.com/leapstack-labs/pagecraft/pkg/block"
	"github.com/leapstack-labs/pagecraft/pkg/style"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, c.Render(context.Background(), &sb))
	return sb.String()
}

func testData(view workspace.View) Data {
	registry := blocks.NewRegistry()
	return Data{
		View:     view,
		Device:   document.DeviceMobile,
		Registry: registry,
		Renderer: publish.Renderer{Registry: registry, Resolver: style.NewResolver(style.DefaultTokens())},
		Signals:  "{}",
	}
}

func TestData_URL(t *testing.T) {
	d := Data{View: workspace.View{Slug: "my page"}}
	assert.Equal(t, "/pages/my%20page", d.URL())
	assert.Equal(t, "/pages/my%20page/blocks/2/move/-1", d.URL("blocks", "2", "move", "-1"))
}

func TestFrame(t *testing.T) {
	html := render(t, Frame(testData(workspace.View{Slug: "landing", Version: 3, PreviewKey: "landing@3"})))
	assert.Contains(t, html, `<div id="frame" class="frame" data-device="mobile" style="width:375px">`)
	assert.Contains(t, html, `<div id="preview" data-preview-key="landing@3"><div id="canvas-3">`)
	assert.Contains(t, html, "This page is empty.")
}

func TestStatus(t *testing.T) {
	assert.Equal(t, `<span id="status" class="toolbar__status">All changes saved</span>`,
		render(t, Status(workspace.View{})))
	assert.Equal(t, `<span id="status" class="toolbar__status toolbar__status--dirty">Unsaved changes</span>`,
		render(t, Status(workspace.View{Dirty: true})))
}

func TestIssues(t *testing.T) {
	html := render(t, Issues(workspace.View{Issues: []blocks.FieldIssue{
		{Field: "heading", Message: "is required"},
		{Message: "content is <invalid>"},
	}}))
	assert.Equal(t, `<ul id="issues" class="issues"><li>heading: is required</li><li>content is &lt;invalid&gt;</li></ul>`, html)
}

func TestStructure(t *testing.T) {
	d := testData(workspace.View{
		Slug: "landing",
		Blocks: []block.Instance{
			{Kind: blocks.KindHero, BlockID: "hero-aaaaaa", Content: map[string]any{"heading": "Welcome"}},
			{Kind: "carousel", BlockID: "car-bbbbbb"},
		},
		Selected: 1,
	})
	html := render(t, Structure(d))

	assert.Contains(t, html, `<li class="structure__item" data-block-id="hero-aaaaaa"`)
	assert.Contains(t, html, `<li class="structure__item structure__item--selected" data-block-id="car-bbbbbb"`)
	assert.Contains(t, html, `<span class="structure__kind"> carousel</span>`, "unknown kinds fall back to the kind name")
	assert.Contains(t, html, `data-on:click__stop="@delete(&#39;/pages/landing/blocks/1&#39;)"`)
	assert.Contains(t, html, `/pages/landing/append/hero`)
	assert.NotContains(t, html, "No blocks yet.")
}

func TestInspector(t *testing.T) {
	t.Run("nothing selected", func(t *testing.T) {
		html := render(t, Inspector(testData(workspace.View{Slug: "landing", Selected: -1})))
		assert.Contains(t, html, "Select a block to edit it.")
		assert.NotContains(t, html, `id="issues"`)
	})

	t.Run("selected block", func(t *testing.T) {
		d := testData(workspace.View{
			Slug:     "landing",
			Blocks:   []block.Instance{{Kind: blocks.KindQuote, BlockID: "quote-aaaaaa"}},
			Selected: 0,
		})
		d.Presets = []document.Preset{{ID: "muted", Label: "Muted", Description: "Soft background"}}
		html := render(t, Inspector(d))
		assert.Contains(t, html, `<p class="text-sm text-muted-foreground">quote-aaaaaa</p>`)
		assert.Contains(t, html, `id="issues"`)
		assert.Contains(t, html, `<option value="muted" title="Soft background">Muted</option>`)
		assert.Contains(t, html, `<label class="field"><span>Content</span><textarea data-bind:content spellcheck="false"></textarea></label>`)
		assert.Contains(t, html, "/pages/landing/blocks/0/preset")
	})
}
