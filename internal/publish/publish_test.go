package publish

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/pagecraft/internal/blocks"
	"github.com/leapstack-labs/pagecraft/pkg/block"
	"github.com/leapstack-labs/pagecraft/pkg/style"
)

func testRenderer() Renderer {
	return Renderer{
		Registry: blocks.NewRegistry(),
		Resolver: style.NewResolver(style.DefaultTokens()),
	}
}

var page = []block.Instance{
	{Kind: "hero", BlockID: "hero-aaaaaa", Content: map[string]any{"heading": "Welcome <home>"}},
	{Kind: "quote", BlockID: "quote-bbbbbb", Content: map[string]any{"quote": "Great"}},
	{Kind: "carousel", BlockID: "carousel-cccccc"},
}

func TestSections(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, testRenderer().Sections(page).Render(context.Background(), &buf))
	out := buf.String()

	assert.Equal(t, 3, strings.Count(out, "<section "))
	assert.Contains(t, out, "Welcome &lt;home&gt;")
	assert.Contains(t, out, "Unsupported block: carousel")
	assert.Less(t, strings.Index(out, "Welcome"), strings.Index(out, "Great"), "blocks keep their order")
}

func TestDocument(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, testRenderer().Document("Home & away", page[:1]).Render(context.Background(), &buf))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<!doctype html>"))
	assert.Contains(t, out, "<title>Home &amp; away</title>")
	assert.Contains(t, out, ".cms-block__inner")
	assert.Contains(t, out, "data-animate")
	assert.True(t, strings.HasSuffix(out, "</main></body></html>"))
}

func TestSections_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, testRenderer().Sections(nil).Render(context.Background(), &buf))
	assert.Empty(t, buf.String())
}

func TestMarkdown(t *testing.T) {
	md, err := testRenderer().Markdown(context.Background(), "Home", page[:2])
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(md, "# Home\n\n"))
	assert.Contains(t, md, "Welcome")
	assert.Contains(t, md, "Great")
	assert.NotContains(t, md, "@media")
	assert.NotContains(t, md, "padding-top")
	assert.Less(t, strings.Index(md, "Welcome"), strings.Index(md, "Great"))
}

func TestMarkdown_Untitled(t *testing.T) {
	md, err := testRenderer().Markdown(context.Background(), "", nil)
	require.NoError(t, err)
	assert.Equal(t, "\n", md)
}
