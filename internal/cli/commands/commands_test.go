package commands

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/pagecraft/internal/cli/testutil"
	"github.com/leapstack-labs/pagecraft/internal/state"
)

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{NewRenderCommand(), "render <page>", []string{"out", "fragment", "format"}},
		{NewCheckCommand(), "check <page>", nil},
		{NewPagesCommand(), "pages", nil},
		{NewImportCommand(), "import <file>", []string{"note", "slug"}},
		{NewBlocksCommand(), "blocks", []string{"category", "defaults"}},
		{NewServeCommand(), "serve", []string{"port", "no-browser", "watch", "dev"}},
	}

	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short, "Short should not be empty")
			assert.NotEmpty(t, tt.cmd.Example, "Example should not be empty")
			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}
}

func TestRender(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	testutil.LoadProjectConfig(t, dir)

	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{
			name: "document by slug",
			args: []string{"landing"},
			want: []string{"<!doctype html>", "<title>Landing</title>", "Welcome", "Because."},
		},
		{
			name: "document by path",
			args: []string{filepath.Join(dir, "pages", "landing.yaml")},
			want: []string{"<title>Landing</title>", "Welcome"},
		},
		{
			name:    "markdown",
			args:    []string{"landing", "--format", "markdown"},
			want:    []string{"# Landing", "Welcome", "Because."},
			notWant: []string{"<section", "@media"},
		},
		{
			name:    "fragment",
			args:    []string{"landing", "--fragment"},
			want:    []string{"Welcome", "@media"},
			notWant: []string{"<title>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := testutil.Run(t, NewRenderCommand(), tt.args...)
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, stdout, want)
			}
			for _, notWant := range tt.notWant {
				assert.NotContains(t, stdout, notWant)
			}
		})
	}
}

func TestRender_InvalidFormat(t *testing.T) {
	_, _, err := testutil.Run(t, NewRenderCommand(), "landing", "--format", "pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestRender_OutFile(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	testutil.LoadProjectConfig(t, dir)
	out := filepath.Join(dir, "dist", "index.html")

	stdout, stderr, err := testutil.Run(t, NewRenderCommand(), "landing", "--out", out)
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Rendered landing (2 blocks)")

	html, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Welcome")
}

func TestRender_UntitledPageUsesSlug(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	testutil.WritePage(t, dir, "bare", "blocks: []\n")
	testutil.LoadProjectConfig(t, dir)

	stdout, _, err := testutil.Run(t, NewRenderCommand(), "bare")
	require.NoError(t, err)
	assert.Contains(t, stdout, "<title>bare</title>")
}

func TestRender_JSON(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	cfg := testutil.LoadProjectConfig(t, dir)
	cfg.OutputFormat = "json"

	stdout, _, err := testutil.Run(t, NewRenderCommand(), "landing")
	require.NoError(t, err)

	var got RenderOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, "landing", got.Slug)
	assert.Equal(t, 2, got.Blocks)
	assert.Contains(t, got.HTML, "Welcome")
}

func TestRender_StoredPage(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	cfg := testutil.LoadProjectConfig(t, dir)

	_, _, err := testutil.Run(t, NewImportCommand(), filepath.Join(dir, "pages", "landing.yaml"), "--slug", "archived")
	require.NoError(t, err)
	require.FileExists(t, cfg.StatePath)

	stdout, _, err := testutil.Run(t, NewRenderCommand(), "archived")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Welcome")
}

func TestRender_NotFound(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	testutil.LoadProjectConfig(t, dir)

	_, _, err := testutil.Run(t, NewRenderCommand(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, errPageNotFound)
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		page    string
		wantErr bool
		want    []string
	}{
		{
			name: "valid page",
			page: testutil.LandingPage,
			want: []string{"hero-aaaaaa", "faq-bbbbbb", "ok"},
		},
		{
			name: "invalid content",
			page: `blocks:
  - kind: hero
    blockId: hero-cccccc
    content:
      heading: ""
`,
			wantErr: true,
			want:    []string{"FAIL", "hero-cccccc: content"},
		},
		{
			name: "unknown kind",
			page: `blocks:
  - kind: carousel
    blockId: carousel-dddddd
    content: {}
`,
			wantErr: true,
			want:    []string{"unknown block kind"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := testutil.SetupTestProject(t)
			testutil.WritePage(t, dir, "subject", tt.page)
			testutil.LoadProjectConfig(t, dir)

			stdout, _, err := testutil.Run(t, NewCheckCommand(), "subject")
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, errCheckFailed)
			} else {
				require.NoError(t, err)
			}
			for _, want := range tt.want {
				assert.Contains(t, stdout, want)
			}
			testutil.AssertNoANSI(t, stdout)
		})
	}
}

func TestCheck_JSON(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	cfg := testutil.LoadProjectConfig(t, dir)
	cfg.OutputFormat = "json"

	stdout, _, err := testutil.Run(t, NewCheckCommand(), "landing")
	require.NoError(t, err)

	var got CheckOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.True(t, got.OK)
	require.Len(t, got.Blocks, 2)
	assert.Equal(t, "hero-aaaaaa", got.Blocks[0].BlockID)
	assert.Positive(t, got.Blocks[0].Style.Rules)
	assert.Positive(t, got.Blocks[0].Style.MediaBlocks)
}

func TestPages(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	testutil.WritePage(t, dir, "broken", "title: [unclosed\n")
	testutil.LoadProjectConfig(t, dir)

	stdout, _, err := testutil.Run(t, NewPagesCommand())
	require.NoError(t, err)
	assert.Contains(t, stdout, "PAGE")
	assert.Contains(t, stdout, "landing")
	assert.Contains(t, stdout, "Landing")
	assert.Contains(t, stdout, "error:")
	testutil.AssertNoANSI(t, stdout)
}

func TestPages_JSONIncludesStoredPages(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	cfg := testutil.LoadProjectConfig(t, dir)

	_, _, err := testutil.Run(t, NewImportCommand(), filepath.Join(dir, "pages", "landing.yaml"), "--slug", "stored")
	require.NoError(t, err)

	cfg.OutputFormat = "json"
	stdout, _, err := testutil.Run(t, NewPagesCommand())
	require.NoError(t, err)

	var got []struct {
		Slug      string `json:"slug"`
		Revisions int    `json:"revisions"`
		File      string `json:"file"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "landing", got[0].Slug)
	assert.NotEmpty(t, got[0].File)
	assert.Equal(t, "stored", got[1].Slug)
	assert.Equal(t, 1, got[1].Revisions)
}

func TestImport(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	cfg := testutil.LoadProjectConfig(t, dir)
	path := testutil.WritePage(t, dir, "draft", `title: Draft
blocks:
  - kind: quote
    content:
      quote: Ship it.
  - kind: quote
    content:
      quote: Again.
`)

	stdout, _, err := testutil.Run(t, NewImportCommand(), path, "--note", "first")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Imported draft as revision 1 (2 blocks)")
	assert.Contains(t, stdout, "Repaired 2 block ids")

	stdout, _, err = testutil.Run(t, NewImportCommand(), path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "revision 2")

	store, err := state.OpenAndMigrate(cfg.StatePath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	revs, err := store.ListRevisions(context.Background(), "draft")
	require.NoError(t, err)
	require.Len(t, revs, 2)

	notes := []string{revs[0].Note, revs[1].Note}
	assert.Contains(t, notes, "first")
	assert.Contains(t, notes, "Imported from "+path)

	page, err := store.GetPage(context.Background(), "draft")
	require.NoError(t, err)
	assert.Equal(t, "Draft", page.Title)
	for _, b := range page.Blocks {
		assert.NotEmpty(t, b.BlockID)
	}
}

func TestImport_BadFile(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	testutil.LoadProjectConfig(t, dir)
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0600))

	_, _, err := testutil.Run(t, NewImportCommand(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a page file")
}

func TestBlocks(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	cfg := testutil.LoadProjectConfig(t, dir)

	t.Run("table", func(t *testing.T) {
		stdout, _, err := testutil.Run(t, NewBlocksCommand())
		require.NoError(t, err)
		for _, kind := range []string{"hero", "statGrid", "faq", "doctors"} {
			assert.Contains(t, stdout, kind)
		}
	})

	t.Run("category filter", func(t *testing.T) {
		stdout, _, err := testutil.Run(t, NewBlocksCommand(), "--category", "hero")
		require.NoError(t, err)
		assert.Contains(t, stdout, "hero")
		assert.NotContains(t, stdout, "faq")
	})

	t.Run("json with defaults", func(t *testing.T) {
		cfg.OutputFormat = "json"
		defer func() { cfg.OutputFormat = "text" }()

		stdout, _, err := testutil.Run(t, NewBlocksCommand(), "--defaults")
		require.NoError(t, err)

		var got []BlockKindOutput
		require.NoError(t, json.Unmarshal([]byte(stdout), &got))
		require.NotEmpty(t, got)
		assert.Equal(t, "hero", got[0].Kind)
		assert.NotEmpty(t, got[0].Defaults)
	})
}
