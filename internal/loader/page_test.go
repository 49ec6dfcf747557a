package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/pagecraft/pkg/block"
	"github.com/leapstack-labs/pagecraft/pkg/responsive"
)

const homeYAML = `title: Home
blocks:
  - kind: hero
    blockId: hero-abcdef
    content:
      heading: Welcome
      alignment: left
    style:
      layout:
        padding:
          top: {base: sm, desktop: xl}
  - kind: richText
    content:
      markdown: "Hello **world**"
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParse_YAML(t *testing.T) {
	page, err := Parse([]byte(homeYAML), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, "Home", page.Title)
	require.Len(t, page.Blocks, 2)

	hero := page.Blocks[0]
	assert.Equal(t, block.Kind("hero"), hero.Kind)
	assert.Equal(t, "hero-abcdef", hero.BlockID)
	assert.Equal(t, "Welcome", hero.Text("heading"))
	require.NotNil(t, hero.Style)
	assert.Equal(t, responsive.Value[string]{responsive.Base: "sm", responsive.Desktop: "xl"}, hero.Style.Layout.Padding.Top)

	assert.Empty(t, page.Blocks[1].BlockID)
}

func TestParse_JSON(t *testing.T) {
	src := `{"slug": "about", "blocks": [{"kind": "faq", "blockId": "faq-123456", "content": {"items": []}}]}`
	page, err := Parse([]byte(src), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "about", page.Slug)
	assert.Equal(t, block.Kind("faq"), page.Blocks[0].Kind)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		format Format
		want   string
	}{
		{"bad yaml", "blocks: [", FormatYAML, "invalid YAML"},
		{"bad json", "{", FormatJSON, "invalid JSON"},
		{"unknown field", "title: x\nsections: []", FormatYAML, `unknown field "sections" in page file`},
		{"missing kind", "blocks:\n  - content: {}", FormatYAML, "block 0 has no kind"},
		{"unknown block field", "blocks:\n  - kind: hero\n    colour: red", FormatYAML, `unknown field "colour"`},
		{"wrong style type", "blocks:\n  - kind: hero\n    style: {layout: 3}", FormatYAML, "invalid page"},
		{"unsupported format", "", Format("toml"), "unsupported format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), tt.format)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParse_EmptyDocument(t *testing.T) {
	page, err := Parse([]byte(""), FormatYAML)
	require.NoError(t, err)
	assert.NotNil(t, page.Blocks)
	assert.Empty(t, page.Blocks)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Home Page.yaml", homeYAML)

	page, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "home-page", page.Slug)

	bad := writeFile(t, dir, "bad.yml", "nope: 1")
	_, err = Load(bad)
	var ue *UnknownFieldError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, bad, ue.File)

	_, err = Load(filepath.Join(dir, "page.txt"))
	var pe *ParseError
	require.ErrorAs(t, err, &pe)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	for _, name := range []string{"home.yaml", "home.json"} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			original, err := Parse([]byte(homeYAML), FormatYAML)
			require.NoError(t, err)

			path := filepath.Join(dir, name)
			require.NoError(t, Save(path, original))

			loaded, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, original.Title, loaded.Title)
			assert.Equal(t, original.Blocks, loaded.Blocks)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Len(t, entries, 1, "temporary file left behind")
		})
	}
}

func TestSave_RejectsUnknownExtension(t *testing.T) {
	err := Save(filepath.Join(t.TempDir(), "home.txt"), &Page{})
	var pe *ParseError
	assert.ErrorAs(t, err, &pe)
}

func TestDiscoverAndFind(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.yaml", "")
	writeFile(t, dir, "a.json", "{}")
	writeFile(t, dir, "nested/c.yml", "")
	writeFile(t, dir, "notes.md", "")
	writeFile(t, dir, ".hidden.yaml", "")
	writeFile(t, dir, ".cache/d.yaml", "")

	paths, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.json"),
		filepath.Join(dir, "b.yaml"),
		filepath.Join(dir, "nested", "c.yml"),
	}, paths)

	path, err := Find(dir, "c")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "nested", "c.yml"), path)

	_, err = Find(dir, "zzz")
	assert.Error(t, err)
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path string
		want Format
		ok   bool
	}{
		{"a.yaml", FormatYAML, true},
		{"a.YML", FormatYAML, true},
		{"a.json", FormatJSON, true},
		{"a.toml", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := FormatFor(tt.path)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}
