package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/pagecraft/pkg/block"
	"github.com/leapstack-labs/pagecraft/pkg/responsive"
)

func TestLoadFromDir(t *testing.T) {
	t.Run("no config file", func(t *testing.T) {
		cfg, err := LoadFromDir(t.TempDir())
		require.NoError(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("defaults applied", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileNameAlt), []byte("presets_file: presets.yaml\n"), 0600))

		cfg, err := LoadFromDir(dir)
		require.NoError(t, err)
		require.NotNil(t, cfg)
		assert.Equal(t, DefaultPagesDir, cfg.PagesDir)
		assert.Equal(t, DefaultStateFile, cfg.StatePath)
		assert.Equal(t, "presets.yaml", cfg.PresetsFile)
		assert.Equal(t, DefaultRenderConfig(), *cfg.Render)
	})

	t.Run("render and tokens", func(t *testing.T) {
		dir := t.TempDir()
		content := `pages_dir: site
render:
  padding_top: 6rem
tokens:
  spacing:
    huge: 12rem
`
		require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0600))

		cfg, err := LoadFromDir(dir)
		require.NoError(t, err)
		assert.Equal(t, "site", cfg.PagesDir)
		assert.Equal(t, "6rem", cfg.Render.PaddingTop)
		assert.Equal(t, DefaultPadding, cfg.Render.PaddingBottom)
		assert.Equal(t, map[string]string{"huge": "12rem"}, cfg.Tokens.Spacing)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("render: [\n"), 0600))
		_, err := LoadFromDir(dir)
		assert.Error(t, err)
	})
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0750))

	assert.Empty(t, FindProjectRoot(nested))

	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileName), []byte("{}"), 0600))
	assert.Equal(t, root, FindProjectRoot(nested))
	assert.Equal(t, filepath.Join(root, ConfigFileName), FindConfigFile(root))
}

func TestResolver(t *testing.T) {
	pad := &block.Padding{Top: responsive.Of("huge"), Bottom: responsive.Of("unknown")}

	tests := []struct {
		name   string
		render *RenderConfig
		tokens *TokensConfig
		want   string
	}{
		{
			name: "built-in tables",
			want: "#x{padding-top:4rem;padding-bottom:4rem;}",
		},
		{
			name:   "configured token and padding",
			render: &RenderConfig{PaddingBottom: "1rem"},
			tokens: &TokensConfig{Spacing: map[string]string{"huge": "12rem"}},
			want:   "#x{padding-top:12rem;padding-bottom:1rem;}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Resolver(tt.render, tt.tokens)
			assert.Equal(t, tt.want, r.Spacing("x", pad, r.DefaultPadding()).String())
			assert.Equal(t, ".cms-block__inner", r.InnerSelector())
		})
	}
}
