package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) (dir, path string) {
	t.Helper()
	dir = t.TempDir()
	path = filepath.Join(dir, "pagecraft.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return dir, path
}

func testFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("config", "", "config file")
	flags.String("pages-dir", "", "pages directory")
	flags.String("state", "", "state database")
	flags.BoolP("verbose", "v", false, "verbose")
	flags.StringP("output", "o", "", "output format")
	return flags
}

// TestLoadConfig_Defaults tests the values used when nothing is configured.
func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	dir, path := writeConfig(t, "{}\n")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, DefaultPagesDir), cfg.PagesDir)
	assert.Equal(t, filepath.Join(dir, DefaultStateFile), cfg.StatePath)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, dir, cfg.ProjectRoot)
	assert.Equal(t, path, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())

	ui := cfg.GetUIConfig()
	assert.Equal(t, DefaultUIPort, ui.Port)
	assert.True(t, ui.Watch)

	require.NotNil(t, cfg.Render)
	assert.Equal(t, "4rem", cfg.Render.PaddingTop)
	assert.Equal(t, ".cms-block__inner", cfg.Render.InnerSelector)
}

// TestLoadConfig_File tests values read from pagecraft.yaml.
func TestLoadConfig_File(t *testing.T) {
	ResetConfig()
	dir, path := writeConfig(t, `pages_dir: site/pages
state_path: /tmp/pagecraft-state.db
presets_file: presets.yaml
output: json
ui:
  port: 9000
  watch: false
render:
  padding_top: 6rem
tokens:
  spacing:
    huge: 12rem
`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "site", "pages"), cfg.PagesDir)
	assert.Equal(t, "/tmp/pagecraft-state.db", cfg.StatePath)
	assert.Equal(t, filepath.Join(dir, "presets.yaml"), cfg.PresetsFile)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, 9000, cfg.GetUIConfig().Port)
	assert.False(t, cfg.GetUIConfig().Watch)
	assert.Equal(t, "6rem", cfg.Render.PaddingTop)
	assert.Equal(t, "4rem", cfg.Render.PaddingBottom)
	assert.Equal(t, map[string]string{"huge": "12rem"}, cfg.Tokens.Spacing)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	ResetConfig()
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadConfig_InvalidOutput(t *testing.T) {
	ResetConfig()
	_, path := writeConfig(t, "output: markdown\n")
	_, err := LoadConfig(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}

// TestLoadConfig_Precedence tests flags > env vars > config file.
func TestLoadConfig_Precedence(t *testing.T) {
	_, path := writeConfig(t, "pages_dir: from_file\nui:\n  port: 9000\n")

	t.Run("env over file", func(t *testing.T) {
		ResetConfig()
		t.Setenv("PAGECRAFT_PAGES_DIR", "/from_env")
		t.Setenv("PAGECRAFT_UI__PORT", "9100")

		cfg, err := LoadConfig(path, testFlags())
		require.NoError(t, err)
		assert.Equal(t, "/from_env", cfg.PagesDir)
		assert.Equal(t, 9100, cfg.GetUIConfig().Port)
	})

	t.Run("flag over env", func(t *testing.T) {
		ResetConfig()
		t.Setenv("PAGECRAFT_PAGES_DIR", "/from_env")

		flags := testFlags()
		require.NoError(t, flags.Set("pages-dir", "from_flag"))
		require.NoError(t, flags.Set("state", ":memory:"))
		require.NoError(t, flags.Set("verbose", "true"))

		cfg, err := LoadConfig(path, flags)
		require.NoError(t, err)

		want, _ := filepath.Abs("from_flag")
		assert.Equal(t, want, cfg.PagesDir)
		assert.Equal(t, ":memory:", cfg.StatePath)
		assert.True(t, cfg.Verbose)
	})

	t.Run("unset flag keeps env", func(t *testing.T) {
		ResetConfig()
		t.Setenv("PAGECRAFT_PAGES_DIR", "/from_env")

		cfg, err := LoadConfig(path, testFlags())
		require.NoError(t, err)
		assert.Equal(t, "/from_env", cfg.PagesDir)
	})
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, (&Config{PagesDir: "pages"}).Validate())

	err := (&Config{}).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pages_dir is required")
}

func TestConfig_ValidateDirectories(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, (&Config{PagesDir: dir}).ValidateDirectories())

	err := (&Config{PagesDir: filepath.Join(dir, "missing")}).ValidateDirectories()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--pages-dir")
}

func TestConfig_Presets(t *testing.T) {
	cfg := &Config{}
	presets, err := cfg.Presets()
	require.NoError(t, err)
	assert.NotEmpty(t, presets.List())

	cfg.PresetsFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = cfg.Presets()
	assert.Error(t, err)
}

func TestGetLogger_Fallback(t *testing.T) {
	logger := GetLogger(context.Background())
	require.NotNil(t, logger)
	assert.False(t, logger.Enabled(context.Background(), 0))
}
