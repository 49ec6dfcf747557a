// Package config provides configuration management for the Pagecraft CLI.
//
// It extends the shared project configuration from internal/config with
// the settings of a single invocation: output mode, verbosity and the
// editor server.
package config

import (
	sharedcfg "github.com/leapstack-labs/pagecraft/internal/config"
)

// RenderConfig is an alias for the shared section wrapper configuration.
type RenderConfig = sharedcfg.RenderConfig

// TokensConfig is an alias for the shared design token configuration.
type TokensConfig = sharedcfg.TokensConfig

// UIConfig holds configuration for the editor server.
type UIConfig struct {
	Port          int    `koanf:"port"`
	Watch         bool   `koanf:"watch"`
	AutoOpen      bool   `koanf:"auto_open"`
	SessionSecret string `koanf:"session_secret"`
}

// DefaultUIConfig returns a UIConfig with default values.
func DefaultUIConfig() *UIConfig {
	return &UIConfig{
		Port:     DefaultUIPort,
		Watch:    true,
		AutoOpen: true,
	}
}

// GetUIConfig returns the UI config with defaults applied for any unset values.
func (c *Config) GetUIConfig() *UIConfig {
	if c.UI == nil {
		return DefaultUIConfig()
	}
	ui := c.UI
	if ui.Port == 0 {
		ui.Port = DefaultUIPort
	}
	return ui
}

// Config holds all CLI configuration options.
type Config struct {
	PagesDir     string        `koanf:"pages_dir"`
	StatePath    string        `koanf:"state_path"`
	PresetsFile  string        `koanf:"presets_file"`
	Verbose      bool          `koanf:"verbose"`
	OutputFormat string        `koanf:"output"`
	Render       *RenderConfig `koanf:"render"`
	Tokens       *TokensConfig `koanf:"tokens"`
	UI           *UIConfig     `koanf:"ui"`

	// ProjectRoot is the directory relative paths were resolved against.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values - uses shared defaults from internal/config
const (
	DefaultPagesDir  = sharedcfg.DefaultPagesDir
	DefaultStateFile = sharedcfg.DefaultStateFile
	DefaultOutput    = "auto" // Auto-detect: TTY=text, non-TTY=json
	DefaultUIPort    = 8766
)
