package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	intconfig "github.com/leapstack-labs/pagecraft/internal/config"
	"github.com/leapstack-labs/pagecraft/internal/document"
	"github.com/leapstack-labs/pagecraft/pkg/style"
)

// loggerKey is used to store logger in context.
type loggerKey struct{}

// envPrefix prefixes environment variables read as configuration.
const envPrefix = "PAGECRAFT_"

// Package-level koanf instance and config file tracking
var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config // Stores the loaded config for access by commands
)

// inferProjectRoot determines the project root from CLI flags and filesystem.
// Priority:
//  1. Directory of an explicit --config file
//  2. Infer from --pages-dir (parent if it holds a config file or the
//     folder is named "pages")
//  3. Search upward from CWD for pagecraft.yaml
//  4. Current working directory
func inferProjectRoot(cfgFile string, flags *pflag.FlagSet) string {
	if cfgFile != "" {
		if abs, err := filepath.Abs(cfgFile); err == nil {
			return filepath.Dir(abs)
		}
	}

	if flags != nil && flags.Changed("pages-dir") {
		if pagesDir, _ := flags.GetString("pages-dir"); pagesDir != "" {
			if absPages, err := filepath.Abs(pagesDir); err == nil {
				parent := filepath.Dir(absPages)
				if intconfig.FindConfigFile(parent) != "" || filepath.Base(absPages) == intconfig.DefaultPagesDir {
					return parent
				}
			}
		}
	}

	cwd, err := os.Getwd()
	if err != nil || cwd == "" {
		return "."
	}
	if root := intconfig.FindProjectRoot(cwd); root != "" {
		return root
	}
	return cwd
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty, in-memory or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || path == ":memory:" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// flagPath returns the absolute value of a path flag that was explicitly
// set. Flag paths are relative to CWD, not the project root.
func flagPath(flags *pflag.FlagSet, name string) string {
	if flags == nil || !flags.Changed(name) {
		return ""
	}
	v, _ := flags.GetString(name)
	if v == "" || v == ":memory:" {
		return v
	}
	abs, err := filepath.Abs(v)
	if err != nil {
		return v
	}
	return abs
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k = koanf.New(".")
	configFileUsed = ""

	projectRoot := inferProjectRoot(cfgFile, flags)
	flagPagesDir := flagPath(flags, "pages-dir")
	flagStatePath := flagPath(flags, "state")

	// 1. Load defaults
	def := intconfig.DefaultRenderConfig()
	if err := k.Load(confmap.Provider(map[string]any{
		"pages_dir":             DefaultPagesDir,
		"state_path":            DefaultStateFile,
		"verbose":               false,
		"output":                DefaultOutput,
		"ui.port":               DefaultUIPort,
		"ui.watch":              true,
		"ui.auto_open":          true,
		"render.padding_top":    def.PaddingTop,
		"render.padding_bottom": def.PaddingBottom,
		"render.inner_selector": def.InnerSelector,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	if cfgFile == "" {
		cfgFile = intconfig.FindConfigFile(projectRoot)
	} else if _, err := os.Stat(cfgFile); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
		configFileUsed = cfgFile
	}

	// 3. Load environment variables (PAGECRAFT_ prefix)
	// Transform: PAGECRAFT_PAGES_DIR -> pages_dir, PAGECRAFT_UI__PORT -> ui.port
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority - overrides env vars and config file)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			switch key {
			case "state":
				// --state is short for state_path
				return "state_path", posflag.FlagVal(flags, f)
			case "config":
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// 6. Resolve relative paths against the project root
	cfg.ProjectRoot = projectRoot
	if flagPagesDir != "" {
		cfg.PagesDir = flagPagesDir
	} else {
		cfg.PagesDir = resolvePathRelativeTo(cfg.PagesDir, projectRoot)
	}
	if flagStatePath != "" {
		cfg.StatePath = flagStatePath
	} else {
		cfg.StatePath = resolvePathRelativeTo(cfg.StatePath, projectRoot)
	}
	cfg.PresetsFile = resolvePathRelativeTo(cfg.PresetsFile, projectRoot)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	currentConfig = &cfg
	return &cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.PagesDir == "" {
		return fmt.Errorf("pages_dir is required")
	}
	switch c.OutputFormat {
	case "", "auto", "text", "json":
	default:
		return fmt.Errorf("invalid output format %q (want auto, text or json)", c.OutputFormat)
	}
	return nil
}

// ValidateDirectories checks if required directories exist.
func (c *Config) ValidateDirectories() error {
	if _, err := os.Stat(c.PagesDir); os.IsNotExist(err) {
		return fmt.Errorf("pages directory does not exist: %s\nHint: Create the directory or use --pages-dir to specify a different path", c.PagesDir)
	}
	return nil
}

// Resolver builds the style resolver from the render and token settings.
func (c *Config) Resolver() *style.Resolver {
	return intconfig.Resolver(c.Render, c.Tokens)
}

// Presets returns the built-in presets plus those of presets_file.
func (c *Config) Presets() (*document.Presets, error) {
	return document.LoadPresets(c.PresetsFile)
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration.
// This is available after LoadConfig is called.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() any {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}
