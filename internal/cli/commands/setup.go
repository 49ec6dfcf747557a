package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/pagecraft/internal/blocks"
	"github.com/leapstack-labs/pagecraft/internal/cli/config"
	"github.com/leapstack-labs/pagecraft/internal/cli/output"
	intconfig "github.com/leapstack-labs/pagecraft/internal/config"
	"github.com/leapstack-labs/pagecraft/internal/publish"
	"github.com/leapstack-labs/pagecraft/internal/state"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Store    *state.SQLiteStore
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with the page store opened.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cmdCtx := NewCommandContextWithoutStore(cmd)

	store, err := openStore(cmdCtx.Cfg, cmdCtx.Logger)
	if err != nil {
		return nil, nil, err
	}
	cmdCtx.Store = store

	cleanup := func() {
		if err := store.Close(); err != nil {
			cmdCtx.Logger.Error("failed to close page store", "error", err)
		}
	}
	return cmdCtx, cleanup, nil
}

// NewCommandContextWithoutStore creates a CommandContext without a store.
// Useful for commands that only read page files.
func NewCommandContextWithoutStore(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// PageRenderer builds the HTML renderer from the configured tokens and
// section defaults.
func (c *CommandContext) PageRenderer() publish.Renderer {
	return publish.Renderer{
		Registry: blocks.NewRegistry(),
		Resolver: c.Cfg.Resolver(),
	}
}

// Helper functions shared across commands

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	return &config.Config{
		PagesDir:     getEnvOrDefault("PAGECRAFT_PAGES_DIR", intconfig.DefaultPagesDir),
		StatePath:    getEnvOrDefault("PAGECRAFT_STATE_PATH", config.DefaultStateFile),
		PresetsFile:  os.Getenv("PAGECRAFT_PRESETS_FILE"),
		Verbose:      os.Getenv("PAGECRAFT_VERBOSE") == "true",
		OutputFormat: os.Getenv("PAGECRAFT_OUTPUT"),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// openStore opens the page store, creating it on first use.
func openStore(cfg *config.Config, logger *slog.Logger) (*state.SQLiteStore, error) {
	logger.Debug("opening page store", "path", cfg.StatePath)
	store, err := state.OpenAndMigrate(cfg.StatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open page store: %w", err)
	}
	return store, nil
}
