package commands

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/pagecraft/internal/blocks"
	"github.com/leapstack-labs/pagecraft/internal/cli/config"
	"github.com/leapstack-labs/pagecraft/internal/ui"
	"github.com/leapstack-labs/pagecraft/internal/workspace"
)

// devSessionSecret signs editor sessions when ui.session_secret is unset.
const devSessionSecret = "pagecraft-dev-secret-change-in-production" //nolint:gosec

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port      int
	NoBrowser bool
	Watch     bool
	Dev       bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"ui"},
		Short:   "Start the page builder",
		Long: `Start a local web server with the interactive page builder.

The builder provides:
- A page index with create and open
- A block list with add, move, duplicate and remove
- An inspector for block content, style and presets
- A live preview at mobile, tablet and desktop widths

Edits are saved as revisions in the page store and written back to the
page file. Changes made to page files on disk are picked up while the
server runs unless --watch=false is given.`,
		Example: `  # Start on the default port
  pagecraft serve

  # Start on a custom port without opening a browser
  pagecraft serve --port 3000 --no-browser`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, fmt.Sprintf("Port to serve on (default: %d)", config.DefaultUIPort))
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")
	cmd.Flags().BoolVar(&opts.Watch, "watch", true, "Watch page files for changes")
	cmd.Flags().BoolVar(&opts.Dev, "dev", false, "Enable request logging and browser live reload")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	cfg := cmdCtx.Cfg
	logger := cmdCtx.Logger

	// Get UI config with defaults
	uiCfg := cfg.GetUIConfig()

	// CLI flags override config file
	port := uiCfg.Port
	if opts.Port != 0 {
		port = opts.Port
	}

	autoOpen := uiCfg.AutoOpen
	if opts.NoBrowser {
		autoOpen = false
	}

	watch := uiCfg.Watch
	if cmd.Flags().Changed("watch") {
		watch = opts.Watch
	}

	if err := cfg.ValidateDirectories(); err != nil {
		return err
	}

	presets, err := cfg.Presets()
	if err != nil {
		return fmt.Errorf("failed to load presets: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mgr := workspace.NewManager(ctx, workspace.Config{
		Store:    cmdCtx.Store,
		Registry: blocks.NewRegistry(),
		Presets:  presets,
		PagesDir: cfg.PagesDir,
		Logger:   logger,
	})

	secret := uiCfg.SessionSecret
	if secret == "" {
		logger.Warn("ui.session_secret is not set; using the development secret")
		secret = devSessionSecret
	}

	server := ui.NewServer(ui.Config{
		Manager:       mgr,
		Renderer:      cmdCtx.PageRenderer(),
		Port:          port,
		Watch:         watch,
		Dev:           opts.Dev,
		PagesDir:      cfg.PagesDir,
		SessionSecret: secret,
		Logger:        logger,
	})

	url := fmt.Sprintf("http://localhost:%d", port)
	if autoOpen {
		go openBrowser(ctx, url)
	}

	cmdCtx.Renderer.Status("Starting page builder on %s", url)
	cmdCtx.Renderer.Status("Press Ctrl+C to stop")

	return server.Serve(ctx)
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(ctx context.Context, url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", url)
	case "linux":
		cmd = exec.CommandContext(ctx, "xdg-open", url)
	case "windows":
		cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return
	}

	_ = cmd.Start()
}
