package commands

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/pagecraft/internal/cli/output"
	"github.com/leapstack-labs/pagecraft/internal/workspace"
)

// NewPagesCommand creates the pages command.
func NewPagesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pages",
		Aliases: []string{"ls"},
		Short:   "List pages",
		Long: `List every page found in the pages directory or saved in the page store.

Files that fail to parse are listed with their error.`,
		Example: `  pagecraft pages
  pagecraft pages -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPages(cmd)
		},
	}
	return cmd
}

func runPages(cmd *cobra.Command) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	r := cmdCtx.Renderer

	mgr := workspace.NewManager(cmd.Context(), workspace.Config{
		Store:    cmdCtx.Store,
		PagesDir: cmdCtx.Cfg.PagesDir,
		Logger:   cmdCtx.Logger,
	})
	entries, err := mgr.Pages(cmd.Context())
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(entries)
	}

	if len(entries) == 0 {
		r.Status("No pages in %s", cmdCtx.Cfg.PagesDir)
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		updated := ""
		if !e.UpdatedAt.IsZero() {
			updated = e.UpdatedAt.Local().Format(time.DateTime)
		}
		title := e.Title
		if e.Error != "" {
			title = "error: " + e.Error
		}
		rows = append(rows, []string{
			e.Slug,
			title,
			strconv.Itoa(e.Blocks),
			strconv.Itoa(e.Revisions),
			updated,
		})
	}
	r.Table([]string{"PAGE", "TITLE", "BLOCKS", "REVISIONS", "UPDATED"}, rows)
	return nil
}
