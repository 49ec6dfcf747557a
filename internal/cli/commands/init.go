package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/pagecraft/internal/cli/output"
	intconfig "github.com/leapstack-labs/pagecraft/internal/config"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var example bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new Pagecraft project",
		Long: `Initialize a new Pagecraft project with a configuration file and a
pages directory holding a starter page.

This creates:
  - pagecraft.yaml configuration file
  - pages/ directory for page files
  - .gitignore excluding the page store

Use --example to create a demo project with a multi-section landing page,
custom style presets and design tokens.`,
		Example: `  # Initialize in current directory
  pagecraft init

  # Initialize a new directory with the demo project
  pagecraft init my-site --example

  # Force overwrite existing files
  pagecraft init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cfg := getConfig()
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))

			template := "minimal"
			if example {
				template = "example"
			}
			return runInit(r, dir, template, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	cmd.Flags().BoolVar(&example, "example", false, "Create a demo project with presets and a landing page")

	return cmd
}

func runInit(r *output.Renderer, dir, template string, force bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if existing := intconfig.FindConfigFile(dir); existing != "" && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", filepath.Base(existing))
	}

	if err := copyTemplate(template, dir, force); err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}

	files, err := listTemplateFiles(template)
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(map[string]any{
			"dir":      dir,
			"template": template,
			"files":    files,
		})
	}

	groups := groupTemplateFiles(files)
	r.Println("Configuration:")
	for _, f := range groups["config"] {
		r.Printf("  + %s\n", f)
	}
	r.Println("Pages:")
	for _, f := range groups["pages"] {
		r.Printf("  + %s\n", f)
	}

	r.Println("")
	r.Println("Pagecraft project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  pagecraft pages          List the pages in pages/")
	r.Println("  pagecraft check <page>   Validate a page")
	r.Println("  pagecraft serve          Open the page builder")
	r.Println("  pagecraft render <page>  Render a page to HTML")

	return nil
}
