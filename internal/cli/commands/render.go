package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/pagecraft/internal/cli/output"
	"github.com/leapstack-labs/pagecraft/internal/publish"
)

// RenderOutput is the JSON form of a rendered page.
type RenderOutput struct {
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	Source   string `json:"source"`
	Blocks   int    `json:"blocks"`
	HTML     string `json:"html,omitempty"`
	Markdown string `json:"markdown,omitempty"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand() *cobra.Command {
	var out string
	var fragment bool
	var format string

	cmd := &cobra.Command{
		Use:   "render <page>",
		Short: "Render a page to static HTML or Markdown",
		Long: `Render a page to a standalone HTML document.

The page argument is a page file path, a slug in the pages directory, or
a slug saved in the page store. Page files win over stored pages.

Output is written to stdout unless --out is given. With --output json the
result is wrapped in a JSON object together with the page metadata.

--format markdown renders the page text as Markdown instead of HTML.`,
		Example: `  # Render a page to stdout
  pagecraft render landing

  # Render to a file
  pagecraft render landing --out dist/index.html

  # Render only the sections, without the document shell
  pagecraft render pages/landing.yaml --fragment

  # Export the page copy as Markdown
  pagecraft render landing --format markdown`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], out, format, fragment)
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Write the result to this file")
	cmd.Flags().BoolVar(&fragment, "fragment", false, "Render the sections without the document shell")
	cmd.Flags().StringVar(&format, "format", "html", "Output format (html|markdown)")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"html", "markdown"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runRender(cmd *cobra.Command, arg, out, format string, fragment bool) error {
	if format != "html" && format != "markdown" {
		return fmt.Errorf("invalid format %q (want html or markdown)", format)
	}

	cmdCtx := NewCommandContextWithoutStore(cmd)
	r := cmdCtx.Renderer

	page, err := loadPage(cmd.Context(), cmdCtx, arg)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := renderPage(cmd.Context(), cmdCtx.PageRenderer(), page, format, fragment, &buf); err != nil {
		return fmt.Errorf("failed to render page %s: %w", page.Slug, err)
	}

	if out != "" {
		if dir := filepath.Dir(out); dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		if err := os.WriteFile(out, buf.Bytes(), 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
		r.Status("Rendered %s (%d blocks) to %s", page.Slug, len(page.Blocks), out)
		return nil
	}

	// The page itself is the natural piped form, so only an explicit json
	// mode wraps it.
	if output.Mode(cmdCtx.Cfg.OutputFormat) == output.ModeJSON {
		res := RenderOutput{
			Slug:   page.Slug,
			Title:  page.DisplayTitle(),
			Source: page.Source,
			Blocks: len(page.Blocks),
		}
		if format == "markdown" {
			res.Markdown = buf.String()
		} else {
			res.HTML = buf.String()
		}
		return r.JSON(res)
	}

	_, err = r.Writer().Write(buf.Bytes())
	return err
}

func renderPage(ctx context.Context, pr publish.Renderer, page *loadedPage, format string, fragment bool, w io.Writer) error {
	if format == "markdown" {
		title := page.DisplayTitle()
		if fragment {
			title = ""
		}
		md, err := pr.Markdown(ctx, title, page.Blocks)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, md)
		return err
	}

	if fragment {
		return pr.Sections(page.Blocks).Render(ctx, w)
	}
	return pr.Document(page.DisplayTitle(), page.Blocks).Render(ctx, w)
}
