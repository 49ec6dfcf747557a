package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/pagecraft/internal/blocks"
	"github.com/leapstack-labs/pagecraft/internal/cli/output"
	"github.com/leapstack-labs/pagecraft/internal/stylecheck"
	"github.com/leapstack-labs/pagecraft/pkg/block"
	"github.com/leapstack-labs/pagecraft/pkg/style"
	"github.com/leapstack-labs/pagecraft/pkg/surface"
)

// errCheckFailed is returned when a page has content or style errors.
var errCheckFailed = errors.New("page check failed")

// BlockCheck is the result of checking one block.
type BlockCheck struct {
	Index   int                 `json:"index"`
	Kind    block.Kind          `json:"kind"`
	BlockID string              `json:"blockId"`
	Content []blocks.FieldIssue `json:"content,omitempty"`
	Style   stylecheck.Report   `json:"style"`
}

// OK reports whether the block has no content issues and no style errors.
func (c BlockCheck) OK() bool {
	return len(c.Content) == 0 && !c.Style.HasErrors()
}

// CheckOutput is the JSON form of a page check.
type CheckOutput struct {
	Slug   string       `json:"slug"`
	Source string       `json:"source"`
	OK     bool         `json:"ok"`
	Blocks []BlockCheck `json:"blocks"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <page>",
		Short: "Validate a page's content and generated CSS",
		Long: `Validate every block of a page.

Content is checked against the block kind's schema. The scoped stylesheet
each block renders with is parsed and checked for malformed rules,
unsorted media queries and declarations outside the block's scope.

Exits non-zero when any block has a content issue or a CSS error.
Warnings are reported but do not fail the check.`,
		Example: `  # Check a page in the pages directory
  pagecraft check landing

  # Check a file and emit JSON
  pagecraft check ./drafts/about.yaml -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args[0])
		},
	}
	return cmd
}

func runCheck(cmd *cobra.Command, arg string) error {
	cmdCtx := NewCommandContextWithoutStore(cmd)
	r := cmdCtx.Renderer

	page, err := loadPage(cmd.Context(), cmdCtx, arg)
	if err != nil {
		return err
	}

	results := checkBlocks(blocks.NewRegistry(), cmdCtx.Cfg.Resolver(), page.Blocks)
	ok := true
	for _, res := range results {
		ok = ok && res.OK()
	}
	cmdCtx.Logger.Debug("checked page", "slug", page.Slug, "blocks", len(results), "ok", ok)

	if r.EffectiveMode() == output.ModeJSON {
		if err := r.JSON(CheckOutput{Slug: page.Slug, Source: page.Source, OK: ok, Blocks: results}); err != nil {
			return err
		}
	} else {
		printCheck(r, results)
	}

	if !ok {
		return fmt.Errorf("%w: %s", errCheckFailed, page.Slug)
	}
	r.Status("%s: %d blocks OK", page.Slug, len(results))
	return nil
}

func checkBlocks(reg *blocks.Registry, res *style.Resolver, list []block.Instance) []BlockCheck {
	results := make([]BlockCheck, 0, len(list))
	for i, b := range list {
		check := BlockCheck{Index: i, Kind: b.Kind, BlockID: b.BlockID}

		var opts surface.Options
		if def, err := reg.Lookup(b.Kind); err == nil {
			opts = def.Surface
		}
		if _, err := reg.Validate(b); err != nil {
			var ve *blocks.ValidationError
			if errors.As(err, &ve) {
				check.Content = ve.Issues
			} else {
				check.Content = []blocks.FieldIssue{{Message: err.Error()}}
			}
		}
		check.Style = stylecheck.Check(surface.Assemble(res, b, opts).CSS())
		results = append(results, check)
	}
	return results
}

func printCheck(r *output.Renderer, results []BlockCheck) {
	rows := make([][]string, 0, len(results))
	for _, res := range results {
		status := "ok"
		if !res.OK() {
			status = "FAIL"
		}
		rows = append(rows, []string{
			strconv.Itoa(res.Index),
			string(res.Kind),
			res.BlockID,
			strconv.Itoa(res.Style.Rules),
			strconv.Itoa(res.Style.MediaBlocks),
			status,
		})
	}
	r.Table([]string{"#", "KIND", "BLOCK", "RULES", "MEDIA", "STATUS"}, rows)

	for _, res := range results {
		for _, is := range res.Content {
			field := is.Field
			if field == "" {
				field = "block"
			}
			r.Printf("%d %s: content %s %s\n", res.Index, res.BlockID, field, is.Message)
		}
		for _, is := range res.Style.Issues {
			r.Printf("%d %s: css %s\n", res.Index, res.BlockID, is)
		}
	}
}
