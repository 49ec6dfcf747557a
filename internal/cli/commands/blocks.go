package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/pagecraft/internal/blocks"
	"github.com/leapstack-labs/pagecraft/internal/cli/output"
)

// BlockKindOutput describes a block kind in JSON output.
type BlockKindOutput struct {
	Kind        string         `json:"kind"`
	Label       string         `json:"label"`
	Category    string         `json:"category"`
	Description string         `json:"description"`
	Defaults    map[string]any `json:"defaults,omitempty"`
}

// NewBlocksCommand creates the blocks command.
func NewBlocksCommand() *cobra.Command {
	var category string
	var defaults bool

	cmd := &cobra.Command{
		Use:   "blocks",
		Short: "List the available block kinds",
		Long: `List every block kind that pages can use, grouped by category.

With --defaults the JSON output includes each kind's starter content.`,
		Example: `  pagecraft blocks
  pagecraft blocks --category social
  pagecraft blocks -o json --defaults`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBlocks(cmd, category, defaults)
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Only list kinds in this category")
	cmd.Flags().BoolVar(&defaults, "defaults", false, "Include starter content in JSON output")

	return cmd
}

func runBlocks(cmd *cobra.Command, category string, defaults bool) error {
	r := NewCommandContextWithoutStore(cmd).Renderer
	reg := blocks.NewRegistry()

	defs := reg.Definitions()
	if category != "" {
		defs = reg.ByCategory(blocks.Category(strings.ToLower(category)))
	}

	if r.EffectiveMode() == output.ModeJSON {
		out := make([]BlockKindOutput, 0, len(defs))
		for _, d := range defs {
			k := BlockKindOutput{
				Kind:        string(d.Kind),
				Label:       d.Label,
				Category:    string(d.Category),
				Description: d.Description,
			}
			if defaults {
				k.Defaults = d.DefaultContent()
			}
			out = append(out, k)
		}
		return r.JSON(out)
	}

	rows := make([][]string, 0, len(defs))
	for _, d := range defs {
		rows = append(rows, []string{string(d.Category), string(d.Kind), d.Label, d.Description})
	}
	r.Table([]string{"CATEGORY", "KIND", "LABEL", "DESCRIPTION"}, rows)
	return nil
}
