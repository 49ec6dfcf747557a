// Package publish renders whole pages: every block section in order,
// optionally wrapped in a standalone HTML document.
package publish

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/pagecraft/internal/blocks"
	"github.com/leapstack-labs/pagecraft/internal/ui/resources"
	"github.com/leapstack-labs/pagecraft/pkg/block"
	"github.com/leapstack-labs/pagecraft/pkg/style"
)

// Renderer turns blocks into sections.
type Renderer struct {
	Registry *blocks.Registry
	Resolver *style.Resolver
}

// Sections renders the blocks in order.
func (r Renderer) Sections(list []block.Instance) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, b := range list {
			if err := r.Registry.Render(r.Resolver, b).Render(ctx, w); err != nil {
				return fmt.Errorf("failed to render block %s: %w", b.BlockID, err)
			}
		}
		return nil
	})
}

// Document renders a standalone HTML page. The base stylesheet and the
// animation script are inlined so the output has no dependencies.
func (r Renderer) Document(title string, list []block.Instance) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		css, err := resources.Asset("pagecraft.css")
		if err != nil {
			return err
		}
		script, err := resources.Asset("animate.js")
		if err != nil {
			return err
		}
		return document(title, string(css), string(script), r.Sections(list)).Render(ctx, w)
	})
}
