package loader

import (
	"github.com/leapstack-labs/pagecraft/internal/blocks"
	"github.com/leapstack-labs/pagecraft/pkg/block"
)

// Repairs counts what Normalize changed.
type Repairs struct {
	// IDs is the number of blocks that received a new identity.
	IDs int
	// Content is the number of blocks whose content was sanitized.
	Content int
}

// Changed reports whether anything was repaired.
func (r Repairs) Changed() bool {
	return r.IDs > 0 || r.Content > 0
}

// Normalize prepares loaded blocks for editing: every block gets a stable
// identity that is unique within the page and its content is sanitized.
// The first block keeps a repeated id. The input is not modified.
func Normalize(in []block.Instance) ([]block.Instance, Repairs) {
	var r Repairs
	out := make([]block.Instance, len(in))
	seen := make(map[string]bool, len(in))
	for i, b := range in {
		b = b.Clone()
		if b.EnsureIdentity() {
			r.IDs++
		} else if seen[b.BlockID] {
			b.BlockID = block.NewID()
			r.IDs++
		}
		seen[b.BlockID] = true
		if content, changed := blocks.SanitizeContent(b.Content); changed {
			b.Content = content
			r.Content++
		}
		out[i] = b
	}
	return out, r
}
