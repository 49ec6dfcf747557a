// Package document owns the ordered block list of one page and the current
// selection. Every structural change goes through the Controller; edit
// sessions only propose replacement values through Update.
package document

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/leapstack-labs/pagecraft/pkg/block"
)

// Sentinel errors.
var (
	ErrIndexOutOfRange = errors.New("block index out of range")
	ErrPresetLocked    = errors.New("block style is locked")
	ErrUnknownPreset   = errors.New("unknown style preset")
)

// NoSelection is the selected index when no block is being edited.
const NoSelection = -1

// Factory creates the starter block for a kind.
type Factory interface {
	NewBlock(kind block.Kind) (block.Instance, error)
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for structural mutations.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPresets sets the style preset catalogue used by ApplyPreset.
func WithPresets(p *Presets) Option {
	return func(c *Controller) {
		c.presets = p
	}
}

// Controller is the single owner of a document's blocks. It is not safe for
// concurrent use; callers serialize access (see editor.Loop).
type Controller struct {
	blocks   []block.Instance
	selected int
	version  uint64

	factory Factory
	presets *Presets
	logger  *slog.Logger
}

// New returns a controller over a copy of blocks. The first block is
// selected when there is one.
func New(blocks []block.Instance, factory Factory, opts ...Option) *Controller {
	c := &Controller{
		blocks:   cloneAll(blocks),
		selected: NoSelection,
		factory:  factory,
		presets:  BuiltinPresets(),
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	if len(c.blocks) > 0 {
		c.selected = 0
	}
	return c
}

// Len returns the number of blocks.
func (c *Controller) Len() int {
	return len(c.blocks)
}

// Blocks returns a copy of the block list.
func (c *Controller) Blocks() []block.Instance {
	return cloneAll(c.blocks)
}

// Block returns a copy of the block at i.
func (c *Controller) Block(i int) (block.Instance, error) {
	if err := c.check(i); err != nil {
		return block.Instance{}, err
	}
	return c.blocks[i].Clone(), nil
}

// Selected returns the selected index, or NoSelection.
func (c *Controller) Selected() int {
	return c.selected
}

// SelectedBlock returns the selected block, if any.
func (c *Controller) SelectedBlock() (block.Instance, bool) {
	if c.selected == NoSelection {
		return block.Instance{}, false
	}
	return c.blocks[c.selected].Clone(), true
}

// Version identifies the current block structure. It changes on every
// structural mutation, so a preview keyed by it remounts from scratch.
func (c *Controller) Version() uint64 {
	return c.version
}

// Select changes the selection. NoSelection deselects.
func (c *Controller) Select(i int) error {
	if i != NoSelection {
		if err := c.check(i); err != nil {
			return err
		}
	}
	c.selected = i
	return nil
}

// Append adds a starter block of kind at the end and selects it.
func (c *Controller) Append(kind block.Kind) (block.Instance, error) {
	b, err := c.factory.NewBlock(kind)
	if err != nil {
		return block.Instance{}, fmt.Errorf("failed to create %s block: %w", kind, err)
	}
	c.blocks = append(c.blocks, b)
	c.selected = len(c.blocks) - 1
	c.bump("append", "kind", string(kind))
	return b.Clone(), nil
}

// Move shifts the block at i by delta positions and selects it. Moving
// past either end is a no-op.
func (c *Controller) Move(i, delta int) error {
	if err := c.check(i); err != nil {
		return err
	}
	target := i + delta
	if target < 0 || target >= len(c.blocks) || delta == 0 {
		return nil
	}
	item := c.blocks[i]
	c.blocks = slices.Delete(c.blocks, i, i+1)
	c.blocks = slices.Insert(c.blocks, target, item)
	c.selected = target
	c.bump("move", "from", i, "to", target)
	return nil
}

// Duplicate inserts a copy of the block at i right after it, with a new
// identity, and selects the copy.
func (c *Controller) Duplicate(i int) (block.Instance, error) {
	if err := c.check(i); err != nil {
		return block.Instance{}, err
	}
	dup := c.blocks[i].Duplicate()
	c.blocks = slices.Insert(c.blocks, i+1, dup)
	c.selected = i + 1
	c.bump("duplicate", "index", i, "block", dup.BlockID)
	return dup.Clone(), nil
}

// Remove deletes the block at i. A selection on the removed block moves to
// the block that took its place, or the new last block.
func (c *Controller) Remove(i int) error {
	if err := c.check(i); err != nil {
		return err
	}
	c.blocks = slices.Delete(c.blocks, i, i+1)
	switch {
	case c.selected == i:
		c.selected = min(i, len(c.blocks)-1)
	case c.selected > i:
		c.selected--
	}
	c.selected = c.clamp(c.selected)
	c.bump("remove", "index", i)
	return nil
}

// Update replaces the block at i with b. Content edits keep the version.
func (c *Controller) Update(i int, b block.Instance) error {
	if err := c.check(i); err != nil {
		return err
	}
	c.blocks[i] = b.Clone()
	c.logger.Debug("block updated", "index", i, "block", b.BlockID)
	return nil
}

// IndexOf returns the index of the block with blockID, or -1.
func (c *Controller) IndexOf(blockID string) int {
	return slices.IndexFunc(c.blocks, func(b block.Instance) bool {
		return b.BlockID == blockID
	})
}

// Replace swaps the whole block list, as when the page is reloaded from
// storage. The selection follows the selected block when it is still
// present. Otherwise the index is kept when still in range and clamped
// when not; a non-empty document always ends up with a selection.
func (c *Controller) Replace(blocks []block.Instance) {
	var prevID string
	if b, ok := c.SelectedBlock(); ok {
		prevID = b.BlockID
	}
	c.blocks = cloneAll(blocks)
	switch i := c.IndexOf(prevID); {
	case prevID != "" && i >= 0:
		c.selected = i
	case len(c.blocks) == 0:
		c.selected = NoSelection
	case c.selected < 0:
		c.selected = 0
	case c.selected > len(c.blocks)-1:
		c.selected = len(c.blocks) - 1
	}
	c.bump("replace", "blocks", len(c.blocks))
}

// ApplyPreset replaces the style of the block at i with a copy of the
// preset's style.
func (c *Controller) ApplyPreset(i int, presetID string) error {
	if err := c.check(i); err != nil {
		return err
	}
	b := c.blocks[i]
	if b.Advanced != nil && b.Advanced.PresetLock {
		return fmt.Errorf("block %d: %w", i, ErrPresetLocked)
	}
	p, ok := c.presets.Lookup(presetID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPreset, presetID)
	}
	b = b.Clone()
	b.Style = p.Apply()
	c.blocks[i] = b
	c.bump("preset", "index", i, "preset", presetID)
	return nil
}

// Presets returns the catalogue used by ApplyPreset.
func (c *Controller) Presets() *Presets {
	return c.presets
}

func (c *Controller) check(i int) error {
	if i < 0 || i >= len(c.blocks) {
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, i, len(c.blocks))
	}
	return nil
}

func (c *Controller) clamp(i int) int {
	return max(NoSelection, min(i, len(c.blocks)-1))
}

func (c *Controller) bump(op string, args ...any) {
	c.version++
	c.logger.Debug("document "+op, append(args, "version", c.version)...)
}

func cloneAll(blocks []block.Instance) []block.Instance {
	out := make([]block.Instance, len(blocks))
	for i, b := range blocks {
		out[i] = b.Clone()
	}
	return out
}
