package document

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/pagecraft/internal/blocks"
	"github.com/leapstack-labs/pagecraft/internal/testutil"
	"github.com/leapstack-labs/pagecraft/pkg/block"
	"github.com/leapstack-labs/pagecraft/pkg/style"
)

func sample(n int) []block.Instance {
	out := make([]block.Instance, n)
	for i := range out {
		out[i] = block.Instance{
			Kind:    blocks.KindRichText,
			BlockID: fmt.Sprintf("block-%d00000", i),
			Content: map[string]any{"markdown": fmt.Sprintf("Block %d", i)},
		}
	}
	return out
}

func ids(c *Controller) []string {
	var out []string
	for _, b := range c.Blocks() {
		out = append(out, b.BlockID)
	}
	return out
}

func newController(t *testing.T, blocksIn []block.Instance) *Controller {
	t.Helper()
	return New(blocksIn, blocks.NewRegistry(), WithLogger(testutil.NewTestLogger(t)))
}

func TestNew_SelectsFirstBlock(t *testing.T) {
	assert.Equal(t, 0, newController(t, sample(2)).Selected())
	assert.Equal(t, NoSelection, newController(t, nil).Selected())
}

func TestNew_CopiesInput(t *testing.T) {
	in := sample(1)
	c := newController(t, in)
	in[0].Content["markdown"] = "changed"

	b, err := c.Block(0)
	require.NoError(t, err)
	assert.Equal(t, "Block 0", b.Text("markdown"))
}

func TestAppend(t *testing.T) {
	c := newController(t, sample(2))

	b, err := c.Append(blocks.KindFAQ)
	require.NoError(t, err)

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, 2, c.Selected())
	assert.Equal(t, blocks.KindFAQ, b.Kind)
	assert.NotEmpty(t, b.BlockID)
	assert.Equal(t, uint64(1), c.Version())

	_, err = c.Append("carousel")
	require.ErrorIs(t, err, blocks.ErrUnknownKind)
	assert.Equal(t, 3, c.Len())
}

func TestMove(t *testing.T) {
	tests := []struct {
		name     string
		index    int
		delta    int
		want     []string
		selected int
		version  uint64
	}{
		{"down", 0, 1, []string{"block-100000", "block-000000", "block-200000"}, 1, 1},
		{"up", 2, -1, []string{"block-000000", "block-200000", "block-100000"}, 1, 1},
		{"past top", 0, -1, []string{"block-000000", "block-100000", "block-200000"}, 0, 0},
		{"past bottom", 2, 1, []string{"block-000000", "block-100000", "block-200000"}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newController(t, sample(3))
			require.NoError(t, c.Move(tt.index, tt.delta))
			assert.Equal(t, tt.want, ids(c))
			assert.Equal(t, tt.selected, c.Selected())
			assert.Equal(t, tt.version, c.Version())
		})
	}

	c := newController(t, sample(1))
	assert.ErrorIs(t, c.Move(3, 1), ErrIndexOutOfRange)
}

func TestDuplicate_MintsNewIdentity(t *testing.T) {
	c := newController(t, sample(2))

	dup, err := c.Duplicate(0)
	require.NoError(t, err)

	all := c.Blocks()
	require.Len(t, all, 3)
	assert.Equal(t, 1, c.Selected())
	assert.NotEqual(t, all[0].BlockID, all[1].BlockID)
	assert.Equal(t, dup.BlockID, all[1].BlockID)
	assert.Equal(t, all[0].Content, all[1].Content)
	assert.Equal(t, "block-100000", all[2].BlockID)

	assert.NotEqual(t, style.DomID(all[0]), style.DomID(all[1]))
}

func TestRemove_Selection(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		selected int
		remove   int
		want     int
	}{
		{"selected last block", 3, 2, 2, 1},
		{"selected middle block", 3, 1, 1, 1},
		{"selection after removed", 3, 2, 0, 1},
		{"selection before removed", 3, 0, 2, 0},
		{"only block", 1, 0, 0, NoSelection},
		{"nothing selected", 2, NoSelection, 0, NoSelection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newController(t, sample(tt.n))
			require.NoError(t, c.Select(tt.selected))
			require.NoError(t, c.Remove(tt.remove))
			assert.Equal(t, tt.want, c.Selected())
			assert.Equal(t, tt.n-1, c.Len())
		})
	}
}

func TestSelect(t *testing.T) {
	c := newController(t, sample(2))

	require.NoError(t, c.Select(1))
	b, ok := c.SelectedBlock()
	require.True(t, ok)
	assert.Equal(t, "block-100000", b.BlockID)

	require.NoError(t, c.Select(NoSelection))
	_, ok = c.SelectedBlock()
	assert.False(t, ok)

	assert.ErrorIs(t, c.Select(2), ErrIndexOutOfRange)
	assert.ErrorIs(t, c.Select(-2), ErrIndexOutOfRange)
}

func TestUpdate_KeepsVersion(t *testing.T) {
	c := newController(t, sample(2))

	next := sample(1)[0]
	next.Content["markdown"] = "Edited"
	require.NoError(t, c.Update(0, next))

	b, err := c.Block(0)
	require.NoError(t, err)
	assert.Equal(t, "Edited", b.Text("markdown"))
	assert.Zero(t, c.Version())

	next.Content["markdown"] = "mutated after update"
	b, _ = c.Block(0)
	assert.Equal(t, "Edited", b.Text("markdown"))

	assert.ErrorIs(t, c.Update(5, next), ErrIndexOutOfRange)
}

func TestReplace_ClampsSelection(t *testing.T) {
	c := newController(t, sample(3))
	require.NoError(t, c.Select(2))

	c.Replace(sample(2))
	assert.Equal(t, 1, c.Selected())

	c.Replace(nil)
	assert.Equal(t, NoSelection, c.Selected())

	c.Replace(sample(2))
	assert.Equal(t, 0, c.Selected())
	assert.Equal(t, uint64(3), c.Version())
}

func TestReplace_FollowsSelectedBlock(t *testing.T) {
	c := newController(t, sample(3))
	require.NoError(t, c.Select(2))

	blocks := c.Blocks()
	c.Replace([]block.Instance{blocks[2], blocks[0]})
	assert.Equal(t, 0, c.Selected())

	b, ok := c.SelectedBlock()
	require.True(t, ok)
	assert.Equal(t, "block-200000", b.BlockID)
}

func TestIndexOf(t *testing.T) {
	c := newController(t, sample(3))
	assert.Equal(t, 2, c.IndexOf("block-200000"))
	assert.Equal(t, -1, c.IndexOf("missing"))
}

func TestApplyPreset(t *testing.T) {
	c := newController(t, sample(2))

	require.NoError(t, c.ApplyPreset(0, "muted"))
	b, _ := c.Block(0)
	require.NotNil(t, b.Style)
	assert.Equal(t, "muted", b.Style.PresetID)
	assert.Equal(t, block.BackgroundSolid, b.Style.Background.Variant)

	// The applied style is a copy of the preset.
	preset, _ := c.Presets().Lookup("muted")
	b.Style.Background.Color["base"] = "#000"
	assert.Equal(t, "#f4f4f5", preset.Style.Background.Color["base"])

	assert.ErrorIs(t, c.ApplyPreset(0, "nope"), ErrUnknownPreset)

	locked := sample(1)[0]
	locked.Advanced = &block.Advanced{PresetLock: true}
	require.NoError(t, c.Update(1, locked))
	assert.ErrorIs(t, c.ApplyPreset(1, "muted"), ErrPresetLocked)
}
