package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/pagecraft/pkg/block"
)

func TestNormalize(t *testing.T) {
	in := []block.Instance{
		{Kind: "hero", BlockID: "hero-abcdef", Content: map[string]any{"heading": "x"}},
		{Kind: "hero", BlockID: "abc"},
		{Kind: "quote", BlockID: "quote-123456", Content: map[string]any{
			"quote":  "Hi",
			"avatar": map[string]any{"src": " "},
		}},
		{Kind: "richText"},
	}

	out, repairs := Normalize(in)

	assert.Equal(t, Repairs{IDs: 2, Content: 1}, repairs)
	assert.True(t, repairs.Changed())

	assert.Equal(t, "hero-abcdef", out[0].BlockID)
	assert.NotEqual(t, "abc", out[1].BlockID)
	assert.GreaterOrEqual(t, len(out[1].BlockID), block.MinIDLength)
	assert.NotEmpty(t, out[3].BlockID)
	assert.Equal(t, map[string]any{"quote": "Hi"}, out[2].Content)

	// Input is untouched.
	assert.Equal(t, "abc", in[1].BlockID)
	assert.Contains(t, in[2].Content, "avatar")
}

func TestNormalize_RepeatedIDs(t *testing.T) {
	in := []block.Instance{
		{Kind: "richText", BlockID: "same-id-123"},
		{Kind: "richText", BlockID: "same-id-123"},
		{Kind: "quote", BlockID: "same-id-123"},
	}

	out, repairs := Normalize(in)

	assert.Equal(t, 2, repairs.IDs)
	assert.Equal(t, "same-id-123", out[0].BlockID)
	assert.NotEqual(t, out[0].BlockID, out[1].BlockID)
	assert.NotEqual(t, out[1].BlockID, out[2].BlockID)
	assert.NotEqual(t, out[0].BlockID, out[2].BlockID)
}

func TestNormalize_CleanInput(t *testing.T) {
	in := []block.Instance{{Kind: "hero", BlockID: "hero-abcdef"}}
	_, repairs := Normalize(in)
	assert.False(t, repairs.Changed())
}
