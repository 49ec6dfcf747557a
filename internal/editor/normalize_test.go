package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/pagecraft/pkg/block"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{
			name: "drops nulls",
			in:   map[string]any{"a": nil, "b": 1},
			want: map[string]any{"b": float64(1)},
		},
		{
			name: "drops row ids",
			in: map[string]any{"items": []any{
				map[string]any{"id": "0b6f2f1e-33a4-4c1b-9d7e-6f0f4c2b8a11", "label": "x"},
			}},
			want: map[string]any{"items": []any{map[string]any{"label": "x"}}},
		},
		{
			name: "keeps ids that are not uuids",
			in:   map[string]any{"id": "pricing"},
			want: map[string]any{"id": "pricing"},
		},
		{
			name: "keeps uuid values under other keys",
			in:   map[string]any{"ref": "0b6f2f1e-33a4-4c1b-9d7e-6f0f4c2b8a11"},
			want: map[string]any{"ref": "0b6f2f1e-33a4-4c1b-9d7e-6f0f4c2b8a11"},
		},
		{
			name: "scalars",
			in:   "text",
			want: "text",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_DoesNotModifyInput(t *testing.T) {
	in := map[string]any{"a": nil}
	Normalize(in)
	assert.Contains(t, in, "a")
}

func TestSnapshot_IgnoresKeyOrderAndRowIDs(t *testing.T) {
	a := block.Instance{Kind: "faq", BlockID: "faq-123456", Content: map[string]any{
		"heading": "Questions",
		"items": []any{
			map[string]any{"question": "Q", "answer": "A", "id": "9c1d0c52-8d7e-4b8e-9a47-3d2a1f0e6b55"},
		},
	}}
	b := block.Instance{Kind: "faq", BlockID: "faq-123456", Content: map[string]any{
		"items": []any{
			map[string]any{"answer": "A", "question": "Q"},
		},
		"heading": "Questions",
	}}
	assert.Equal(t, Snapshot(a), Snapshot(b))

	b.Content["heading"] = "Other"
	assert.NotEqual(t, Snapshot(a), Snapshot(b))
}
