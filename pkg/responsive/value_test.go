package responsive

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestResolveSingle(t *testing.T) {
	tests := []struct {
		name  string
		value Value[string]
		want  string
		found bool
	}{
		{"nil", nil, "", false},
		{"base wins", Value[string]{Desktop: "end", Base: "start"}, "start", true},
		{"declaration order", Value[string]{Desktop: "end", Tablet: "center"}, "center", true},
		{"explicit empty counts", Value[string]{Mobile: ""}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveSingle(tt.value)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultEntry(t *testing.T) {
	v := Value[int]{Desktop: 3, Tablet: 2}
	got, ok := DefaultEntry(v)
	require.True(t, ok)
	assert.Equal(t, 2, got)

	v[Base] = 0
	got, ok = DefaultEntry(v)
	require.True(t, ok)
	assert.Equal(t, 0, got)

	_, ok = DefaultEntry(Value[int]{})
	assert.False(t, ok)
}

func TestValue_Has(t *testing.T) {
	assert.False(t, Value[float64](nil).Has())
	assert.True(t, Value[float64]{Base: 0}.Has())
	assert.True(t, Value[float64]{Tablet: 0.5}.Has())
	assert.False(t, Value[float64]{}.Has())
}

func TestValue_Encoding(t *testing.T) {
	v := Value[string]{Base: "sm", Desktop: "xl"}

	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"base":"sm","desktop":"xl"}`, string(data))

	var fromYAML Value[string]
	require.NoError(t, yaml.Unmarshal([]byte("base: md\ntablet: lg\n"), &fromYAML))
	assert.Equal(t, Value[string]{Base: "md", Tablet: "lg"}, fromYAML)
}

func TestBreakpoint(t *testing.T) {
	assert.Equal(t, "", Base.MediaQuery())
	assert.Equal(t, "@media (min-width: 768px)", Tablet.MediaQuery())
	assert.Equal(t, 640, Mobile.MinWidth())

	next, ok := Mobile.Next()
	assert.True(t, ok)
	assert.Equal(t, Tablet, next)
	_, ok = Desktop.Next()
	assert.False(t, ok)

	_, err := ParseBreakpoint("full")
	assert.Error(t, err)
	bp, err := ParseBreakpoint("tablet")
	require.NoError(t, err)
	assert.Equal(t, Tablet, bp)

	prev := Base.MinWidth()
	for _, bp := range Overrides {
		assert.Greater(t, bp.MinWidth(), prev, "threshold of %s", bp)
		prev = bp.MinWidth()
	}
}
