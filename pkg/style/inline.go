package style

import (
	"strings"

	"github.com/leapstack-labs/pagecraft/pkg/responsive"
)

// Inline is an ordered set of inline style declarations. Setting a property
// again replaces its value in place.
type Inline []responsive.Decl

// Set assigns property.
func (in *Inline) Set(property, value string) {
	for i, d := range *in {
		if d.Property == property {
			(*in)[i].Value = value
			return
		}
	}
	*in = append(*in, responsive.Decl{Property: property, Value: value})
}

// Get returns the value of property.
func (in Inline) Get(property string) (string, bool) {
	for _, d := range in {
		if d.Property == property {
			return d.Value, true
		}
	}
	return "", false
}

// Merge returns in overlaid with other; other wins on conflicts.
func (in Inline) Merge(other Inline) Inline {
	out := make(Inline, len(in), len(in)+len(other))
	copy(out, in)
	for _, d := range other {
		out.Set(d.Property, d.Value)
	}
	return out
}

// String renders the declarations for a style attribute.
func (in Inline) String() string {
	parts := make([]string, len(in))
	for i, d := range in {
		parts[i] = d.Property + ":" + d.Value
	}
	return strings.Join(parts, ";")
}
