package responsive

// Value maps breakpoints to values of T. A missing key means "not set";
// zero values stored under a key are explicit.
type Value[T any] map[Breakpoint]T

// Of builds a Value holding only a base entry.
func Of[T any](base T) Value[T] {
	return Value[T]{Base: base}
}

// Get returns the explicit value at bp.
func (v Value[T]) Get(bp Breakpoint) (T, bool) {
	t, ok := v[bp]
	return t, ok
}

// Has reports whether any breakpoint carries a value.
func (v Value[T]) Has() bool {
	for _, bp := range Breakpoints {
		if _, ok := v[bp]; ok {
			return true
		}
	}
	return false
}

// Clone returns a shallow copy of v. Entries are copied by value.
func (v Value[T]) Clone() Value[T] {
	if v == nil {
		return nil
	}
	out := make(Value[T], len(v))
	for k, t := range v {
		out[k] = t
	}
	return out
}

// ResolveSingle returns the first defined value scanning base, mobile,
// tablet, desktop. It is not viewport-aware: use it only where a single
// non-responsive decision must be made once, and treat the result as a
// best-effort default.
func ResolveSingle[T any](v Value[T]) (T, bool) {
	for _, bp := range Breakpoints {
		if t, ok := v[bp]; ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

// DefaultEntry picks the entry used as the unconditional inline default for
// media-like values: the explicit base entry, else the first present entry
// scanning mobile, tablet, desktop. Per-breakpoint overrides are emitted
// separately by the caller, independent of this choice.
func DefaultEntry[T any](v Value[T]) (T, bool) {
	if t, ok := v[Base]; ok {
		return t, true
	}
	for _, bp := range Overrides {
		if t, ok := v[bp]; ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}
