package responsive

// Field is one member of a group of declarations that share a breakpoint
// override pattern, such as padding-top and padding-bottom.
type Field struct {
	// Value holds the raw tokens per breakpoint.
	Value Value[string]
	// Resolve maps a token to declarations. A false result marks the token
	// as unresolvable.
	Resolve func(token string) ([]Decl, bool)
	// Default is used when base is missing or unresolvable. Nil means the
	// field contributes nothing to the unconditional rule in that case.
	Default []Decl
}

// baseResolved returns the declarations the field contributes without any
// viewport condition.
func (f Field) baseResolved() []Decl {
	if token, ok := f.Value[Base]; ok && token != "" {
		if decls, ok := f.Resolve(token); ok {
			return decls
		}
	}
	return f.Default
}

// at returns the field's declarations at bp and whether the field carries an
// explicit override there.
func (f Field) at(bp Breakpoint, base []Decl) ([]Decl, bool) {
	token, ok := f.Value[bp]
	if !ok || token == "" {
		return base, false
	}
	if decls, ok := f.Resolve(token); ok {
		return decls, true
	}
	return base, true
}

// Cascade emits the rules for a field group targeting selector.
//
// The first block is unconditional and uses each field's base value or its
// default. Then, for mobile, tablet and desktop in ascending order, a
// media-scoped block is emitted only if at least one field has an explicit
// value at that breakpoint. Fields without an override there are filled
// with their base-resolved declarations, not with the nearest narrower
// override: a tablet override of one field is therefore not carried into a
// desktop rule that exists only because a sibling field is overridden at
// desktop.
func Cascade(selector string, fields ...Field) Stylesheet {
	var sheet Stylesheet
	if selector == "" {
		return sheet
	}

	bases := make([][]Decl, len(fields))
	var unconditional []Decl
	for i, f := range fields {
		bases[i] = f.baseResolved()
		unconditional = append(unconditional, bases[i]...)
	}
	sheet.Add(Base, Rule{Selectors: []string{selector}, Decls: unconditional})

	for _, bp := range Overrides {
		var decls []Decl
		explicit := false
		for i, f := range fields {
			d, set := f.at(bp, bases[i])
			explicit = explicit || set
			decls = append(decls, d...)
		}
		if !explicit {
			continue
		}
		sheet.Add(bp, Rule{Selectors: []string{selector}, Decls: decls})
	}
	return sheet
}

// Expand emits, for every breakpoint in ascending order that carries a
// non-empty token, the rules fn returns for it. Breakpoints are independent:
// nothing is filled from base, and a token fn cannot resolve (nil rules)
// emits nothing.
func Expand(v Value[string], fn func(token string) []Rule) Stylesheet {
	var sheet Stylesheet
	for _, bp := range Breakpoints {
		token, ok := v[bp]
		if !ok || token == "" {
			continue
		}
		sheet.Add(bp, fn(token)...)
	}
	return sheet
}

// Lookup adapts a token table into a Field resolver emitting a single
// declaration for property.
func Lookup(property string, table map[string]string) func(string) ([]Decl, bool) {
	return func(token string) ([]Decl, bool) {
		v, ok := table[token]
		if !ok {
			return nil, false
		}
		return []Decl{{Property: property, Value: v}}, true
	}
}
