package iface

// Hidden reports whether the option is hidden for the given form values.
// The first condition whose rule matches decides; otherwise Meta.Hidden applies.
func (o Option) Hidden(values map[string]any) bool {
	for _, c := range o.Meta.Conditions {
		if c.Rule.Matches(values) {
			return c.Hidden
		}
	}
	return o.Meta.Hidden
}

// Visible is the negation of Hidden.
func (o Option) Visible(values map[string]any) bool {
	return !o.Hidden(values)
}

// Dependencies returns the option keys referenced by o's conditions.
func (o Option) Dependencies() []string {
	var deps []string
	seen := map[string]struct{}{}
	for _, c := range o.Meta.Conditions {
		if _, ok := seen[c.Rule.Field]; ok {
			continue
		}
		seen[c.Rule.Field] = struct{}{}
		deps = append(deps, c.Rule.Field)
	}
	return deps
}
