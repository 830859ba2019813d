// Package form evaluates an interface's settings form against submitted
// values: defaults, conditional visibility and required-field validation.
package form

import (
	"fmt"
	"strings"

	"github.com/faciam-dev/urlpreview/pkg/iface"
)

// FieldState is the effective state of one option.
type FieldState struct {
	Field    string `json:"field"`
	Value    any    `json:"value"`
	Hidden   bool   `json:"hidden"`
	Required bool   `json:"required"`
}

// State is the evaluated form in option order.
type State struct {
	Interface string       `json:"interface"`
	Fields    []FieldState `json:"fields"`
}

// Field returns the state of the given option.
func (s State) Field(key string) (FieldState, bool) {
	for _, f := range s.Fields {
		if f.Field == key {
			return f, true
		}
	}
	return FieldState{}, false
}

// Values returns the evaluated values keyed by option.
func (s State) Values() map[string]any {
	out := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		out[f.Field] = f.Value
	}
	return out
}

// WithDefaults copies values and fills unset options from their schema default.
func WithDefaults(d iface.Descriptor, values map[string]any) map[string]any {
	out := make(map[string]any, len(values)+len(d.Options))
	for k, v := range values {
		out[k] = v
	}
	for _, o := range d.Options {
		if _, ok := out[o.Field]; ok {
			continue
		}
		if def, ok := o.Default(); ok {
			out[o.Field] = def
		}
	}
	return out
}

// Evaluate resolves every option of d for the submitted values. It is a pure
// function and is meant to be called on every re-render.
func Evaluate(d iface.Descriptor, values map[string]any) State {
	vals := normalize(d, WithDefaults(d, values))
	st := State{Interface: d.ID, Fields: make([]FieldState, 0, len(d.Options))}
	for _, o := range d.Options {
		st.Fields = append(st.Fields, FieldState{
			Field:    o.Field,
			Value:    vals[o.Field],
			Hidden:   o.Hidden(vals),
			Required: o.Meta.Required,
		})
	}
	return st
}

// Validate applies trimming and required checks. Hidden options are never
// required. The trimmed values are returned alongside any errors.
func Validate(d iface.Descriptor, values map[string]any) (map[string]any, error) {
	vals := normalize(d, WithDefaults(d, values))
	var errs ValidationErrors
	for _, o := range d.Options {
		v, set := vals[o.Field]
		if s, ok := v.(string); ok && o.Meta.Bool("trim") {
			v = strings.TrimSpace(s)
			vals[o.Field] = v
		}
		if !o.Meta.Required || o.Hidden(vals) {
			continue
		}
		if !set || isEmpty(v) {
			errs = append(errs, FieldError{Field: o.Field, Message: fmt.Sprintf("%s is required", label(o))})
		}
	}
	if len(errs) > 0 {
		return vals, errs
	}
	return vals, nil
}

// normalize converts form-encoded booleans on boolean options.
func normalize(d iface.Descriptor, vals map[string]any) map[string]any {
	for _, o := range d.Options {
		if o.Type != "boolean" {
			continue
		}
		if v, ok := vals[o.Field]; ok {
			if b, ok := iface.AsBool(v); ok {
				vals[o.Field] = b
			}
		}
	}
	return vals
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}
	return false
}

func label(o iface.Option) string {
	if o.Name != "" {
		return o.Name
	}
	return o.Field
}
