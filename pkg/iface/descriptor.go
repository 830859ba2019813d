// Package iface describes custom field interfaces for the admin panel.
//
// A Descriptor tells the host how to offer a field type: which storage types
// it attaches to, which renderer to mount and which options its own settings
// form shows. Descriptors are plain data; the host evaluates their visibility
// rules and validates them.
package iface

// Width hints for option controls in the settings form.
const (
	WidthFull = "full"
	WidthHalf = "half"
)

// Component is the handle of the renderer mounted for a field interface.
// Rendering itself is provided by the host.
type Component interface {
	ComponentName() string
}

// NamedComponent is a Component identified only by its registered name.
type NamedComponent string

// ComponentName implements Component.
func (c NamedComponent) ComponentName() string { return string(c) }

// Descriptor is the declarative definition of a field interface.
type Descriptor struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Icon        string    `json:"icon,omitempty" yaml:"icon,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Component   Component `json:"-" yaml:"-"`
	Types       []string  `json:"types" yaml:"types"`
	Group       string    `json:"group,omitempty" yaml:"group,omitempty"`
	Options     []Option  `json:"options" yaml:"options"`
}

// Option is a single control of the interface's settings form.
type Option struct {
	Field  string        `json:"field" yaml:"field"`
	Name   string        `json:"name" yaml:"name"`
	Type   string        `json:"type" yaml:"type"`
	Meta   OptionMeta    `json:"meta" yaml:"meta"`
	Schema *OptionSchema `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// OptionMeta holds the UI metadata of an option.
type OptionMeta struct {
	Width      string         `json:"width,omitempty" yaml:"width,omitempty"`
	Interface  string         `json:"interface,omitempty" yaml:"interface,omitempty"`
	Note       string         `json:"note,omitempty" yaml:"note,omitempty"`
	Options    map[string]any `json:"options,omitempty" yaml:"options,omitempty"`
	Required   bool           `json:"required,omitempty" yaml:"required,omitempty"`
	Hidden     bool           `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Conditions []Condition    `json:"conditions,omitempty" yaml:"conditions,omitempty"`
}

// OptionSchema describes how the option value is stored.
type OptionSchema struct {
	DefaultValue any `json:"default_value" yaml:"default_value"`
}

// Condition overrides an option's hidden state while Rule matches.
type Condition struct {
	Rule   Rule `json:"rule" yaml:"rule"`
	Hidden bool `json:"hidden" yaml:"hidden"`
}

// Option returns the option with the given key.
func (d Descriptor) Option(field string) (Option, bool) {
	for _, o := range d.Options {
		if o.Field == field {
			return o, true
		}
	}
	return Option{}, false
}

// OptionKeys returns option keys in form order.
func (d Descriptor) OptionKeys() []string {
	keys := make([]string, len(d.Options))
	for i, o := range d.Options {
		keys[i] = o.Field
	}
	return keys
}

// ComponentName returns the renderer handle name or "" when unset.
func (d Descriptor) ComponentName() string {
	if d.Component == nil {
		return ""
	}
	return d.Component.ComponentName()
}

// Bool reports whether the nested option flag key is set to true.
func (m OptionMeta) Bool(key string) bool {
	v, ok := m.Options[key].(bool)
	return ok && v
}

// String returns the nested option key as a string.
func (m OptionMeta) String(key string) string {
	s, _ := m.Options[key].(string)
	return s
}

// Default returns the schema default value, if any.
func (o Option) Default() (any, bool) {
	if o.Schema == nil {
		return nil, false
	}
	return o.Schema.DefaultValue, true
}

// Clone returns a deep copy of d. The component handle is shared.
func (d Descriptor) Clone() Descriptor {
	out := d
	out.Types = append([]string(nil), d.Types...)
	if d.Options != nil {
		out.Options = make([]Option, len(d.Options))
		for i, o := range d.Options {
			out.Options[i] = o.clone()
		}
	}
	return out
}

func (o Option) clone() Option {
	out := o
	if o.Meta.Options != nil {
		out.Meta.Options = make(map[string]any, len(o.Meta.Options))
		for k, v := range o.Meta.Options {
			out.Meta.Options[k] = v
		}
	}
	if o.Meta.Conditions != nil {
		out.Meta.Conditions = make([]Condition, len(o.Meta.Conditions))
		for i, c := range o.Meta.Conditions {
			out.Meta.Conditions[i] = Condition{Rule: c.Rule.clone(), Hidden: c.Hidden}
		}
	}
	if o.Schema != nil {
		s := *o.Schema
		out.Schema = &s
	}
	return out
}
