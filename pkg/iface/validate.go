package iface

import (
	"errors"
	"fmt"
)

// SchemaError reports a structural problem in a descriptor.
type SchemaError struct {
	ID     string
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("interface %q: %s", e.ID, e.Reason)
	}
	return fmt.Sprintf("interface %q option %q: %s", e.ID, e.Field, e.Reason)
}

// Value types an option may declare.
var optionTypes = map[string]bool{
	"string":     true,
	"text":       true,
	"boolean":    true,
	"integer":    true,
	"bigInteger": true,
	"float":      true,
	"decimal":    true,
	"json":       true,
	"csv":        true,
	"uuid":       true,
	"hash":       true,
	"dateTime":   true,
	"date":       true,
	"time":       true,
	"timestamp":  true,
}

// Validate checks d the way the host does before accepting a registration.
// All problems are returned joined.
func Validate(d Descriptor) error {
	var errs []error
	add := func(field, format string, args ...any) {
		errs = append(errs, &SchemaError{ID: d.ID, Field: field, Reason: fmt.Sprintf(format, args...)})
	}

	if d.ID == "" {
		add("", "id is required")
	}
	if d.Name == "" {
		add("", "name is required")
	}
	if d.ComponentName() == "" {
		add("", "component is required")
	}
	if len(d.Types) == 0 {
		add("", "at least one type is required")
	}

	byKey := make(map[string]Option, len(d.Options))
	for _, o := range d.Options {
		if o.Field == "" {
			add("", "option without field key")
			continue
		}
		if _, dup := byKey[o.Field]; dup {
			add(o.Field, "duplicate option key")
			continue
		}
		if o.Type != "" && !optionTypes[o.Type] {
			add(o.Field, "unknown type %q", o.Type)
		}
		byKey[o.Field] = o
	}

	for _, o := range d.Options {
		for _, c := range o.Meta.Conditions {
			dep, ok := byKey[c.Rule.Field]
			switch {
			case c.Rule.Field == o.Field:
				add(o.Field, "condition references itself")
			case !ok:
				add(o.Field, "condition references unknown option %q", c.Rule.Field)
			case len(dep.Meta.Conditions) > 0:
				add(o.Field, "condition references conditional option %q", c.Rule.Field)
			case !operandMatches(dep.Type, c.Rule.Value):
				add(o.Field, "operand %v does not match %s option %q", c.Rule.Value, dep.Type, dep.Field)
			}
		}
	}
	return errors.Join(errs...)
}

func operandMatches(typ string, v any) bool {
	switch typ {
	case "boolean":
		_, ok := v.(bool)
		return ok
	case "string", "text", "uuid", "hash", "csv":
		_, ok := v.(string)
		return ok
	case "integer", "bigInteger", "float", "decimal":
		_, ok := asFloat(v)
		_, isStr := v.(string)
		return ok && !isStr
	}
	return true
}
