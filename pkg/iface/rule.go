package iface

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// OpEq is the only supported rule operator.
const OpEq = "_eq"

// Rule compares one sibling option value against an operand.
// Encoded as {"<field>": {"_eq": <value>}}.
type Rule struct {
	Field string
	Value any
}

// Eq returns a rule matching when field equals value.
func Eq(field string, value any) Rule {
	return Rule{Field: field, Value: value}
}

// Matches reports whether the rule holds for the given form values.
// A missing field never matches.
func (r Rule) Matches(values map[string]any) bool {
	v, ok := values[r.Field]
	if !ok {
		return false
	}
	return Equal(v, r.Value)
}

// Equal compares a submitted form value with a rule operand. Form values
// arrive as strings, so booleans and numbers are coerced to the operand type.
func Equal(got, want any) bool {
	switch w := want.(type) {
	case bool:
		b, ok := AsBool(got)
		return ok && b == w
	case string:
		s, ok := got.(string)
		return ok && s == w
	case nil:
		return got == nil
	}
	if wf, ok := asFloat(want); ok {
		gf, ok := asFloat(got)
		return ok && gf == wf
	}
	return reflect.DeepEqual(got, want)
}

// AsBool interprets v as a boolean the way HTML forms submit checkboxes.
func AsBool(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "1", "on", "yes":
			return true, true
		case "false", "0", "off", "no", "":
			return false, true
		}
	case int:
		return x != 0, true
	case float64:
		return x != 0, true
	}
	return false, false
}

func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	}
	return 0, false
}

func (r Rule) doc() map[string]map[string]any {
	return map[string]map[string]any{r.Field: {OpEq: r.Value}}
}

func (r *Rule) fromDoc(doc map[string]map[string]any) error {
	if len(doc) != 1 {
		return fmt.Errorf("rule must reference exactly one field, got %d", len(doc))
	}
	for field, ops := range doc {
		if len(ops) != 1 {
			return fmt.Errorf("rule on %q must have exactly one operator", field)
		}
		v, ok := ops[OpEq]
		if !ok {
			for op := range ops {
				return fmt.Errorf("rule on %q: unsupported operator %q", field, op)
			}
		}
		r.Field = field
		r.Value = v
	}
	return nil
}

func (r Rule) clone() Rule { return r }

// MarshalJSON implements json.Marshaler.
func (r Rule) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.doc())
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Rule) UnmarshalJSON(b []byte) error {
	var doc map[string]map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	return r.fromDoc(doc)
}

// MarshalYAML implements yaml.Marshaler.
func (r Rule) MarshalYAML() (any, error) {
	return r.doc(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (r *Rule) UnmarshalYAML(n *yaml.Node) error {
	var doc map[string]map[string]any
	if err := n.Decode(&doc); err != nil {
		return err
	}
	return r.fromDoc(doc)
}
