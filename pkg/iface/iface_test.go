package iface

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func sample() Descriptor {
	return Descriptor{
		ID:        "sample",
		Name:      "Sample",
		Component: NamedComponent("sample"),
		Types:     []string{"string"},
		Options: []Option{
			{Field: "enabled", Name: "Enabled", Type: "boolean", Schema: &OptionSchema{DefaultValue: false}},
			{
				Field: "size",
				Name:  "Size",
				Type:  "string",
				Meta: OptionMeta{
					Hidden:     true,
					Options:    map[string]any{"trim": true},
					Conditions: []Condition{{Rule: Eq("enabled", true), Hidden: false}},
				},
			},
		},
	}
}

func TestRuleJSON(t *testing.T) {
	var r Rule
	if err := json.Unmarshal([]byte(`{"viewiframe":{"_eq":true}}`), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(Eq("viewiframe", true), r); diff != "" {
		t.Fatalf("rule mismatch (-want +got):\n%s", diff)
	}
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"viewiframe":{"_eq":true}}` {
		t.Fatalf("unexpected json %s", b)
	}
}

func TestRuleRejectsComposition(t *testing.T) {
	cases := []string{
		`{"a":{"_eq":1},"b":{"_eq":2}}`,
		`{"a":{"_neq":1}}`,
		`{"a":{"_eq":1,"_neq":2}}`,
		`{}`,
	}
	for _, c := range cases {
		var r Rule
		if err := json.Unmarshal([]byte(c), &r); err == nil {
			t.Fatalf("expected error for %s", c)
		}
	}
}

func TestEqual(t *testing.T) {
	cases := []struct {
		got, want any
		eq        bool
	}{
		{true, true, true},
		{"true", true, true},
		{"on", true, true},
		{"", true, false},
		{"false", false, true},
		{nil, true, false},
		{"600", 600, true},
		{float64(3), 3, true},
		{"a", "a", true},
		{"a", "b", false},
		{1, "1", false},
	}
	for _, c := range cases {
		if got := Equal(c.got, c.want); got != c.eq {
			t.Fatalf("Equal(%v, %v) = %v, want %v", c.got, c.want, got, c.eq)
		}
	}
}

func TestHiddenFirstMatchWins(t *testing.T) {
	o := Option{Field: "x", Meta: OptionMeta{
		Hidden: true,
		Conditions: []Condition{
			{Rule: Eq("mode", "a"), Hidden: false},
			{Rule: Eq("mode", "a"), Hidden: true},
		},
	}}
	if o.Hidden(map[string]any{"mode": "a"}) {
		t.Fatalf("first matching condition must win")
	}
	if !o.Hidden(map[string]any{"mode": "b"}) {
		t.Fatalf("static hidden must apply when nothing matches")
	}
}

func TestDescriptorJSONRoundTrip(t *testing.T) {
	in := sample()
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"component":"sample"`) {
		t.Fatalf("component not encoded: %s", b)
	}
	var out Descriptor
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDescriptorYAMLDecode(t *testing.T) {
	src := `
id: sample
name: Sample
component: sample
types: [string]
options:
  - field: enabled
    name: Enabled
    type: boolean
    schema:
      default_value: false
  - field: size
    name: Size
    type: string
    meta:
      hidden: true
      options:
        trim: true
      conditions:
        - rule:
            enabled:
              _eq: true
          hidden: false
`
	var out Descriptor
	if err := yaml.Unmarshal([]byte(src), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(sample(), out); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(sample()); err != nil {
		t.Fatalf("valid descriptor rejected: %v", err)
	}

	d := sample()
	d.Options = append(d.Options, Option{Field: "enabled", Type: "boolean"})
	d.Options[1].Meta.Conditions = append(d.Options[1].Meta.Conditions,
		Condition{Rule: Eq("missing", true)},
		Condition{Rule: Eq("enabled", "yes")},
	)
	d.Component = nil
	err := Validate(d)
	if err == nil {
		t.Fatalf("expected errors")
	}
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected SchemaError, got %T", err)
	}
	msg := err.Error()
	for _, want := range []string{"component is required", "duplicate option key", "unknown option \"missing\"", "does not match boolean"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("missing %q in %s", want, msg)
		}
	}
}

func TestValidateRejectsChains(t *testing.T) {
	d := sample()
	d.Options = append(d.Options, Option{
		Field: "depth",
		Type:  "string",
		Meta:  OptionMeta{Conditions: []Condition{{Rule: Eq("size", "big")}}},
	})
	if err := Validate(d); err == nil || !strings.Contains(err.Error(), "conditional option") {
		t.Fatalf("expected chain rejection, got %v", err)
	}
}

func TestCloneIsDeep(t *testing.T) {
	a := sample()
	b := a.Clone()
	b.Options[1].Meta.Options["trim"] = false
	b.Options[1].Meta.Conditions[0].Hidden = true
	b.Options[0].Schema.DefaultValue = true
	b.Types[0] = "text"
	if diff := cmp.Diff(sample(), a); diff != "" {
		t.Fatalf("clone shares state (-want +got):\n%s", diff)
	}
}
