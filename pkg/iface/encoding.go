package iface

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

type descriptorFields Descriptor

type descriptorDoc struct {
	descriptorFields `yaml:",inline"`
	Component        string `json:"component,omitempty" yaml:"component,omitempty"`
}

func (d Descriptor) doc() descriptorDoc {
	return descriptorDoc{descriptorFields: descriptorFields(d), Component: d.ComponentName()}
}

func (d *Descriptor) fromDoc(doc descriptorDoc) {
	*d = Descriptor(doc.descriptorFields)
	d.Component = nil
	if doc.Component != "" {
		d.Component = NamedComponent(doc.Component)
	}
}

// MarshalJSON encodes the component handle by name.
func (d Descriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.doc())
}

// UnmarshalJSON decodes a descriptor; the component becomes a NamedComponent.
func (d *Descriptor) UnmarshalJSON(b []byte) error {
	var doc descriptorDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	d.fromDoc(doc)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Descriptor) MarshalYAML() (any, error) {
	return d.doc(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Descriptor) UnmarshalYAML(n *yaml.Node) error {
	var doc descriptorDoc
	if err := n.Decode(&doc); err != nil {
		return err
	}
	d.fromDoc(doc)
	return nil
}
