// Package codec reads and writes interface descriptor documents.
package codec

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/faciam-dev/urlpreview/pkg/iface"
)

const currentVersion = 1

type document struct {
	Version    int                `json:"version" yaml:"version"`
	Interfaces []iface.Descriptor `json:"interfaces" yaml:"interfaces"`
}

func EncodeYAML(ds []iface.Descriptor) ([]byte, error) {
	return yaml.Marshal(document{Version: currentVersion, Interfaces: ds})
}

func EncodeJSON(ds []iface.Descriptor) ([]byte, error) {
	return json.MarshalIndent(document{Version: currentVersion, Interfaces: ds}, "", "  ")
}

// DecodeYAML accepts a versioned document, a bare list, or a single
// descriptor. JSON input is valid YAML and decodes the same way.
func DecodeYAML(b []byte) ([]iface.Descriptor, error) {
	var n yaml.Node
	if err := yaml.Unmarshal(b, &n); err != nil {
		return nil, err
	}
	if len(n.Content) == 0 {
		return nil, nil
	}
	root := n.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var ds []iface.Descriptor
		if err := root.Decode(&ds); err != nil {
			return nil, err
		}
		return ds, nil
	case yaml.MappingNode:
		if hasKey(root, "interfaces") {
			var doc document
			if err := root.Decode(&doc); err != nil {
				return nil, err
			}
			if doc.Version > currentVersion {
				return nil, fmt.Errorf("unsupported document version %d", doc.Version)
			}
			return doc.Interfaces, nil
		}
		var d iface.Descriptor
		if err := root.Decode(&d); err != nil {
			return nil, err
		}
		return []iface.Descriptor{d}, nil
	}
	return nil, fmt.Errorf("unexpected document kind %v", root.Kind)
}

func hasKey(m *yaml.Node, key string) bool {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return true
		}
	}
	return false
}
