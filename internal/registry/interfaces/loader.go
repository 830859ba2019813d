package interfaces

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/faciam-dev/urlpreview/internal/registry/interfaces/codec"
	"github.com/faciam-dev/urlpreview/pkg/iface"
)

// LoadAll reads all descriptor files within dir.
func LoadAll(dir string) ([]iface.Descriptor, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []iface.Descriptor
	ids := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if shouldIgnore(name) || !isDescriptorFile(name) {
			continue
		}
		ds, err := LoadOne(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		for _, d := range ds {
			if prev, ok := ids[d.ID]; ok {
				return nil, fmt.Errorf("duplicate interface id %s in %s and %s", d.ID, prev, name)
			}
			ids[d.ID] = name
			out = append(out, d)
		}
	}
	return out, nil
}

// LoadOne reads a single descriptor file and validates its contents.
func LoadOne(path string) ([]iface.Descriptor, error) {
	p := filepath.Clean(path)
	b, err := os.ReadFile(p) // #nosec G304 -- path derived from directory listing
	if err != nil {
		return nil, err
	}
	ds, err := codec.DecodeYAML(b)
	if err != nil {
		return nil, err
	}
	for _, d := range ds {
		if err := iface.Validate(d); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

func isDescriptorFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

func shouldIgnore(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") {
		return true
	}
	switch {
	case strings.HasSuffix(base, "~"),
		strings.HasSuffix(base, ".swp"),
		strings.HasSuffix(base, ".swx"),
		strings.HasSuffix(base, ".tmp"),
		strings.HasSuffix(base, ".partial"),
		strings.HasSuffix(base, "4913"),
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	}
	return false
}
