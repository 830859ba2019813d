package form

import (
	"fmt"
	"strings"
)

// ParseValues turns key=value pairs into form values. Values stay strings;
// Evaluate coerces them where the option type requires it.
func ParseValues(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid value %q: want key=value", p)
		}
		out[k] = v
	}
	return out, nil
}
