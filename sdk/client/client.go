// Package client reads and evaluates field interfaces either over the
// interface API or against an in-process registry.
package client

import (
	"context"

	"github.com/faciam-dev/urlpreview/internal/form"
	"github.com/faciam-dev/urlpreview/internal/framepolicy"
	"github.com/faciam-dev/urlpreview/internal/registry/interfaces"
)

// Client provides access to registered interfaces.
type Client interface {
	List(ctx context.Context, opt interfaces.Options) ([]interfaces.Entry, error)
	Get(ctx context.Context, id string) (interfaces.Entry, error)
	Evaluate(ctx context.Context, id string, values map[string]any) (Evaluation, error)
	Validate(ctx context.Context, id string, values map[string]any) (map[string]any, error)
	Mode() string
}

// Evaluation is an evaluated settings form plus the frame check for previews.
type Evaluation struct {
	Interface string             `json:"interface"`
	Fields    []form.FieldState  `json:"fields"`
	Frame     *framepolicy.Check `json:"frame,omitempty"`
}
