package client

import (
	"context"
	"fmt"

	"github.com/faciam-dev/urlpreview/internal/form"
	"github.com/faciam-dev/urlpreview/internal/framepolicy"
	"github.com/faciam-dev/urlpreview/internal/registry/interfaces"
)

type localClient struct {
	reg    interfaces.Registry
	policy *framepolicy.Policy
}

// NewLocal wraps an in-process registry. policy may be nil.
func NewLocal(reg interfaces.Registry, policy *framepolicy.Policy) Client {
	return &localClient{reg: reg, policy: policy}
}

func (l *localClient) List(ctx context.Context, opt interfaces.Options) ([]interfaces.Entry, error) {
	items, _, _, _, err := l.reg.List(ctx, opt)
	return items, err
}

func (l *localClient) Get(ctx context.Context, id string) (interfaces.Entry, error) {
	e, ok := l.reg.Get(id)
	if !ok {
		return interfaces.Entry{}, fmt.Errorf("%w: %s", interfaces.ErrNotFound, id)
	}
	return e, nil
}

func (l *localClient) Evaluate(ctx context.Context, id string, values map[string]any) (Evaluation, error) {
	e, err := l.Get(ctx, id)
	if err != nil {
		return Evaluation{}, err
	}
	st := form.Evaluate(e.Descriptor, values)
	return Evaluation{Interface: st.Interface, Fields: st.Fields, Frame: l.policy.CheckPreview(e.Descriptor, st)}, nil
}

func (l *localClient) Validate(ctx context.Context, id string, values map[string]any) (map[string]any, error) {
	e, err := l.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return form.Validate(e.Descriptor, values)
}

func (l *localClient) Mode() string { return "local" }
