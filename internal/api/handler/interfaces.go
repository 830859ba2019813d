package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	humago "github.com/danielgtaylor/huma/v2"

	"github.com/faciam-dev/urlpreview/internal/form"
	"github.com/faciam-dev/urlpreview/internal/framepolicy"
	huma "github.com/faciam-dev/urlpreview/internal/huma"
	"github.com/faciam-dev/urlpreview/internal/logger"
	"github.com/faciam-dev/urlpreview/internal/registry/interfaces"
	"github.com/faciam-dev/urlpreview/pkg/iface"
	"github.com/faciam-dev/urlpreview/pkg/metrics"
)

type InterfaceHandler struct {
	Reg       interfaces.Registry
	Policy    *framepolicy.Policy
	Keepalive time.Duration
}

type listInterfaceParams struct {
	Type            string    `query:"type"`
	Group           string    `query:"group"`
	Q               string    `query:"q"`
	Limit           int       `query:"limit"`
	Offset          int       `query:"offset"`
	IfNoneMatch     string    `header:"If-None-Match"`
	IfModifiedSince time.Time `header:"If-Modified-Since"`
}

type interfacesOut struct {
	ETag         string `header:"ETag"`
	LastModified string `header:"Last-Modified"`
	Body         struct {
		Interfaces []interfaces.Entry `json:"interfaces"`
		Total      int                `json:"total"`
	}
}

type interfaceIDParam struct {
	ID string `path:"id"`
}

type interfaceOut struct {
	Body interfaces.Entry
}

type valuesInput struct {
	ID   string `path:"id"`
	Body struct {
		Values map[string]any `json:"values,omitempty"`
	}
}

type evaluateOut struct {
	Body struct {
		Interface string             `json:"interface"`
		Fields    []form.FieldState  `json:"fields"`
		Frame     *framepolicy.Check `json:"frame,omitempty"`
	}
}

type validateOut struct {
	Body struct {
		Values map[string]any `json:"values"`
	}
}

func RegisterInterfaces(api humago.API, h *InterfaceHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "listInterfaces",
		Method:      http.MethodGet,
		Path:        "/v1/interfaces",
		Summary:     "List field interfaces",
		Tags:        []string{"Interfaces"},
	}, h.list)
	huma.Register(api, huma.Operation{
		OperationID: "getInterface",
		Method:      http.MethodGet,
		Path:        "/v1/interfaces/{id}",
		Summary:     "Get field interface",
		Tags:        []string{"Interfaces"},
	}, h.get)
	huma.Register(api, huma.Operation{
		OperationID: "evaluateInterfaceOptions",
		Method:      http.MethodPost,
		Path:        "/v1/interfaces/{id}/evaluate",
		Summary:     "Evaluate the settings form for the given values",
		Tags:        []string{"Interfaces"},
	}, h.evaluate)
	huma.Register(api, huma.Operation{
		OperationID: "validateInterfaceOptions",
		Method:      http.MethodPost,
		Path:        "/v1/interfaces/{id}/validate",
		Summary:     "Validate settings form values",
		Tags:        []string{"Interfaces"},
	}, h.validate)
}

func (h *InterfaceHandler) list(ctx context.Context, p *listInterfaceParams) (*interfacesOut, error) {
	opt := interfaces.Options{Type: p.Type, Group: p.Group, Q: p.Q, Limit: p.Limit, Offset: p.Offset}
	items, total, etag, last, err := h.Reg.List(ctx, opt)
	if err != nil {
		return nil, err
	}
	lastStr := last.UTC().Format(http.TimeFormat)
	if (p.IfNoneMatch != "" && p.IfNoneMatch == etag) ||
		(!p.IfModifiedSince.IsZero() && !last.After(p.IfModifiedSince)) {
		hdr := http.Header{}
		hdr.Set("ETag", etag)
		hdr.Set("Last-Modified", lastStr)
		return nil, humago.ErrorWithHeaders(humago.NewError(http.StatusNotModified, ""), hdr)
	}

	out := &interfacesOut{ETag: etag, LastModified: lastStr}
	out.Body.Interfaces = items
	out.Body.Total = total
	return out, nil
}

func (h *InterfaceHandler) lookup(id string) (interfaces.Entry, error) {
	e, ok := h.Reg.Get(id)
	if !ok {
		return interfaces.Entry{}, huma.Error404NotFound(interfaces.ErrNotFound.Error() + ": " + id)
	}
	return e, nil
}

func (h *InterfaceHandler) get(ctx context.Context, p *interfaceIDParam) (*interfaceOut, error) {
	e, err := h.lookup(p.ID)
	if err != nil {
		return nil, err
	}
	return &interfaceOut{Body: e}, nil
}

func (h *InterfaceHandler) evaluate(ctx context.Context, in *valuesInput) (*evaluateOut, error) {
	e, err := h.lookup(in.ID)
	if err != nil {
		return nil, err
	}
	metrics.Evaluations.WithLabelValues(in.ID).Inc()
	out := &evaluateOut{}
	st := form.Evaluate(e.Descriptor, in.Body.Values)
	out.Body.Interface = st.Interface
	out.Body.Fields = st.Fields
	out.Body.Frame = h.checkFrame(e.Descriptor, st)
	return out, nil
}

func (h *InterfaceHandler) validate(ctx context.Context, in *valuesInput) (*validateOut, error) {
	e, err := h.lookup(in.ID)
	if err != nil {
		return nil, err
	}
	vals, err := form.Validate(e.Descriptor, in.Body.Values)
	var verrs form.ValidationErrors
	if errors.As(err, &verrs) {
		metrics.ValidationFailures.WithLabelValues(in.ID).Inc()
		details := make([]error, len(verrs))
		for i, fe := range verrs {
			details[i] = huma.FieldError("body.values."+fe.Field, fe.Message, in.Body.Values[fe.Field])
		}
		return nil, huma.Error422UnprocessableEntity("validation failed", details...)
	}
	if err != nil {
		return nil, err
	}
	out := &validateOut{}
	out.Body.Values = vals
	return out, nil
}

// checkFrame reports on the url option when the interface embeds it.
func (h *InterfaceHandler) checkFrame(d iface.Descriptor, st form.State) *framepolicy.Check {
	fc := h.Policy.CheckPreview(d, st)
	if fc != nil && !fc.Allowed {
		metrics.FrameBlocked.Inc()
		logger.L.Debug("frame not allowed", "url", fc.URL, "warning", fc.Warning)
	}
	return fc
}
