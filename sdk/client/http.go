package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/faciam-dev/urlpreview/internal/form"
	"github.com/faciam-dev/urlpreview/internal/registry/interfaces"
)

type httpClient struct {
	base string
	http *resty.Client
}

type Option func(*httpClient)

// WithHeader sets a header sent with every request.
func WithHeader(k, v string) Option {
	return func(c *httpClient) {
		c.http.SetHeader(k, v)
	}
}

// NewHTTP returns a new Client for the given base URL.
func NewHTTP(base string, opts ...Option) Client {
	c := &httpClient{base: strings.TrimSuffix(base, "/"), http: resty.New()}
	for _, o := range opts {
		o(c)
	}
	return c
}

type listResponse struct {
	Interfaces []interfaces.Entry `json:"interfaces"`
	Total      int                `json:"total"`
}

func (c *httpClient) List(ctx context.Context, opt interfaces.Options) ([]interfaces.Entry, error) {
	var out listResponse
	req := c.http.R().SetContext(ctx).SetResult(&out)
	if opt.Type != "" {
		req.SetQueryParam("type", opt.Type)
	}
	if opt.Group != "" {
		req.SetQueryParam("group", opt.Group)
	}
	if opt.Q != "" {
		req.SetQueryParam("q", opt.Q)
	}
	if opt.Limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(opt.Limit))
	}
	if opt.Offset > 0 {
		req.SetQueryParam("offset", strconv.Itoa(opt.Offset))
	}
	resp, err := req.Get(c.base + "/v1/interfaces")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, restyErr(resp)
	}
	return out.Interfaces, nil
}

func (c *httpClient) Get(ctx context.Context, id string) (interfaces.Entry, error) {
	var out interfaces.Entry
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).Get(c.base + "/v1/interfaces/" + url.PathEscape(id))
	if err != nil {
		return interfaces.Entry{}, err
	}
	if resp.IsError() {
		return interfaces.Entry{}, restyErr(resp)
	}
	return out, nil
}

func (c *httpClient) Evaluate(ctx context.Context, id string, values map[string]any) (Evaluation, error) {
	var out Evaluation
	resp, err := c.http.R().SetContext(ctx).
		SetBody(map[string]any{"values": values}).
		SetResult(&out).
		Post(c.base + "/v1/interfaces/" + url.PathEscape(id) + "/evaluate")
	if err != nil {
		return Evaluation{}, err
	}
	if resp.IsError() {
		return Evaluation{}, restyErr(resp)
	}
	return out, nil
}

type problem struct {
	Detail string `json:"detail"`
	Errors []struct {
		Location string `json:"location"`
		Message  string `json:"message"`
	} `json:"errors"`
}

func (c *httpClient) Validate(ctx context.Context, id string, values map[string]any) (map[string]any, error) {
	var (
		out struct {
			Values map[string]any `json:"values"`
		}
		prob problem
	)
	resp, err := c.http.R().SetContext(ctx).
		SetBody(map[string]any{"values": values}).
		SetResult(&out).
		SetError(&prob).
		Post(c.base + "/v1/interfaces/" + url.PathEscape(id) + "/validate")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == 422 && len(prob.Errors) > 0 {
		verrs := make(form.ValidationErrors, 0, len(prob.Errors))
		for _, e := range prob.Errors {
			verrs = append(verrs, form.FieldError{Field: strings.TrimPrefix(e.Location, "body.values."), Message: e.Message})
		}
		return nil, verrs
	}
	if resp.IsError() {
		return nil, restyErr(resp)
	}
	return out.Values, nil
}

func (c *httpClient) Mode() string { return "http" }

func restyErr(resp *resty.Response) error {
	if resp.StatusCode() == http.StatusNotFound {
		return fmt.Errorf("%w: %s", interfaces.ErrNotFound, resp.Request.URL)
	}
	return fmt.Errorf("%s", resp.Status())
}
