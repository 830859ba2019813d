package server_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/faciam-dev/urlpreview/internal/config"
	"github.com/faciam-dev/urlpreview/internal/framepolicy"
	"github.com/faciam-dev/urlpreview/internal/registry/interfaces"
	"github.com/faciam-dev/urlpreview/internal/server"
	"github.com/faciam-dev/urlpreview/pkg/iface"
)

func newServer(t *testing.T) (http.Handler, interfaces.Registry) {
	t.Helper()
	reg := interfaces.Builtins()
	p, err := framepolicy.Parse("https://docs.google.com", nil)
	if err != nil {
		t.Fatalf("parse policy: %v", err)
	}
	api := server.New(reg, p, config.Config{AllowedOrigins: []string{"http://localhost:5173"}})
	return api.Adapter(), reg
}

func TestListInterfaces(t *testing.T) {
	h, _ := newServer(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/interfaces", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	etag := w.Header().Get("ETag")
	if etag == "" {
		t.Fatalf("missing etag")
	}
	var body struct {
		Interfaces []struct {
			Descriptor struct {
				ID        string `json:"id"`
				Component string `json:"component"`
			} `json:"descriptor"`
			Source string `json:"source"`
		} `json:"interfaces"`
		Total int `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Total != 1 || body.Interfaces[0].Descriptor.ID != "url-preview" {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
	if body.Interfaces[0].Descriptor.Component != "url-preview" || body.Interfaces[0].Source != "builtin" {
		t.Fatalf("unexpected entry: %+v", body.Interfaces[0])
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/interfaces", nil)
	req.Header.Set("If-None-Match", etag)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusNotModified {
		t.Fatalf("status %d, want 304", w.Code)
	}
}

func TestGetInterfaceNotFound(t *testing.T) {
	h, _ := newServer(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/interfaces/nope", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status %d, want 404", w.Code)
	}
}

func TestEvaluateInterface(t *testing.T) {
	h, _ := newServer(t)
	body := `{"values":{"url":"https://docs.google.com/spreadsheets/d/x","view":false}}`
	req := httptest.NewRequest(http.MethodPost, "/v1/interfaces/url-preview/evaluate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var out struct {
		Fields []struct {
			Field  string `json:"field"`
			Hidden bool   `json:"hidden"`
		} `json:"fields"`
		Frame struct {
			Allowed bool `json:"allowed"`
		} `json:"frame"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	hidden := map[string]bool{}
	for _, f := range out.Fields {
		hidden[f.Field] = f.Hidden
	}
	if !hidden["width"] || !hidden["height"] || hidden["url"] || hidden["view"] {
		t.Fatalf("unexpected visibility: %v", hidden)
	}
	if !out.Frame.Allowed {
		t.Fatalf("expected frame to be allowed: %s", w.Body.String())
	}
}

func TestValidateInterfaceRequiresURL(t *testing.T) {
	h, _ := newServer(t)
	req := httptest.NewRequest(http.MethodPost, "/v1/interfaces/url-preview/validate", strings.NewReader(`{"values":{"view":true}}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d, want 422: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "body.values.url") {
		t.Fatalf("missing field location: %s", w.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := newServer(t)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/interfaces", nil))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "iface_api_requests_total") {
		t.Fatalf("metric missing")
	}
}

func TestStreamInterfaces(t *testing.T) {
	h, reg := newServer(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/v1/interfaces/stream", nil)
	if err != nil {
		t.Fatal(err)
	}
	d := iface.Descriptor{
		ID:        "color-swatch",
		Name:      "Color Swatch",
		Component: iface.NamedComponent("color-swatch"),
		Types:     []string{"string"},
	}
	// the subscription is registered once the handler starts; retry until seen
	go func() {
		for ctx.Err() == nil {
			_, _, _ = reg.ApplyDiff(ctx, []iface.Descriptor{d}, nil)
			time.Sleep(50 * time.Millisecond)
		}
	}()

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type %q", ct)
	}

	sc := bufio.NewScanner(resp.Body)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "data: ") && strings.Contains(line, "color-swatch") {
			return
		}
	}
	t.Fatalf("no upsert event received: %v", sc.Err())
}
