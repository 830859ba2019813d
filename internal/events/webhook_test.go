package events_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/faciam-dev/urlpreview/internal/events"
)

func TestWebhookSignature(t *testing.T) {
	var (
		gotSig  string
		gotBody []byte
		gotHdr  http.Header
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotSig = r.Header.Get(events.HeaderSignature)
		gotHdr = r.Header.Clone()
	}))
	defer srv.Close()
	wh := events.NewWebhookSink(events.WebhookConfig{Enabled: true, Endpoint: srv.URL, Secret: "s"})
	evt := events.New(events.InterfaceUpsert, "url-preview", map[string]string{"id": "url-preview"})
	if err := wh.Emit(context.Background(), evt); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(gotBody) == 0 {
		t.Fatalf("no body")
	}
	h := hmac.New(sha256.New, []byte("s"))
	h.Write(gotBody)
	if want := "sha256=" + hex.EncodeToString(h.Sum(nil)); gotSig != want {
		t.Fatalf("signature = %q, want %q", gotSig, want)
	}
	if gotHdr.Get(events.HeaderEvent) != events.InterfaceUpsert || gotHdr.Get(events.HeaderID) != "url-preview" || gotHdr.Get(events.HeaderDelivery) != evt.ID {
		t.Fatalf("unexpected headers: %v", gotHdr)
	}
}

func TestWebhookEventFilter(t *testing.T) {
	var hits []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits = append(hits, r.Header.Get(events.HeaderEvent))
	}))
	defer srv.Close()
	wh := events.NewWebhookSink(events.WebhookConfig{Enabled: true, Endpoint: srv.URL, Events: []string{events.InterfaceRemove}})
	ctx := context.Background()
	if err := wh.Emit(ctx, events.New(events.InterfaceUpsert, "slider", nil)); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if err := wh.Emit(ctx, events.New(events.InterfaceRemove, "slider", nil)); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(hits) != 1 || hits[0] != events.InterfaceRemove {
		t.Fatalf("deliveries = %v, want only %s", hits, events.InterfaceRemove)
	}
}

func TestWebhookErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	wh := events.NewWebhookSink(events.WebhookConfig{Enabled: true, Endpoint: srv.URL})
	if err := wh.Emit(context.Background(), events.New("x", "slider", nil)); err == nil {
		t.Fatalf("expected error for 502")
	}
}

func TestWebhookDisabled(t *testing.T) {
	if wh := events.NewWebhookSink(events.WebhookConfig{Endpoint: "http://example.invalid"}); wh != nil {
		t.Fatalf("expected nil sink when disabled")
	}
}
