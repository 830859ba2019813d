package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ResyncInterval != 5*time.Minute || cfg.WatchDebounce != 250*time.Millisecond {
		t.Fatalf("unexpected durations: %+v", cfg)
	}
	if cfg.Addr != ":8080" || cfg.EventsConfig != "" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("URLPREVIEW_ADDR", ":9000")
	t.Setenv("URLPREVIEW_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("CONTENT_SECURITY_POLICY_DIRECTIVES__FRAME_SRC", "docs.google.com")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9000" {
		t.Fatalf("addr = %q", cfg.Addr)
	}
	if diff := cmp.Diff([]string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins); diff != "" {
		t.Fatalf("origins (-want +got):\n%s", diff)
	}
	p, err := cfg.FramePolicy()
	if err != nil {
		t.Fatalf("frame policy: %v", err)
	}
	if ok, _, _ := p.Allows("https://docs.google.com/d/1"); !ok {
		t.Fatalf("configured source not allowed")
	}
}
