package events

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/go-resty/resty/v2"
)

// Headers set on every webhook delivery.
const (
	HeaderEvent     = "X-Interface-Event"
	HeaderID        = "X-Interface-Id"
	HeaderDelivery  = "X-Interface-Delivery"
	HeaderSignature = "X-Interface-Signature"
)

// WebhookConfig configures WebhookSink. Events limits deliveries to the
// listed event names; empty means all.
type WebhookConfig struct {
	Enabled  bool          `yaml:"enabled" env:"ENABLED"`
	Endpoint string        `yaml:"endpoint" env:"ENDPOINT"`
	Secret   string        `yaml:"secret" env:"SECRET"`
	Timeout  time.Duration `yaml:"timeout" env:"TIMEOUT"`
	Events   []string      `yaml:"events" env:"EVENTS" envSeparator:","`
}

// WebhookSink posts events to an HTTP endpoint.
type WebhookSink struct {
	Endpoint string
	Secret   string
	Events   []string
	Client   *resty.Client
}

// NewWebhookSink returns a WebhookSink, or nil when the sink is disabled.
func NewWebhookSink(c WebhookConfig) *WebhookSink {
	if !c.Enabled || c.Endpoint == "" {
		return nil
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &WebhookSink{
		Endpoint: c.Endpoint,
		Secret:   c.Secret,
		Events:   c.Events,
		Client:   resty.New().SetTimeout(timeout),
	}
}

// Sign returns the signature header value for body.
func (s *WebhookSink) Sign(body []byte) string {
	h := hmac.New(sha256.New, []byte(s.Secret))
	h.Write(body)
	return "sha256=" + hex.EncodeToString(h.Sum(nil))
}

func (s *WebhookSink) Emit(ctx context.Context, e Event) error {
	if s == nil {
		return nil
	}
	if len(s.Events) > 0 && !slices.Contains(s.Events, e.Name) {
		return nil
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	req := s.Client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader(HeaderEvent, e.Name).
		SetHeader(HeaderID, e.Subject).
		SetHeader(HeaderDelivery, e.ID).
		SetBody(data)
	if s.Secret != "" {
		req.SetHeader(HeaderSignature, s.Sign(data))
	}
	resp, err := req.Post(s.Endpoint)
	if err != nil {
		return err
	}
	if resp.StatusCode() >= 300 {
		return fmt.Errorf("webhook %s: %s", e.Name, resp.Status())
	}
	return nil
}
