// Package framepolicy reports whether a URL would be allowed inside a preview
// iframe under the host's frame-src content security policy. It only advises;
// the browser enforces the policy.
package framepolicy

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/faciam-dev/urlpreview/internal/form"
	"github.com/faciam-dev/urlpreview/pkg/iface"
	"github.com/faciam-dev/urlpreview/pkg/iface/urlpreview"
)

// EnvVar holds the frame-src sources configured on the host.
const EnvVar = "CONTENT_SECURITY_POLICY_DIRECTIVES__FRAME_SRC"

// Policy is a parsed frame-src directive.
type Policy struct {
	Self    *url.URL
	Sources []Source
}

// Source is one source expression of the directive.
type Source struct {
	Raw    string
	Kind   Kind
	Scheme string
	Host   string // may start with "*."
	Port   string // "" or "*" or digits
	Path   string
}

type Kind int

const (
	KindHost Kind = iota
	KindScheme
	KindSelf
	KindAny
	KindNone
)

// Parse reads a directive value. Sources may be separated by commas or
// whitespace. An empty directive falls back to 'self'.
func Parse(directive string, self *url.URL) (*Policy, error) {
	p := &Policy{Self: self}
	fields := strings.FieldsFunc(directive, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == ';'
	})
	if len(fields) == 0 {
		fields = []string{"'self'"}
	}
	for _, f := range fields {
		s, err := parseSource(f)
		if err != nil {
			return nil, err
		}
		p.Sources = append(p.Sources, s)
	}
	return p, nil
}

func parseSource(raw string) (Source, error) {
	s := Source{Raw: raw}
	lower := strings.ToLower(raw)
	switch lower {
	case "'self'":
		s.Kind = KindSelf
		return s, nil
	case "'none'":
		s.Kind = KindNone
		return s, nil
	case "*":
		s.Kind = KindAny
		return s, nil
	}
	if strings.HasPrefix(lower, "'") {
		return s, fmt.Errorf("unsupported frame-src keyword %s", raw)
	}
	if strings.HasSuffix(lower, ":") && !strings.Contains(lower, "/") {
		s.Kind = KindScheme
		s.Scheme = strings.TrimSuffix(lower, ":")
		return s, nil
	}

	// paths compare case-sensitively; scheme, host and port do not
	rest := raw
	if i := strings.Index(rest, "://"); i >= 0 {
		s.Scheme = strings.ToLower(rest[:i])
		rest = rest[i+3:]
	}
	if i := strings.Index(rest, "/"); i >= 0 {
		s.Path = rest[i:]
		rest = rest[:i]
	}
	rest = strings.ToLower(rest)
	if strings.HasPrefix(rest, "[") {
		end := strings.Index(rest, "]")
		if end < 0 {
			return s, fmt.Errorf("invalid frame-src source %q", raw)
		}
		switch tail := rest[end+1:]; {
		case tail == "":
		case strings.HasPrefix(tail, ":"):
			s.Port = tail[1:]
		default:
			return s, fmt.Errorf("invalid frame-src source %q", raw)
		}
		// url.URL.Hostname strips the brackets
		rest = rest[1:end]
		if rest == "" || strings.Contains(rest, "*") {
			return s, fmt.Errorf("invalid frame-src source %q", raw)
		}
		s.Kind = KindHost
		s.Host = rest
		return s, nil
	}
	if i := strings.LastIndex(rest, ":"); i >= 0 {
		s.Port = rest[i+1:]
		rest = rest[:i]
	}
	if rest == "" {
		return s, fmt.Errorf("invalid frame-src source %q", raw)
	}
	if strings.Contains(rest[1:], "*") || (strings.HasPrefix(rest, "*") && !strings.HasPrefix(rest, "*.")) {
		return s, fmt.Errorf("invalid wildcard in frame-src source %q", raw)
	}
	s.Kind = KindHost
	s.Host = rest
	return s, nil
}

// Allows reports whether rawURL may be framed, and the matching source.
func (p *Policy) Allows(rawURL string) (bool, string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return false, "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return false, "", fmt.Errorf("url %q must be absolute", rawURL)
	}
	for _, s := range p.Sources {
		if s.matches(u, p.Self) {
			return true, s.Raw, nil
		}
	}
	return false, "", nil
}

func (s Source) matches(u *url.URL, self *url.URL) bool {
	scheme := strings.ToLower(u.Scheme)
	switch s.Kind {
	case KindNone:
		return false
	case KindAny:
		// * does not cover data:, blob: or filesystem: schemes
		return scheme == "http" || scheme == "https"
	case KindScheme:
		return scheme == s.Scheme || (s.Scheme == "http" && scheme == "https")
	case KindSelf:
		return self != nil && sameOrigin(u, self)
	}

	if s.Scheme != "" && s.Scheme != scheme && !(s.Scheme == "http" && scheme == "https") {
		return false
	}
	if s.Scheme == "" && scheme != "http" && scheme != "https" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if strings.HasPrefix(s.Host, "*.") {
		if !strings.HasSuffix(host, s.Host[1:]) {
			return false
		}
	} else if host != s.Host {
		return false
	}
	if s.Port != "*" {
		want := s.Port
		if want == "" {
			want = defaultPort(scheme)
		}
		got := u.Port()
		if got == "" {
			got = defaultPort(scheme)
		}
		if want != got {
			return false
		}
	}
	if s.Path != "" {
		path := u.EscapedPath()
		if path == "" {
			path = "/"
		}
		if strings.HasSuffix(s.Path, "/") {
			return strings.HasPrefix(path, s.Path)
		}
		return path == s.Path
	}
	return true
}

func sameOrigin(a, b *url.URL) bool {
	pa, pb := a.Port(), b.Port()
	if pa == "" {
		pa = defaultPort(a.Scheme)
	}
	if pb == "" {
		pb = defaultPort(b.Scheme)
	}
	return strings.EqualFold(a.Scheme, b.Scheme) && strings.EqualFold(a.Hostname(), b.Hostname()) && pa == pb
}

func defaultPort(scheme string) string {
	switch strings.ToLower(scheme) {
	case "http":
		return "80"
	case "https":
		return "443"
	}
	return ""
}

// Check is the advisory result for one URL.
type Check struct {
	URL     string `json:"url"`
	Allowed bool   `json:"allowed"`
	Source  string `json:"source,omitempty"`
	Warning string `json:"warning,omitempty"`
}

// Check evaluates rawURL and explains a refusal in Warning.
func (p *Policy) Check(rawURL string) Check {
	c := Check{URL: rawURL}
	allowed, src, err := p.Allows(rawURL)
	switch {
	case err != nil:
		c.Warning = err.Error()
	case !allowed:
		c.Warning = "host is not allowed by " + EnvVar + "; the preview will be blocked"
	default:
		c.Allowed = true
		c.Source = src
	}
	return c
}

// CheckPreview checks the url option of an evaluated url-preview form. It
// returns nil when p is nil, the interface is not a preview or no url is set.
func (p *Policy) CheckPreview(d iface.Descriptor, st form.State) *Check {
	if p == nil || d.ComponentName() != urlpreview.Component.ComponentName() {
		return nil
	}
	f, ok := st.Field(urlpreview.FieldURL)
	if !ok {
		return nil
	}
	raw, _ := f.Value.(string)
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	c := p.Check(raw)
	return &c
}
