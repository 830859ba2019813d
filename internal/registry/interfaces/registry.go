package interfaces

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/faciam-dev/urlpreview/internal/util"
	"github.com/faciam-dev/urlpreview/pkg/iface"
	"github.com/faciam-dev/urlpreview/pkg/iface/urlpreview"
)

var (
	ErrNotFound    = errors.New("interface not found")
	ErrDuplicateID = errors.New("interface id already registered")
	ErrBuiltin     = errors.New("built-in interface cannot be changed")
)

// Source tells where a registered descriptor came from.
type Source string

const (
	SourceBuiltin Source = "builtin"
	SourceFile    Source = "file"
)

// Entry is a registered descriptor.
type Entry struct {
	Descriptor iface.Descriptor `json:"descriptor"`
	Source     Source           `json:"source"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

type Event struct {
	Type  string
	Entry *Entry
	ID    string
}

type Options struct {
	Type   string
	Group  string
	Q      string
	Limit  int
	Offset int
}

type Registry interface {
	Register(d iface.Descriptor) error
	Get(id string) (Entry, bool)
	Has(id string) bool
	List(ctx context.Context, opt Options) ([]Entry, int, string, time.Time, error)
	ApplyDiff(ctx context.Context, upserts []iface.Descriptor, removes []string) (string, time.Time, error)
	Subscribe() (<-chan Event, func())
	CountBySource(ctx context.Context) (map[string]int, error)
}

type inMemory struct {
	mu      sync.RWMutex
	items   map[string]Entry
	subs    map[chan Event]struct{}
	lastMod time.Time
	etag    string
	now     func() time.Time
}

func NewInMemory() Registry {
	r := &inMemory{
		items: make(map[string]Entry),
		subs:  make(map[chan Event]struct{}),
		now:   func() time.Time { return time.Now().UTC() },
	}
	r.etag, r.lastMod = computeStateHash(r.items)
	return r
}

// Builtins returns a registry holding every compiled-in interface.
func Builtins() Registry {
	r := NewInMemory()
	MustRegister(r, urlpreview.Definition())
	return r
}

// MustRegister registers d and panics on error.
func MustRegister(r Registry, d iface.Descriptor) {
	if err := r.Register(d); err != nil {
		panic(fmt.Errorf("register interface: %w", err))
	}
}

// Register adds a compiled-in descriptor. Built-ins are validated, cannot be
// replaced and never removed.
func (r *inMemory) Register(d iface.Descriptor) error {
	if err := iface.Validate(d); err != nil {
		return err
	}
	r.mu.Lock()
	if _, exists := r.items[d.ID]; exists {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDuplicateID, d.ID)
	}
	e := Entry{Descriptor: d.Clone(), Source: SourceBuiltin, UpdatedAt: r.now()}
	r.items[d.ID] = e
	r.etag, r.lastMod = computeStateHash(r.items)
	subs := cloneSubs(r.subs)
	r.mu.Unlock()

	broadcast(subs, Event{Type: "upsert", Entry: &e, ID: d.ID})
	return nil
}

// Get returns a copy of the entry so callers cannot mutate registry state.
func (r *inMemory) Get(id string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.items[id]
	if !ok {
		return Entry{}, false
	}
	e.Descriptor = e.Descriptor.Clone()
	return e, true
}

func (r *inMemory) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.items[id]
	return ok
}

func (r *inMemory) List(ctx context.Context, opt Options) ([]Entry, int, string, time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var filtered []Entry
	for _, e := range r.items {
		d := e.Descriptor
		if opt.Type != "" && !contains(d.Types, opt.Type) {
			continue
		}
		if opt.Group != "" && !strings.EqualFold(d.Group, opt.Group) {
			continue
		}
		if opt.Q != "" {
			q := strings.ToLower(opt.Q)
			if !strings.Contains(strings.ToLower(d.ID), q) &&
				!strings.Contains(strings.ToLower(d.Name), q) &&
				!strings.Contains(strings.ToLower(d.Description), q) {
				continue
			}
		}
		filtered = append(filtered, e)
	}

	sort.Slice(filtered, func(i, j int) bool { return filtered[i].Descriptor.ID < filtered[j].Descriptor.ID })
	total := len(filtered)

	if opt.Offset < 0 {
		opt.Offset = 0
	}
	opt.Limit = util.SanitizeLimit(opt.Limit)
	start := opt.Offset
	if start > total {
		start = total
	}
	end := start + opt.Limit
	if end > total {
		end = total
	}
	items := make([]Entry, 0, end-start)
	for _, e := range filtered[start:end] {
		e.Descriptor = e.Descriptor.Clone()
		items = append(items, e)
	}

	return items, total, r.etag, r.lastMod, nil
}

// ApplyDiff replaces file-sourced descriptors. The batch is rejected as a whole
// when any upsert is invalid or any id belongs to a built-in.
func (r *inMemory) ApplyDiff(ctx context.Context, upserts []iface.Descriptor, removes []string) (string, time.Time, error) {
	for _, d := range upserts {
		if err := iface.Validate(d); err != nil {
			return "", time.Time{}, err
		}
	}

	r.mu.Lock()
	for _, d := range upserts {
		if e, ok := r.items[d.ID]; ok && e.Source == SourceBuiltin {
			r.mu.Unlock()
			return "", time.Time{}, fmt.Errorf("%w: %s", ErrBuiltin, d.ID)
		}
	}
	for _, id := range removes {
		if e, ok := r.items[id]; ok && e.Source == SourceBuiltin {
			r.mu.Unlock()
			return "", time.Time{}, fmt.Errorf("%w: %s", ErrBuiltin, id)
		}
	}
	now := r.now()
	applied := make([]Entry, 0, len(upserts))
	for _, d := range upserts {
		e := Entry{Descriptor: d.Clone(), Source: SourceFile, UpdatedAt: now}
		r.items[d.ID] = e
		applied = append(applied, e)
	}
	var removed []string
	for _, id := range removes {
		if _, ok := r.items[id]; ok {
			delete(r.items, id)
			removed = append(removed, id)
		}
	}
	r.etag, r.lastMod = computeStateHash(r.items)
	etag, last := r.etag, r.lastMod
	subs := cloneSubs(r.subs)
	r.mu.Unlock()

	for i := range applied {
		e := applied[i]
		broadcast(subs, Event{Type: "upsert", Entry: &e, ID: e.Descriptor.ID})
	}
	for _, id := range removed {
		broadcast(subs, Event{Type: "remove", ID: id})
	}

	return etag, last, nil
}

func (r *inMemory) CountBySource(ctx context.Context) (map[string]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := map[string]int{string(SourceBuiltin): 0, string(SourceFile): 0}
	for _, e := range r.items {
		out[string(e.Source)]++
	}
	return out, nil
}

func (r *inMemory) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16) // allow brief slowdowns without dropping events
	r.mu.Lock()
	r.subs[ch] = struct{}{}
	r.mu.Unlock()
	return ch, func() {
		r.mu.Lock()
		delete(r.subs, ch)
		r.mu.Unlock()
	}
}

func broadcast(subs map[chan Event]struct{}, ev Event) {
	for ch := range subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func cloneSubs(m map[chan Event]struct{}) map[chan Event]struct{} {
	out := make(map[chan Event]struct{}, len(m))
	for k := range m {
		out[k] = struct{}{}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func computeStateHash(items map[string]Entry) (string, time.Time) {
	if len(items) == 0 {
		sum := sha256.Sum256(nil)
		return "\"" + hex.EncodeToString(sum[:]) + "\"", time.Time{}
	}
	parts := make([]string, 0, len(items))
	var last time.Time
	for id, e := range items {
		if e.UpdatedAt.After(last) {
			last = e.UpdatedAt
		}
		parts = append(parts, id+"@"+string(e.Source)+"#"+e.UpdatedAt.UTC().Format(time.RFC3339Nano))
	}
	sort.Strings(parts)
	h := sha256.Sum256([]byte(strings.Join(parts, "")))
	return "\"" + hex.EncodeToString(h[:]) + "\"", last
}
