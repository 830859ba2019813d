package interfaces

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron"

	"github.com/faciam-dev/urlpreview/pkg/iface"
)

// Watcher keeps the registry in sync with a directory of descriptor files.
type Watcher struct {
	dir      string
	reg      Registry
	debounce time.Duration
	logger   *slog.Logger

	mu       sync.Mutex
	known    map[string][]string // path -> ids
	stopOnce sync.Once
}

func NewWatcher(dir string, reg Registry, debounce time.Duration, logger *slog.Logger) *Watcher {
	if debounce <= 0 {
		debounce = 250 * time.Millisecond
	}
	return &Watcher{dir: dir, reg: reg, debounce: debounce, logger: logger, known: map[string][]string{}}
}

// Sync reloads the whole directory. Files that fail to load keep their
// previously applied descriptors.
func (w *Watcher) Sync(ctx context.Context) error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	seen := map[string]struct{}{}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || shouldIgnore(e.Name()) || !isDescriptorFile(e.Name()) {
			continue
		}
		p := filepath.Join(w.dir, e.Name())
		seen[p] = struct{}{}
		paths = append(paths, p)
	}
	for p := range w.known {
		if _, ok := seen[p]; !ok {
			paths = append(paths, p)
		}
	}
	return w.applyPaths(ctx, paths)
}

// Start begins watching. Returns stop function.
func (w *Watcher) Start(ctx context.Context) (func(), error) {
	ctx, cancel := context.WithCancel(ctx)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		cancel()
		return nil, err
	}
	if err := fw.Add(w.dir); err != nil {
		fw.Close()
		cancel()
		return nil, err
	}

	changes := make(chan string, 1024)
	go func() {
		defer fw.Close()
		for {
			select {
			case ev := <-fw.Events:
				if shouldIgnore(ev.Name) || !isDescriptorFile(ev.Name) {
					continue
				}
				changes <- ev.Name
			case err := <-fw.Errors:
				if err != nil {
					w.logger.Warn("fsnotify error", "err", err)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(w.debounce)
		defer ticker.Stop()
		pending := map[string]struct{}{}
		for {
			select {
			case p := <-changes:
				pending[p] = struct{}{}
			case <-ticker.C:
				if len(pending) == 0 {
					continue
				}
				paths := make([]string, 0, len(pending))
				for p := range pending {
					paths = append(paths, p)
				}
				pending = map[string]struct{}{}
				w.mu.Lock()
				if err := w.applyPaths(ctx, paths); err != nil {
					w.logger.Error("apply diff failed", "err", err)
				}
				w.mu.Unlock()
			case <-ctx.Done():
				return
			}
		}
	}()

	return func() { w.stopOnce.Do(cancel) }, nil
}

// ScheduleResync runs Sync on a fixed interval to recover from missed
// filesystem events.
func (w *Watcher) ScheduleResync(ctx context.Context, every time.Duration) (*gocron.Scheduler, error) {
	s := gocron.NewScheduler(time.UTC)
	if _, err := s.Every(every).WaitForSchedule().Do(func() {
		if err := w.Sync(ctx); err != nil {
			w.logger.Warn("interface resync", "dir", w.dir, "err", err)
		}
	}); err != nil {
		return nil, err
	}
	s.StartAsync()
	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return s, nil
}

// applyPaths must be called with w.mu held.
func (w *Watcher) applyPaths(ctx context.Context, paths []string) error {
	var upserts []iface.Descriptor
	var removes []string
	next := map[string][]string{}
	for _, p := range paths {
		ds, err := LoadOne(p)
		if errors.Is(err, os.ErrNotExist) {
			removes = append(removes, w.known[p]...)
			next[p] = nil
			continue
		}
		if err != nil {
			w.logger.Warn("skip invalid interface file", "path", p, "err", err)
			continue
		}
		if id := w.builtinID(ds); id != "" {
			w.logger.Warn("skip interface file overriding a built-in", "path", p, "id", id)
			continue
		}
		ids := make([]string, 0, len(ds))
		for _, d := range ds {
			ids = append(ids, d.ID)
		}
		for _, old := range w.known[p] {
			if !contains(ids, old) {
				removes = append(removes, old)
			}
		}
		upserts = append(upserts, ds...)
		next[p] = ids
	}
	// an id moved between files is an upsert, not a removal
	kept := removes[:0]
	for _, id := range removes {
		moved := false
		for _, d := range upserts {
			if d.ID == id {
				moved = true
				break
			}
		}
		if !moved {
			kept = append(kept, id)
		}
	}
	removes = kept[:0]
	for _, id := range kept {
		if e, ok := w.reg.Get(id); ok && e.Source == SourceBuiltin {
			continue
		}
		removes = append(removes, id)
	}
	if len(upserts) == 0 && len(removes) == 0 {
		return nil
	}
	if _, _, err := w.reg.ApplyDiff(ctx, upserts, removes); err != nil {
		return err
	}
	for p, ids := range next {
		if ids == nil {
			delete(w.known, p)
			continue
		}
		w.known[p] = ids
	}
	return nil
}

// builtinID returns the first id in ds owned by a compiled-in descriptor.
func (w *Watcher) builtinID(ds []iface.Descriptor) string {
	for _, d := range ds {
		if e, ok := w.reg.Get(d.ID); ok && e.Source == SourceBuiltin {
			return d.ID
		}
	}
	return ""
}
