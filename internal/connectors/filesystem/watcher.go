package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/riskrag/internal/core/ports/driven"
	"github.com/custodia-labs/riskrag/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.FolderWatcher = (*Watcher)(nil)

// DefaultDebounce is how long a path must be quiet before its event is emitted.
const DefaultDebounce = 500 * time.Millisecond

// ErrWatcherClosed is returned by Watch after Close.
var ErrWatcherClosed = errors.New("watcher is closed")

// Watcher reports PDF files created, rewritten or removed inside a folder.
// Subdirectories are not watched.
type Watcher struct {
	debounce time.Duration

	mu       sync.Mutex
	closed   bool
	watchers map[*fsnotify.Watcher]struct{}
}

// New creates a Watcher with DefaultDebounce.
func New() *Watcher {
	return NewWithDebounce(DefaultDebounce)
}

// NewWithDebounce creates a Watcher with a custom quiet interval.
// A non-positive interval emits every event as soon as it arrives.
func NewWithDebounce(d time.Duration) *Watcher {
	return &Watcher{
		debounce: d,
		watchers: make(map[*fsnotify.Watcher]struct{}),
	}
}

// Watch starts watching dir. The returned channel is closed when ctx is
// cancelled or the Watcher is closed.
func (w *Watcher) Watch(ctx context.Context, dir string) (<-chan driven.FileEvent, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path error: %s is not a directory", dir)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil, ErrWatcherClosed
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	w.watchers[fsw] = struct{}{}

	out := make(chan driven.FileEvent)
	go w.run(ctx, fsw, out)

	logger.Debug("watching folder", "dir", dir, "debounce", w.debounce)
	return out, nil
}

// Close stops every active watch. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	var errs []error
	for fsw := range w.watchers {
		if err := fsw.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	w.watchers = make(map[*fsnotify.Watcher]struct{})
	return errors.Join(errs...)
}

type pendingEvent struct {
	op   driven.FileOperation
	seen time.Time
}

func (w *Watcher) run(ctx context.Context, fsw *fsnotify.Watcher, out chan<- driven.FileEvent) {
	defer close(out)
	defer w.release(fsw)

	pending := make(map[string]pendingEvent)

	var tick <-chan time.Time
	if w.debounce > 0 {
		ticker := time.NewTicker(w.debounce / 2)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			fe := handleFsEvent(event)
			if fe == nil {
				continue
			}
			if w.debounce <= 0 {
				if !send(ctx, out, *fe) {
					return
				}
				continue
			}
			pending[fe.Path] = pendingEvent{
				op:   mergeOperation(pending[fe.Path], fe.Operation),
				seen: time.Now(),
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("folder watcher error", "error", err)

		case now := <-tick:
			for _, path := range duePaths(pending, now, w.debounce) {
				fe := driven.FileEvent{Path: path, Operation: pending[path].op}
				delete(pending, path)
				if !send(ctx, out, fe) {
					return
				}
			}
		}
	}
}

func (w *Watcher) release(fsw *fsnotify.Watcher) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.watchers[fsw]; ok {
		delete(w.watchers, fsw)
		_ = fsw.Close()
	}
}

func send(ctx context.Context, out chan<- driven.FileEvent, fe driven.FileEvent) bool {
	select {
	case out <- fe:
		return true
	case <-ctx.Done():
		return false
	}
}

// duePaths returns the paths quiet for at least d, sorted for stable output.
func duePaths(pending map[string]pendingEvent, now time.Time, d time.Duration) []string {
	var due []string
	for path, p := range pending {
		if now.Sub(p.seen) >= d {
			due = append(due, path)
		}
	}
	sort.Strings(due)
	return due
}

// mergeOperation folds a new operation into a pending one.
// A file created and then written is still a creation.
func mergeOperation(prev pendingEvent, next driven.FileOperation) driven.FileOperation {
	if prev.seen.IsZero() {
		return next
	}
	if prev.op == driven.FileCreated && next == driven.FileModified {
		return driven.FileCreated
	}
	return next
}

// handleFsEvent maps an fsnotify event to a FileEvent, or nil when the event
// is not about a visible PDF file.
func handleFsEvent(event fsnotify.Event) *driven.FileEvent {
	if isHidden(filepath.Base(event.Name)) || !isPDF(event.Name) {
		return nil
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return &driven.FileEvent{Path: event.Name, Operation: driven.FileDeleted}

	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		info, err := os.Stat(event.Name)
		if err != nil || info.IsDir() {
			return nil
		}
		op := driven.FileModified
		if event.Has(fsnotify.Create) {
			op = driven.FileCreated
		}
		return &driven.FileEvent{Path: event.Name, Operation: op}

	default:
		return nil
	}
}

func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// isHidden reports whether any element of path starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "" || part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
