// Package inbox watches a directory and imports text files dropped into it
// as articles.
package inbox

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/lingua/internal/core/domain"
	"github.com/custodia-labs/lingua/internal/core/ports/driving"
	"github.com/custodia-labs/lingua/internal/logger"
)

// DefaultDebounce is how long a file must stay quiet before it is imported.
const DefaultDebounce = 300 * time.Millisecond

var supportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".docx":     true,
	".eml":      true,
}

// Result reports the outcome of importing one file.
type Result struct {
	Path    string
	Article *domain.Article
	Err     error
}

// Watcher imports files written into a directory.
type Watcher struct {
	dir          string
	importer     driving.LibraryService
	collectionID string
	debounce     time.Duration

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	timers  map[string]*time.Timer
	closed  bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a changed file is imported.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithCollection files imported articles under a collection.
func WithCollection(id string) Option {
	return func(w *Watcher) {
		w.collectionID = id
	}
}

// New creates a watcher for dir.
func New(dir string, importer driving.LibraryService, opts ...Option) *Watcher {
	w := &Watcher{
		dir:      dir,
		importer: importer,
		debounce: DefaultDebounce,
		timers:   make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Watch starts watching the directory. The returned channel receives one
// Result per imported file and is closed when ctx is cancelled.
func (w *Watcher) Watch(ctx context.Context) (<-chan Result, error) {
	info, err := os.Stat(w.dir)
	if err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path error: %s is not a directory", w.dir)
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil, errors.New("inbox watcher is closed")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(w.dir); err != nil {
		fsw.Close()
		w.mu.Unlock()
		return nil, fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.watcher = fsw
	w.mu.Unlock()

	ready := make(chan string, 16)
	results := make(chan Result)

	go w.collect(ctx, fsw, ready)
	go w.importLoop(ctx, ready, results)

	return results, nil
}

// collect turns filesystem events into debounced import requests.
func (w *Watcher) collect(ctx context.Context, fsw *fsnotify.Watcher, ready chan<- string) {
	defer fsw.Close()

	for {
		select {
		case <-ctx.Done():
			w.stopTimers()
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			path, ok := w.handleFsEvent(event)
			if !ok {
				continue
			}
			w.schedule(ctx, path, ready)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("inbox: watch error: %v", err)
		}
	}
}

func (w *Watcher) schedule(ctx context.Context, path string, ready chan<- string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		select {
		case ready <- path:
		case <-ctx.Done():
		}
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}

// importLoop imports ready files one at a time.
func (w *Watcher) importLoop(ctx context.Context, ready <-chan string, results chan<- Result) {
	defer close(results)

	for {
		select {
		case <-ctx.Done():
			return
		case path := <-ready:
			result := w.importFile(ctx, path)
			select {
			case results <- result:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (w *Watcher) importFile(ctx context.Context, path string) Result {
	content, err := os.ReadFile(path)
	if err != nil {
		return Result{Path: path, Err: fmt.Errorf("read %s: %w", path, err)}
	}

	article, err := w.importer.ImportRaw(ctx, &domain.RawDocument{
		URI:     path,
		Content: content,
	}, w.collectionID)
	if err != nil {
		logger.Warn("inbox: import %s: %v", path, err)
		return Result{Path: path, Err: err}
	}

	logger.Info("inbox: imported %s as %q", path, article.Title)
	return Result{Path: path, Article: article}
}

// handleFsEvent returns the path to import for an event, if any.
// Only creates and writes of visible regular files with a supported
// extension are imported.
func (w *Watcher) handleFsEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	if isHidden(event.Name) {
		return "", false
	}
	if !supportedExtensions[strings.ToLower(filepath.Ext(event.Name))] {
		return "", false
	}

	info, err := os.Stat(event.Name)
	if err != nil || info.IsDir() {
		return "", false
	}
	return event.Name, true
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
