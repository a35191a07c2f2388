package theme

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a stylesheet when its directory changes on disk and hands
// the new CSS to a callback. Embedded stylesheets are never watched.
type Watcher struct {
	mu       sync.Mutex
	logger   *slog.Logger
	sheet    *Stylesheet
	onChange func(css string)

	watcher *fsnotify.Watcher
	done    chan struct{}
	running bool
}

// NewWatcher creates a watcher for sheet. onChange runs on the watcher's goroutine.
func NewWatcher(sheet *Stylesheet, onChange func(css string), logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		logger:   logger.With("stylesheet", sheet.Name),
		sheet:    sheet,
		onChange: onChange,
	}
}

// Start begins watching. It returns once the watch is registered.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running || w.sheet.Embedded {
		return nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// Watch the directory containing the file (more reliable for editors that replace files)
	if err := fw.Add(filepath.Dir(w.sheet.Path)); err != nil {
		_ = fw.Close()
		return err
	}

	w.watcher = fw
	w.done = make(chan struct{})
	w.running = true
	go w.watch(ctx, fw, w.done)

	w.logger.Debug("stylesheet watcher started", "path", w.sheet.Path)
	return nil
}

func (w *Watcher) watch(ctx context.Context, fw *fsnotify.Watcher, done chan struct{}) {
	for {
		select {
		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			// Imports live next to the stylesheet, so any css write counts
			if filepath.Ext(ev.Name) != ".css" {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				w.reload()
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("stylesheet watcher error", "error", err)

		case <-ctx.Done():
			_ = w.Stop()
			return

		case <-done:
			return
		}
	}
}

func (w *Watcher) reload() {
	w.mu.Lock()
	changed, err := w.sheet.Reload()
	css := w.sheet.CSS
	w.mu.Unlock()

	if err != nil {
		w.logger.Debug("stylesheet reload failed", "error", err)
		return
	}
	if !changed {
		return
	}

	w.logger.Info("stylesheet changed, reloading", "path", w.sheet.Path)
	if w.onChange != nil {
		w.onChange(css)
	}
}

// Stop stops watching.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}
	w.running = false
	close(w.done)
	return w.watcher.Close()
}

// Running reports whether the watcher is active.
func (w *Watcher) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
