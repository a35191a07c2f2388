package daemon

import (
	"context"
	"log/slog"
	"os"
	"reflect"
	"sync"
	"time"

	"github.com/jmylchreest/toastui/internal/config"
)

// DefaultPollInterval is how often the config file is checked.
const DefaultPollInterval = time.Second

// fileStamp identifies one version of the config file on disk.
type fileStamp struct {
	modTime time.Time
	size    int64
}

func stampOf(path string) (fileStamp, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return fileStamp{}, false
	}
	return fileStamp{modTime: info.ModTime(), size: info.Size()}, true
}

// ConfigWatcher polls the config file and hands every valid change to a
// callback. A file that fails to load or validate is reported and the last good
// config is kept.
type ConfigWatcher struct {
	path   string
	logger *slog.Logger

	mu       sync.Mutex
	interval time.Duration
	onReload func(*config.Config)
	onError  func(error)
	current  *config.Config
	stamp    fileStamp
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewConfigWatcher creates a ConfigWatcher for path.
func NewConfigWatcher(path string, logger *slog.Logger) *ConfigWatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConfigWatcher{
		path:     path,
		logger:   logger.With("config", path),
		interval: DefaultPollInterval,
	}
}

// SetPollInterval sets the polling interval. It applies from the next Start.
func (w *ConfigWatcher) SetPollInterval(interval time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.interval = interval
}

// SetReloadCallback sets the callback invoked with each valid new config.
// It runs on the watcher's goroutine.
func (w *ConfigWatcher) SetReloadCallback(fn func(*config.Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReload = fn
}

// SetErrorCallback sets the callback invoked when a changed file is rejected.
func (w *ConfigWatcher) SetErrorCallback(fn func(error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onError = fn
}

// Start records initial as the current config and polls until ctx is done or
// Stop is called. Starting a running watcher does nothing.
func (w *ConfigWatcher) Start(ctx context.Context, initial *config.Config) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		return nil
	}

	w.current = initial
	w.stamp, _ = stampOf(w.path)

	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})
	go w.poll(ctx, w.interval, w.done)

	w.logger.Debug("config watcher started", "interval", w.interval)
	return nil
}

// Stop ends polling and waits for the poller to exit.
func (w *ConfigWatcher) Stop() {
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.cancel, w.done = nil, nil
	w.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	w.logger.Debug("config watcher stopped")
}

// Current returns the last valid configuration.
func (w *ConfigWatcher) Current() *config.Config {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

func (w *ConfigWatcher) poll(ctx context.Context, interval time.Duration, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.check()
		}
	}
}

// check reloads the file when its stamp changed. Removing the file is not a
// change; the daemon keeps running on what it has.
func (w *ConfigWatcher) check() {
	stamp, ok := stampOf(w.path)
	if !ok {
		return
	}

	w.mu.Lock()
	if stamp == w.stamp {
		w.mu.Unlock()
		return
	}
	w.stamp = stamp
	current, onReload, onError := w.current, w.onReload, w.onError
	w.mu.Unlock()

	next, err := config.LoadConfig(w.path)
	if err != nil {
		w.logger.Warn("config file changed but was rejected", "error", err)
		if onError != nil {
			onError(err)
		}
		return
	}
	if reflect.DeepEqual(next, current) {
		w.logger.Debug("config file touched without changes")
		return
	}

	w.mu.Lock()
	w.current = next
	w.mu.Unlock()

	w.logger.Info("config reloaded")
	if onReload != nil {
		onReload(next)
	}
}
