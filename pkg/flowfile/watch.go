package flowfile

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a watcher waits after the last write before
// reloading.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reloads a document whenever its file is written. The parent
// directory is watched so editors that replace the file by rename are
// still seen.
type Watcher struct {
	path     string
	onChange func(*Document, error)
	log      *zap.Logger
	debounce time.Duration

	fs    *fsnotify.Watcher
	mu    sync.Mutex
	timer *time.Timer
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WatchLogger sets the watcher's logger.
func WatchLogger(l *zap.Logger) WatchOption {
	return func(w *Watcher) { w.log = l }
}

// WatchDebounce sets the quiet period before a reload.
func WatchDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) { w.debounce = d }
}

// NewWatcher starts watching path. onChange receives the reloaded document,
// or the read error, after each burst of writes.
func NewWatcher(path string, onChange func(*Document, error), opts ...WatchOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:     abs,
		onChange: onChange,
		log:      zap.NewNop(),
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if err := fs.Add(filepath.Dir(abs)); err != nil {
		fs.Close()
		return nil, fmt.Errorf("watching %s: %w", path, err)
	}
	w.fs = fs
	return w, nil
}

// Run delivers reloads until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	w.log.Info("watching document", zap.String("path", w.path))
	defer w.stopTimer()

	for {
		select {
		case <-ctx.Done():
			return w.Close()

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.log.Debug("document event", zap.String("op", event.Op.String()))
				w.schedule()
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Error("watcher error", zap.Error(err))
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *Watcher) reload() {
	doc, err := ReadFile(w.path)
	if err == nil {
		err = Validate(doc)
	}
	if err != nil {
		w.log.Warn("reload failed", zap.String("path", w.path), zap.Error(err))
		w.onChange(nil, err)
		return
	}

	w.log.Info("document reloaded", zap.String("path", w.path), zap.Int("nodes", len(doc.Nodes)))
	w.onChange(doc, nil)
}
