package settings

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/b0bbywan/go-luminous-portal/logger"
)

// Watcher observes the settings document's directory tree and calls onChange
// for every notification it accepts.
//
// Notifications cross into the consumer loop through a channel of capacity 1.
// When a reload is already pending the new notification is dropped: delivery
// is best effort. A watch error or a closed stream stops the watcher for good.
type Watcher struct {
	dir      string
	fs       *fsnotify.Watcher
	pending  chan fsnotify.Event
	onChange func()
	dropped  atomic.Uint64

	done      chan struct{}
	closeOnce sync.Once
}

// NewWatcher watches the parent directory of path, recursively.
func NewWatcher(path string, onChange func()) (*Watcher, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		dir:      dir,
		fs:       fw,
		pending:  make(chan fsnotify.Event, 1),
		onChange: onChange,
		done:     make(chan struct{}),
	}

	if err := w.addRecursive(dir); err != nil {
		if closeErr := fw.Close(); closeErr != nil {
			logger.Info("[watcher] failed to close watcher: %v", closeErr)
		}
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fs.Add(p); err != nil {
			return err
		}
		logger.Debug("[watcher] watching %s", p)
		return nil
	})
}

// Start launches the forwarding and consumer loops.
func (w *Watcher) Start(ctx context.Context) {
	logger.Info("[watcher] monitoring %s", w.dir)
	go w.forward(ctx)
	go w.consume(ctx)
}

// Close stops both loops. Safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fs.Close()
	})
	return err
}

// Dropped returns the number of notifications discarded because a reload was pending.
func (w *Watcher) Dropped() uint64 {
	return w.dropped.Load()
}

// forward drains fsnotify and hands events to the consumer without blocking.
// It owns w.pending and closes it on exit, which ends the consumer.
func (w *Watcher) forward(ctx context.Context) {
	defer close(w.pending)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				logger.Warn("[watcher] notification stream closed, watcher stopped")
				return
			}
			if event.Has(fsnotify.Create) {
				w.watchIfDir(event.Name)
			}
			w.enqueue(event)

		case err, ok := <-w.fs.Errors:
			if !ok {
				logger.Warn("[watcher] error stream closed, watcher stopped")
				return
			}
			logger.Error("[watcher] fsnotify watcher error, watcher stopped: %v", err)
			if closeErr := w.Close(); closeErr != nil {
				logger.Warn("[watcher] failed to close watcher: %v", closeErr)
			}
			return
		}
	}
}

func (w *Watcher) watchIfDir(name string) {
	info, err := os.Stat(name)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.addRecursive(name); err != nil {
		logger.Warn("[watcher] failed to watch new directory %s: %v", name, err)
	}
}

func (w *Watcher) enqueue(event fsnotify.Event) {
	select {
	case w.pending <- event:
	default:
		w.dropped.Add(1)
		logger.Warn("[watcher] reload already pending, dropping %s", event)
	}
}

func (w *Watcher) consume(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.pending:
			if !ok {
				return
			}
			logger.Debug("[watcher] %s, reloading", event)
			w.onChange()
		}
	}
}
