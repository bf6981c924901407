package settings

import (
	"context"
	"sync"

	"github.com/b0bbywan/go-luminous-portal/config"
	"github.com/b0bbywan/go-luminous-portal/events"
	"github.com/b0bbywan/go-luminous-portal/logger"
)

type SettingsBackend struct {
	ctx     context.Context
	store   *Store
	watch   bool
	watcher *Watcher
	eventsC chan events.Event

	// reloadMu serializes reload and emission so the events of two reloads never interleave.
	reloadMu sync.Mutex
}

// New creates the settings backend and performs the initial load.
func New(ctx context.Context, cfg *config.SettingsConfig) (*SettingsBackend, error) {
	if cfg == nil {
		cfg = &config.SettingsConfig{}
	}
	if cfg.Path == "" {
		logger.Warn("[settings] no settings document, serving defaults")
	}

	backend := &SettingsBackend{
		ctx:     ctx,
		store:   NewStore(cfg.Path),
		watch:   cfg.Watch && cfg.Path != "",
		eventsC: make(chan events.Event, 16),
	}

	logger.Info("[settings] backend initialized (%s)", cfg.Path)
	return backend, nil
}

// Start starts the document watcher when enabled. A watcher that cannot be
// set up is logged; the backend keeps serving the loaded snapshot.
func (b *SettingsBackend) Start() error {
	if !b.watch {
		return nil
	}
	w, err := NewWatcher(b.store.Path(), b.onDocumentChanged)
	if err != nil {
		logger.Error("[settings] failed to start watcher: %v", err)
		return nil
	}
	b.watcher = w
	w.Start(b.ctx)
	return nil
}

func (b *SettingsBackend) Close() {
	if b.watcher != nil {
		if err := b.watcher.Close(); err != nil {
			logger.Warn("[settings] failed to close watcher: %v", err)
		}
		b.watcher = nil
	}
}

func (b *SettingsBackend) Events() <-chan events.Event {
	return b.eventsC
}

// Watching reports whether document changes are followed.
func (b *SettingsBackend) Watching() bool {
	return b.watch
}

func (b *SettingsBackend) Store() *Store {
	return b.store
}

func checkNamespace(namespace string) error {
	if namespace != NAMESPACE_APPEARANCE {
		return &NamespaceError{Namespace: namespace}
	}
	return nil
}

// ReadOne returns the wire value of one key.
func (b *SettingsBackend) ReadOne(namespace, key string) (any, error) {
	if err := checkNamespace(namespace); err != nil {
		return nil, err
	}
	return b.store.Snapshot().Value(key)
}

// ReadAll returns every key of namespace from a single snapshot.
func (b *SettingsBackend) ReadAll(namespace string) (map[string]any, error) {
	if err := checkNamespace(namespace); err != nil {
		return nil, err
	}
	return b.store.Snapshot().Values(), nil
}

// Reload re-reads the document and, on success, emits one change event per
// key: color-scheme first, then accent-color. Values are not diffed.
func (b *SettingsBackend) Reload() error {
	b.reloadMu.Lock()
	defer b.reloadMu.Unlock()

	cfg, err := b.store.Reload()
	if err != nil {
		logger.Error("[settings] reload failed, keeping previous settings: %v", err)
		return err
	}
	logger.Debug("[settings] reloaded: scheme=%s accent=%s", cfg.ColorScheme, cfg.AccentColor.Hex())

	for _, key := range Keys {
		value, _ := cfg.Value(key)
		b.notify(key, value)
	}
	return nil
}

func (b *SettingsBackend) onDocumentChanged() {
	_ = b.Reload()
}

func (b *SettingsBackend) notify(key string, value any) {
	e := events.Event{
		Type: events.TypeSettingChanged,
		Data: events.SettingChangedData{Namespace: NAMESPACE_APPEARANCE, Key: key, Value: value},
	}
	select {
	case b.eventsC <- e:
	case <-b.ctx.Done():
	}
}
