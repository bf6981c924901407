package screencast

import (
	"context"
	"math/bits"
	"sort"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/b0bbywan/go-luminous-portal/config"
	"github.com/b0bbywan/go-luminous-portal/events"
	"github.com/b0bbywan/go-luminous-portal/logger"
)

// ScreenCastBackend keeps the table of open sessions. It negotiates sessions
// only; no frames are ever captured here.
type ScreenCastBackend struct {
	ctx      context.Context
	ttl      time.Duration
	sessions *ttlcache.Cache[string, *Session]
	eventsC  chan events.Event

	sourceTypes SourceType
	cursorModes CursorMode

	// mu guards session state transitions.
	mu      sync.Mutex
	started bool
}

// New creates the screencast backend. It returns nil when disabled.
func New(ctx context.Context, cfg *config.ScreenCastConfig) (*ScreenCastBackend, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	sessions := ttlcache.New[string, *Session](
		ttlcache.WithTTL[string, *Session](cfg.SessionTTL),
	)

	backend := &ScreenCastBackend{
		ctx:         ctx,
		ttl:         cfg.SessionTTL,
		sessions:    sessions,
		eventsC:     make(chan events.Event, 16),
		sourceTypes: AllSourceTypes,
		cursorModes: AllCursorModes,
	}
	sessions.OnEviction(backend.onEviction)

	logger.Info("[screencast] backend initialized (session ttl %s)", cfg.SessionTTL)
	return backend, nil
}

// Start runs the expiry loop when sessions expire.
func (b *ScreenCastBackend) Start() error {
	if b.ttl <= 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.started {
		b.started = true
		go b.sessions.Start()
	}
	return nil
}

func (b *ScreenCastBackend) Close() {
	b.mu.Lock()
	started := b.started
	b.started = false
	b.mu.Unlock()
	if started {
		b.sessions.Stop()
	}
}

func (b *ScreenCastBackend) Events() <-chan events.Event {
	return b.eventsC
}

func (b *ScreenCastBackend) AvailableSourceTypes() SourceType {
	return b.sourceTypes
}

func (b *ScreenCastBackend) AvailableCursorModes() CursorMode {
	return b.cursorModes
}

func (b *ScreenCastBackend) onEviction(_ context.Context, reason ttlcache.EvictionReason, item *ttlcache.Item[string, *Session]) {
	if reason != ttlcache.EvictionReasonExpired {
		return
	}
	logger.Info("[screencast] session %s expired", item.Key())
	e := events.Event{Type: events.TypeSessionClosed, Data: events.SessionClosedData{Path: item.Key()}}
	select {
	case b.eventsC <- e:
	default:
		logger.Warn("[screencast] event channel full, dropping %s event", events.TypeSessionClosed)
	}
}

// CreateSession opens a session at path for appID.
func (b *ScreenCastBackend) CreateSession(path, appID string) (Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.sessions.Has(path) {
		return Session{}, &SessionExistsError{Path: path}
	}
	s := &Session{
		Path:      path,
		AppID:     appID,
		State:     StateCreated,
		CreatedAt: time.Now(),
	}
	b.sessions.Set(path, s, ttlcache.DefaultTTL)
	logger.Debug("[screencast] session %s created for %s", path, appID)
	return *s, nil
}

// lookup returns the live session at path owned by appID. Caller holds mu.
func (b *ScreenCastBackend) lookup(path, appID string) (*Session, error) {
	item := b.sessions.Get(path)
	if item == nil {
		return nil, &SessionNotFoundError{Path: path}
	}
	s := item.Value()
	if s.AppID != appID {
		return nil, &SessionOwnerError{Path: path, AppID: appID}
	}
	return s, nil
}

// Session returns a copy of the session at path.
func (b *ScreenCastBackend) Session(path string) (Session, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	item := b.sessions.Get(path, ttlcache.WithDisableTouchOnHit[string, *Session]())
	if item == nil {
		return Session{}, false
	}
	return *item.Value(), true
}

// Sessions returns the paths of every open session.
func (b *ScreenCastBackend) Sessions() []string {
	keys := b.sessions.Keys()
	sort.Strings(keys)
	return keys
}

func (b *ScreenCastBackend) validate(sel Selection) (Selection, error) {
	if sel.Types == 0 {
		sel.Types = SourceMonitor
	}
	if sel.Types&^b.sourceTypes != 0 {
		return sel, &SelectionError{Field: "types", Message: "unsupported source type " + sel.Types.String()}
	}
	if sel.CursorMode == 0 {
		sel.CursorMode = CursorHidden
	}
	if bits.OnesCount32(uint32(sel.CursorMode)) != 1 || sel.CursorMode&^b.cursorModes != 0 {
		return sel, &SelectionError{Field: "cursor_mode", Message: "exactly one available cursor mode is required"}
	}
	return sel, nil
}

// SelectSources records the sources a session will capture.
// Sources can be reselected until the session is started.
func (b *ScreenCastBackend) SelectSources(path, appID string, sel Selection) (Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, err := b.lookup(path, appID)
	if err != nil {
		return Session{}, err
	}
	if s.State == StateStarted {
		return Session{}, &StateError{Path: path, Have: s.State, Want: StateCreated}
	}
	valid, err := b.validate(sel)
	if err != nil {
		return Session{}, err
	}
	s.Selection = valid
	s.State = StateSourcesSelected
	logger.Debug("[screencast] session %s selected %s", path, valid.Types)
	return *s, nil
}

// StartSession marks a session with selected sources as started.
func (b *ScreenCastBackend) StartSession(path, appID string) (Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, err := b.lookup(path, appID)
	if err != nil {
		return Session{}, err
	}
	if s.State != StateSourcesSelected {
		return Session{}, &StateError{Path: path, Have: s.State, Want: StateSourcesSelected}
	}
	s.State = StateStarted
	logger.Info("[screencast] session %s started for %s", path, appID)
	return *s, nil
}

// CloseSession removes the session at path.
func (b *ScreenCastBackend) CloseSession(path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.sessions.GetAndDelete(path); !ok {
		return &SessionNotFoundError{Path: path}
	}
	logger.Debug("[screencast] session %s closed", path)
	return nil
}
