package settings

import (
	"sync"

	"github.com/b0bbywan/go-luminous-portal/logger"
)

// Config is one immutable settings snapshot.
type Config struct {
	ColorScheme ColorScheme
	AccentColor AccentColor
}

// Default returns the configuration used when nothing valid is on disk.
func Default() Config {
	accent, err := ParseAccentColor(DEFAULT_ACCENT_COLOR)
	if err != nil {
		panic("settings: invalid default accent color: " + err.Error())
	}
	return Config{ColorScheme: SchemeDefault, AccentColor: accent}
}

// Equal reports exact equality, component-wise for the accent color.
func (c Config) Equal(other Config) bool {
	return c == other
}

// Value returns the wire value of key.
func (c Config) Value(key string) (any, error) {
	switch key {
	case KEY_COLOR_SCHEME:
		return uint32(c.ColorScheme), nil
	case KEY_ACCENT_COLOR:
		return c.AccentColor.Slice(), nil
	default:
		return nil, &KeyError{Key: key}
	}
}

// Values returns the wire value of every recognized key.
func (c Config) Values() map[string]any {
	return map[string]any{
		KEY_COLOR_SCHEME: uint32(c.ColorScheme),
		KEY_ACCENT_COLOR: c.AccentColor.Slice(),
	}
}

// Store owns the process-wide settings snapshot.
// Readers share the lock; a reload swaps the whole value under the write lock.
// The lock is never held across file I/O.
type Store struct {
	mu   sync.RWMutex
	cfg  Config
	path string
}

// NewStore loads the document at path. A failed initial load is logged and
// the store starts from defaults.
func NewStore(path string) *Store {
	cfg, err := LoadDocument(path)
	if err != nil {
		logger.Error("[settings] initial load failed, using defaults: %v", err)
		cfg = Default()
	}
	return &Store{cfg: cfg, path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Snapshot returns the current configuration.
func (s *Store) Snapshot() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

func (s *Store) ColorScheme() ColorScheme {
	return s.Snapshot().ColorScheme
}

func (s *Store) AccentColor() AccentColor {
	return s.Snapshot().AccentColor
}

// Replace swaps in cfg wholesale.
func (s *Store) Replace(cfg Config) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

// Reload re-reads the document and replaces the snapshot.
// On error the previous snapshot is kept and returned with the error.
func (s *Store) Reload() (Config, error) {
	cfg, err := LoadDocument(s.path)
	if err != nil {
		return s.Snapshot(), err
	}
	s.Replace(cfg)
	return cfg, nil
}
