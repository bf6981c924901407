package portal

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/require"

	"github.com/b0bbywan/go-luminous-portal/backend"
	"github.com/b0bbywan/go-luminous-portal/config"
)

type objectKey struct {
	path  dbus.ObjectPath
	iface string
}

type sentSignal struct {
	Path dbus.ObjectPath
	Name string
	Body []interface{}
}

// fakeConn is an in-memory object server.
type fakeConn struct {
	mu      sync.Mutex
	objects map[objectKey]interface{}
	signals []sentSignal
}

func newFakeConn() *fakeConn {
	return &fakeConn{objects: make(map[objectKey]interface{})}
}

func (c *fakeConn) Export(v interface{}, path dbus.ObjectPath, iface string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v == nil {
		delete(c.objects, objectKey{path, iface})
		return nil
	}
	c.objects[objectKey{path, iface}] = v
	return nil
}

func (c *fakeConn) Emit(path dbus.ObjectPath, name string, values ...interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.signals = append(c.signals, sentSignal{Path: path, Name: name, Body: values})
	return nil
}

func (c *fakeConn) object(path dbus.ObjectPath, iface string) interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.objects[objectKey{path, iface}]
}

func (c *fakeConn) exported(path dbus.ObjectPath, iface string) bool {
	return c.object(path, iface) != nil
}

func (c *fakeConn) emitted() []sentSignal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]sentSignal(nil), c.signals...)
}

func writeSettingsDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// newTestBackend builds a backend on a settings document with watching off.
func newTestBackend(t *testing.T, doc string, screencast bool, ttl time.Duration) *backend.Backend {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cfg := &config.Config{
		BusName:    config.DefaultBusName,
		Settings:   &config.SettingsConfig{Path: writeSettingsDoc(t, doc)},
		ScreenCast: &config.ScreenCastConfig{Enabled: screencast, SessionTTL: ttl},
	}
	b, err := backend.New(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, b.Start())
	t.Cleanup(b.Close)
	return b
}

func requireDBusError(t *testing.T, err *dbus.Error, name string) {
	t.Helper()
	require.NotNil(t, err)
	require.Equal(t, name, err.Name)
}
