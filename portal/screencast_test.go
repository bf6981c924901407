package portal

import (
	"context"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/require"

	"github.com/b0bbywan/go-luminous-portal/backend/screencast"
	"github.com/b0bbywan/go-luminous-portal/events"
	idbus "github.com/b0bbywan/go-luminous-portal/internal/dbus"
)

const (
	testApp     = "com.example.App"
	testSession = dbus.ObjectPath("/org/freedesktop/portal/desktop/session/1_42/s1")
)

func reqPath(n string) dbus.ObjectPath {
	return dbus.ObjectPath("/org/freedesktop/portal/desktop/request/1_42/" + n)
}

func newTestScreenCast(t *testing.T, ttl time.Duration) (*ScreenCast, *fakeConn) {
	t.Helper()
	b := newTestBackend(t, darkDoc, true, ttl)
	conn := newFakeConn()
	p := New(conn, b)
	require.NotNil(t, p.ScreenCast)
	return p.ScreenCast, conn
}

func noOptions() map[string]dbus.Variant {
	return map[string]dbus.Variant{}
}

func TestCreateSessionScenario(t *testing.T) {
	sc, conn := newTestScreenCast(t, 0)

	code, results, err := sc.CreateSession(reqPath("r1"), testSession, testApp, noOptions())
	require.Nil(t, err)
	require.Equal(t, uint32(0), code)
	require.Empty(t, results)
	require.NotNil(t, results)

	require.True(t, sc.requests.has(reqPath("r1")))
	require.True(t, conn.exported(testSession, SESSION_IFACE))

	session, ok := sc.backend.Session(string(testSession))
	require.True(t, ok)
	require.Equal(t, testApp, session.AppID)
	require.Equal(t, screencast.StateCreated, session.State)

	req, ok := conn.object(reqPath("r1"), REQUEST_IFACE).(*Request)
	require.True(t, ok)
	require.Nil(t, req.Close())
	requireDBusError(t, req.Close(), ERROR_NOT_FOUND)
}

func TestCreateSessionDuplicateRequestPath(t *testing.T) {
	sc, _ := newTestScreenCast(t, 0)

	_, _, err := sc.CreateSession(reqPath("r1"), testSession, testApp, noOptions())
	require.Nil(t, err)

	_, _, err = sc.CreateSession(reqPath("r1"), "/org/freedesktop/portal/desktop/session/1_42/s2", testApp, noOptions())
	requireDBusError(t, err, ERROR_EXISTS)
	require.Equal(t, []string{string(testSession)}, sc.backend.Sessions())
}

func TestCreateSessionDuplicateSessionRollsBackRequest(t *testing.T) {
	sc, conn := newTestScreenCast(t, 0)

	_, _, err := sc.CreateSession(reqPath("r1"), testSession, testApp, noOptions())
	require.Nil(t, err)

	_, _, err = sc.CreateSession(reqPath("r2"), testSession, testApp, noOptions())
	requireDBusError(t, err, ERROR_EXISTS)
	require.False(t, sc.requests.has(reqPath("r2")))
	require.False(t, conn.exported(reqPath("r2"), REQUEST_IFACE))
}

func TestCreateSessionInvalidSessionPath(t *testing.T) {
	sc, _ := newTestScreenCast(t, 0)

	_, _, err := sc.CreateSession(reqPath("r1"), "bogus", testApp, noOptions())
	requireDBusError(t, err, ERROR_INVALID_ARGUMENT)
	require.False(t, sc.requests.has(reqPath("r1")))
	require.Empty(t, sc.backend.Sessions())
}

func TestSelectSourcesAndStart(t *testing.T) {
	sc, _ := newTestScreenCast(t, 0)

	_, _, err := sc.CreateSession(reqPath("r1"), testSession, testApp, noOptions())
	require.Nil(t, err)

	code, _, err := sc.SelectSources(reqPath("r2"), testSession, testApp, map[string]dbus.Variant{
		OPTION_TYPES:       dbus.MakeVariant(uint32(screencast.SourceMonitor | screencast.SourceWindow)),
		OPTION_MULTIPLE:    dbus.MakeVariant(true),
		OPTION_CURSOR_MODE: dbus.MakeVariant(uint32(screencast.CursorEmbedded)),
	})
	require.Nil(t, err)
	require.Equal(t, uint32(0), code)

	session, _ := sc.backend.Session(string(testSession))
	require.Equal(t, screencast.StateSourcesSelected, session.State)
	require.Equal(t, screencast.SourceMonitor|screencast.SourceWindow, session.Selection.Types)
	require.True(t, session.Selection.Multiple)
	require.Equal(t, screencast.CursorEmbedded, session.Selection.CursorMode)

	code, results, err := sc.Start(reqPath("r3"), testSession, testApp, "", noOptions())
	require.Nil(t, err)
	require.Equal(t, uint32(0), code)
	streams, ok := results[RESULT_STREAMS]
	require.True(t, ok)
	require.Equal(t, "a(ua{sv})", streams.Signature().String())
	require.Empty(t, streams.Value())

	session, _ = sc.backend.Session(string(testSession))
	require.Equal(t, screencast.StateStarted, session.State)
}

func TestStartWithoutSourcesAborts(t *testing.T) {
	sc, _ := newTestScreenCast(t, 0)

	_, _, err := sc.CreateSession(reqPath("r1"), testSession, testApp, noOptions())
	require.Nil(t, err)

	code, results, err := sc.Start(reqPath("r2"), testSession, testApp, "", noOptions())
	require.Nil(t, err)
	require.Equal(t, uint32(ResponseAborted), code)
	require.Empty(t, results)
	require.True(t, sc.requests.has(reqPath("r2")))
}

func TestSessionScopedCallsOnUnknownSession(t *testing.T) {
	sc, conn := newTestScreenCast(t, 0)

	_, _, err := sc.SelectSources(reqPath("r1"), testSession, testApp, noOptions())
	requireDBusError(t, err, ERROR_NOT_FOUND)

	_, _, err = sc.Start(reqPath("r2"), testSession, testApp, "", noOptions())
	requireDBusError(t, err, ERROR_NOT_FOUND)

	require.Empty(t, sc.requests.Paths())
	require.False(t, conn.exported(reqPath("r1"), REQUEST_IFACE))
}

func TestSelectSourcesRejectsBadOptions(t *testing.T) {
	sc, _ := newTestScreenCast(t, 0)

	_, _, err := sc.CreateSession(reqPath("r1"), testSession, testApp, noOptions())
	require.Nil(t, err)

	tests := []struct {
		name    string
		options map[string]dbus.Variant
	}{
		{"types wrong type", map[string]dbus.Variant{OPTION_TYPES: dbus.MakeVariant("monitor")}},
		{"multiple wrong type", map[string]dbus.Variant{OPTION_MULTIPLE: dbus.MakeVariant(uint32(1))}},
		{"cursor wrong type", map[string]dbus.Variant{OPTION_CURSOR_MODE: dbus.MakeVariant(true)}},
		{"unknown source type", map[string]dbus.Variant{OPTION_TYPES: dbus.MakeVariant(uint32(8))}},
		{"two cursor modes", map[string]dbus.Variant{OPTION_CURSOR_MODE: dbus.MakeVariant(uint32(3))}},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := reqPath("bad" + string(rune('a'+i)))
			_, _, err := sc.SelectSources(path, testSession, testApp, tt.options)
			requireDBusError(t, err, ERROR_INVALID_ARGUMENT)
			require.False(t, sc.requests.has(path))
		})
	}

	session, _ := sc.backend.Session(string(testSession))
	require.Equal(t, screencast.StateCreated, session.State)
}

func TestSessionBelongsToCreator(t *testing.T) {
	sc, _ := newTestScreenCast(t, 0)

	_, _, err := sc.CreateSession(reqPath("r1"), testSession, testApp, noOptions())
	require.Nil(t, err)

	_, _, err = sc.SelectSources(reqPath("r2"), testSession, "org.example.Other", noOptions())
	requireDBusError(t, err, ERROR_NOT_ALLOWED)
}

func TestSessionClose(t *testing.T) {
	sc, conn := newTestScreenCast(t, 0)

	_, _, err := sc.CreateSession(reqPath("r1"), testSession, testApp, noOptions())
	require.Nil(t, err)

	session, ok := conn.object(testSession, SESSION_IFACE).(*Session)
	require.True(t, ok)

	require.Nil(t, session.Close())
	require.False(t, conn.exported(testSession, SESSION_IFACE))
	require.False(t, conn.exported(testSession, idbus.INTROSPECTABLE))
	require.Empty(t, sc.backend.Sessions())
	require.Empty(t, conn.emitted(), "client close must not emit Closed")

	requireDBusError(t, session.Close(), ERROR_NOT_FOUND)

	// The path is free again.
	_, _, err = sc.CreateSession(reqPath("r2"), testSession, testApp, noOptions())
	require.Nil(t, err)
}

func TestSessionExpiryEmitsClosed(t *testing.T) {
	b := newTestBackend(t, darkDoc, true, 50*time.Millisecond)
	conn := newFakeConn()
	p := New(conn, b)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub := b.Broadcaster.Subscribe()
	defer b.Broadcaster.Unsubscribe(sub)
	go p.Listen(ctx, sub)

	_, _, err := p.ScreenCast.CreateSession(reqPath("r1"), testSession, testApp, noOptions())
	require.Nil(t, err)

	require.Eventually(t, func() bool {
		for _, sig := range conn.emitted() {
			if sig.Path == testSession && sig.Name == SESSION_CLOSED {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)

	require.False(t, conn.exported(testSession, SESSION_IFACE))
	require.Empty(t, b.ScreenCast.Sessions())
	// Requests do not expire.
	require.True(t, p.Requests.has(reqPath("r1")))
}

func TestStaleExpiryLeavesReopenedSession(t *testing.T) {
	b := newTestBackend(t, darkDoc, true, 0)
	conn := newFakeConn()
	p := New(conn, b)

	_, _, err := p.ScreenCast.CreateSession(reqPath("r1"), testSession, testApp, noOptions())
	require.Nil(t, err)

	// An expiry for the same path handled after the path was reopened.
	p.HandleEvent(events.Event{Type: events.TypeSessionClosed, Data: events.SessionClosedData{Path: string(testSession)}})

	require.Equal(t, []string{string(testSession)}, b.ScreenCast.Sessions())
	require.True(t, conn.exported(testSession, SESSION_IFACE))
	require.True(t, conn.exported(testSession, idbus.INTROSPECTABLE))
	require.Empty(t, conn.emitted())

	session, ok := conn.object(testSession, SESSION_IFACE).(*Session)
	require.True(t, ok)
	require.Nil(t, session.Close())
}

func TestCreateSessionRejectsSharedPath(t *testing.T) {
	sc, conn := newTestScreenCast(t, 0)

	_, _, err := sc.CreateSession(testSession, testSession, testApp, noOptions())
	requireDBusError(t, err, ERROR_INVALID_ARGUMENT)
	require.False(t, sc.requests.has(testSession))
	require.Empty(t, sc.backend.Sessions())
	require.False(t, conn.exported(testSession, SESSION_IFACE))
	require.False(t, conn.exported(testSession, idbus.INTROSPECTABLE))
}
