package portal

import (
	"errors"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/b0bbywan/go-luminous-portal/backend/screencast"
	idbus "github.com/b0bbywan/go-luminous-portal/internal/dbus"
	"github.com/b0bbywan/go-luminous-portal/logger"
)

// Stream is one entry of the streams result, a(ua{sv}) on the wire.
type Stream struct {
	NodeID     uint32
	Properties map[string]dbus.Variant
}

// ScreenCast implements org.freedesktop.impl.portal.ScreenCast.
// It negotiates sessions; no stream is ever produced.
type ScreenCast struct {
	conn     idbus.Conn
	requests *Registry
	backend  *screencast.ScreenCastBackend
}

func NewScreenCast(conn idbus.Conn, requests *Registry, backend *screencast.ScreenCastBackend) *ScreenCast {
	return &ScreenCast{conn: conn, requests: requests, backend: backend}
}

func (s *ScreenCast) object(props []introspect.Property) idbus.Object {
	return idbus.Object{Iface: SCREENCAST_IFACE, Value: s, Properties: props}
}

// handle registers a Request at path and runs fn. The Request is rolled back
// when fn fails, so a failed call leaves nothing exported.
func (s *ScreenCast) handle(method string, path dbus.ObjectPath, appID string, fn func() (Response, error)) (uint32, map[string]dbus.Variant, *dbus.Error) {
	if _, err := s.requests.Add(path, appID); err != nil {
		logger.Warn("[portal] %s: %v", method, err)
		return 0, nil, toDBusError(err)
	}

	resp, err := fn()
	if err != nil {
		logger.Warn("[portal] %s failed for %s: %v", method, appID, err)
		if rmErr := s.requests.Remove(path); rmErr != nil {
			logger.Warn("[portal] failed to roll back request %s: %v", path, rmErr)
		}
		return 0, nil, toDBusError(err)
	}

	logger.Debug("[portal] %s for %s: %s", method, appID, resp.Code)
	code, results := resp.Values()
	return code, results, nil
}

func (s *ScreenCast) CreateSession(handle, sessionHandle dbus.ObjectPath, appID string, options map[string]dbus.Variant) (uint32, map[string]dbus.Variant, *dbus.Error) {
	logger.Info("[portal] CreateSession app=%s request=%s session=%s", appID, handle, sessionHandle)
	if handle == sessionHandle {
		err := &OptionError{Key: "session_handle", Want: "distinct from the request handle"}
		logger.Warn("[portal] CreateSession: %v", err)
		return 0, nil, toDBusError(err)
	}
	return s.handle("CreateSession", handle, appID, func() (Response, error) {
		if err := s.openSession(sessionHandle, appID); err != nil {
			return Response{}, err
		}
		return Success(nil), nil
	})
}

func (s *ScreenCast) SelectSources(handle, sessionHandle dbus.ObjectPath, appID string, options map[string]dbus.Variant) (uint32, map[string]dbus.Variant, *dbus.Error) {
	logger.Debug("[portal] SelectSources app=%s session=%s options=%v", appID, sessionHandle, idbus.Keys(options))
	return s.handle("SelectSources", handle, appID, func() (Response, error) {
		sel, err := parseSelection(options)
		if err != nil {
			return Response{}, err
		}
		if _, err := s.backend.SelectSources(string(sessionHandle), appID, sel); err != nil {
			return Response{}, err
		}
		return Success(nil), nil
	})
}

func (s *ScreenCast) Start(handle, sessionHandle dbus.ObjectPath, appID, parentWindow string, options map[string]dbus.Variant) (uint32, map[string]dbus.Variant, *dbus.Error) {
	logger.Info("[portal] Start app=%s session=%s", appID, sessionHandle)
	return s.handle("Start", handle, appID, func() (Response, error) {
		_, err := s.backend.StartSession(string(sessionHandle), appID)
		var stateErr *screencast.StateError
		if errors.As(err, &stateErr) {
			logger.Info("[portal] Start aborted: %v", err)
			return Aborted(), nil
		}
		if err != nil {
			return Response{}, err
		}
		return Success(map[string]dbus.Variant{
			RESULT_STREAMS: dbus.MakeVariant([]Stream{}),
		}), nil
	})
}

func parseSelection(options map[string]dbus.Variant) (screencast.Selection, error) {
	var sel screencast.Selection

	types, _, ok := idbus.MapUint32OK(options, OPTION_TYPES)
	if !ok {
		return sel, &OptionError{Key: OPTION_TYPES, Want: "uint32"}
	}
	multiple, _, ok := idbus.MapBoolOK(options, OPTION_MULTIPLE)
	if !ok {
		return sel, &OptionError{Key: OPTION_MULTIPLE, Want: "bool"}
	}
	cursor, _, ok := idbus.MapUint32OK(options, OPTION_CURSOR_MODE)
	if !ok {
		return sel, &OptionError{Key: OPTION_CURSOR_MODE, Want: "uint32"}
	}

	sel.Types = screencast.SourceType(types)
	sel.Multiple = multiple
	sel.CursorMode = screencast.CursorMode(cursor)
	return sel, nil
}

// openSession stores the session and exports its object. Either both happen or neither.
func (s *ScreenCast) openSession(path dbus.ObjectPath, appID string) error {
	if _, err := idbus.ValidPath(string(path)); err != nil {
		return err
	}
	if _, err := s.backend.CreateSession(string(path), appID); err != nil {
		return err
	}

	session := &Session{owner: s, path: path, appID: appID}
	if err := idbus.Export(s.conn, path, nil, session.object()); err != nil {
		if closeErr := s.backend.CloseSession(string(path)); closeErr != nil {
			logger.Warn("[portal] failed to roll back session %s: %v", path, closeErr)
		}
		return err
	}
	return nil
}

func (s *ScreenCast) closeSession(path dbus.ObjectPath) error {
	if err := s.backend.CloseSession(string(path)); err != nil {
		return err
	}
	return idbus.Unexport(s.conn, path, SESSION_IFACE)
}

// sessionExpired unexports a session the backend dropped on its own and
// tells the client through Closed.
// A path already reused by a new session is left alone.
func (s *ScreenCast) sessionExpired(path dbus.ObjectPath) {
	if _, ok := s.backend.Session(string(path)); ok {
		logger.Debug("[portal] session %s was reopened, ignoring stale expiry", path)
		return
	}
	if err := idbus.Unexport(s.conn, path, SESSION_IFACE); err != nil {
		logger.Warn("[portal] failed to unexport session %s: %v", path, err)
	}
	if err := s.conn.Emit(path, SESSION_CLOSED); err != nil {
		logger.Warn("[portal] failed to emit Closed for %s: %v", path, err)
	}
	logger.Info("[portal] session %s closed by service", path)
}
