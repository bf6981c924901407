package portal

import (
	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	idbus "github.com/b0bbywan/go-luminous-portal/internal/dbus"
	"github.com/b0bbywan/go-luminous-portal/logger"
)

// Session is the bus object of one screencast session.
type Session struct {
	owner *ScreenCast
	path  dbus.ObjectPath
	appID string
}

func (s *Session) object() idbus.Object {
	return idbus.Object{
		Iface:   SESSION_IFACE,
		Value:   s,
		Signals: []introspect.Signal{{Name: "Closed"}},
	}
}

// Close ends the session at the client's request. No Closed signal is sent.
func (s *Session) Close() *dbus.Error {
	logger.Debug("[portal] close session %s", s.path)
	if err := s.owner.closeSession(s.path); err != nil {
		return toDBusError(err)
	}
	return nil
}
