package portal

import (
	"context"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"

	"github.com/b0bbywan/go-luminous-portal/backend"
	"github.com/b0bbywan/go-luminous-portal/events"
	idbus "github.com/b0bbywan/go-luminous-portal/internal/dbus"
	"github.com/b0bbywan/go-luminous-portal/logger"
)

// Portal groups the interfaces served at OBJECT_PATH.
type Portal struct {
	conn       idbus.Conn
	Requests   *Registry
	Settings   *Settings
	ScreenCast *ScreenCast // nil when screencast is disabled
	backend    *backend.Backend
}

func New(conn idbus.Conn, b *backend.Backend) *Portal {
	p := &Portal{
		conn:     conn,
		Requests: NewRegistry(conn),
		Settings: NewSettings(conn, b.Settings),
		backend:  b,
	}
	if b.ScreenCast != nil {
		p.ScreenCast = NewScreenCast(conn, p.Requests, b.ScreenCast)
	}
	return p
}

// Properties returns the read-only properties of every served interface.
func (p *Portal) Properties() prop.Map {
	props := prop.Map{
		SETTINGS_IFACE: {
			"version": {Value: SETTINGS_VERSION, Writable: false, Emit: prop.EmitFalse},
		},
	}
	if p.ScreenCast != nil {
		sc := p.backend.ScreenCast
		props[SCREENCAST_IFACE] = map[string]*prop.Prop{
			"version":              {Value: SCREENCAST_VERSION, Writable: false, Emit: prop.EmitFalse},
			"AvailableSourceTypes": {Value: uint32(sc.AvailableSourceTypes()), Writable: false, Emit: prop.EmitFalse},
			"AvailableCursorModes": {Value: uint32(sc.AvailableCursorModes()), Writable: false, Emit: prop.EmitFalse},
		}
	}
	return props
}

// Export publishes the portal interfaces. describe returns the introspection
// of an interface's properties; extra lists interfaces served by others at
// the same path.
func (p *Portal) Export(extra []introspect.Interface, describe func(iface string) []introspect.Property) error {
	if describe == nil {
		describe = func(string) []introspect.Property { return nil }
	}
	objects := []idbus.Object{p.Settings.object(describe(SETTINGS_IFACE))}
	if p.ScreenCast != nil {
		objects = append(objects, p.ScreenCast.object(describe(SCREENCAST_IFACE)))
	}
	if err := idbus.Export(p.conn, OBJECT_PATH, extra, objects...); err != nil {
		return err
	}
	logger.Info("[portal] exported %d interface(s) at %s", len(objects), OBJECT_PATH)
	return nil
}

func (p *Portal) Unexport() error {
	ifaces := []string{SETTINGS_IFACE}
	if p.ScreenCast != nil {
		ifaces = append(ifaces, SCREENCAST_IFACE)
	}
	// Properties are exported by prop.Export and leave with the rest.
	ifaces = append(ifaces, idbus.DBUS_PROP_IFACE)
	return idbus.Unexport(p.conn, OBJECT_PATH, ifaces...)
}

// Listen turns backend events into bus signals until ctx is done or ch closes.
// Events are handled one at a time, in arrival order.
func (p *Portal) Listen(ctx context.Context, ch <-chan events.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			p.HandleEvent(e)
		}
	}
}

func (p *Portal) HandleEvent(e events.Event) {
	switch data := e.Data.(type) {
	case events.SettingChangedData:
		if err := p.Settings.EmitSettingChanged(data.Namespace, data.Key, data.Value); err != nil {
			logger.Warn("[portal] failed to emit SettingChanged for %s: %v", data.Key, err)
		}
	case events.SessionClosedData:
		if p.ScreenCast != nil {
			p.ScreenCast.sessionExpired(dbus.ObjectPath(data.Path))
		}
	default:
		logger.Debug("[portal] unhandled event: %s", e.Type)
	}
}
