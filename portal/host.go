package portal

import (
	"context"
	"fmt"
	"os"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"

	"github.com/b0bbywan/go-luminous-portal/backend"
	"github.com/b0bbywan/go-luminous-portal/events"
	"github.com/b0bbywan/go-luminous-portal/logger"
)

// Host owns the session bus connection and serves the portal on it.
type Host struct {
	conn    *dbus.Conn
	busName string
	backend *backend.Backend
	portal  *Portal
}

// NewHost connects to the session bus. Failing to connect is the one error
// the service cannot run without.
func NewHost(busName string, b *backend.Backend) (*Host, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connecting to session bus: %w", err)
	}

	return &Host{
		conn:    conn,
		busName: busName,
		backend: b,
		portal:  New(conn, b),
	}, nil
}

// Run exports the portal, claims the bus name and forwards backend events
// as signals until ctx is cancelled.
func (h *Host) Run(ctx context.Context) error {
	if desktop := os.Getenv("XDG_CURRENT_DESKTOP"); desktop != "" {
		logger.Info("[host] desktop is %s", desktop)
	} else {
		logger.Warn("[host] XDG_CURRENT_DESKTOP is not set")
	}

	// Subscribe before exporting so no change made meanwhile is lost.
	sub := h.backend.Broadcaster.SubscribeFunc(events.FilterTypes([]string{
		events.TypeSettingChanged,
		events.TypeSessionClosed,
	}))
	defer h.backend.Broadcaster.Unsubscribe(sub)

	props, err := prop.Export(h.conn, OBJECT_PATH, h.portal.Properties())
	if err != nil {
		return fmt.Errorf("exporting properties: %w", err)
	}
	if err := h.portal.Export([]introspect.Interface{prop.IntrospectData}, props.Introspection); err != nil {
		return err
	}
	defer func() {
		if err := h.portal.Unexport(); err != nil {
			logger.Warn("[host] failed to unexport portal: %v", err)
		}
	}()

	reply, err := h.conn.RequestName(h.busName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("requesting bus name %s: %w", h.busName, err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return &NameTakenError{Name: h.busName}
	}
	defer func() {
		if _, err := h.conn.ReleaseName(h.busName); err != nil {
			logger.Warn("[host] failed to release %s: %v", h.busName, err)
		}
	}()

	logger.Info("[host] serving %s at %s", h.busName, OBJECT_PATH)
	if ok, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		logger.Warn("[host] sd_notify READY failed: %v", err)
	} else if !ok {
		logger.Debug("[host] not running under systemd notify")
	}

	h.portal.Listen(ctx, sub)

	if open := h.portal.Requests.Paths(); len(open) > 0 {
		logger.Debug("[host] %d request(s) still open at shutdown: %v", len(open), open)
	}

	if _, err := daemon.SdNotify(false, daemon.SdNotifyStopping); err != nil {
		logger.Warn("[host] sd_notify STOPPING failed: %v", err)
	}
	return nil
}

func (h *Host) Close() {
	if err := h.conn.Close(); err != nil {
		logger.Warn("[host] failed to close bus connection: %v", err)
	}
}
