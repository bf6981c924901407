package portal

import (
	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	idbus "github.com/b0bbywan/go-luminous-portal/internal/dbus"
	"github.com/b0bbywan/go-luminous-portal/logger"
)

// SettingsReader serves setting values already converted to wire types.
type SettingsReader interface {
	ReadOne(namespace, key string) (any, error)
	ReadAll(namespace string) (map[string]any, error)
}

// Settings implements org.freedesktop.impl.portal.Settings.
type Settings struct {
	conn   idbus.Conn
	reader SettingsReader
}

func NewSettings(conn idbus.Conn, reader SettingsReader) *Settings {
	return &Settings{conn: conn, reader: reader}
}

func (s *Settings) ReadOne(namespace, key string) (dbus.Variant, *dbus.Error) {
	value, err := s.reader.ReadOne(namespace, key)
	if err != nil {
		logger.Debug("[portal] ReadOne(%s, %s): %v", namespace, key, err)
		return dbus.Variant{}, toDBusError(err)
	}
	return dbus.MakeVariant(value), nil
}

func (s *Settings) ReadAll(namespace string) (map[string]dbus.Variant, *dbus.Error) {
	values, err := s.reader.ReadAll(namespace)
	if err != nil {
		logger.Debug("[portal] ReadAll(%s): %v", namespace, err)
		return nil, toDBusError(err)
	}
	out := make(map[string]dbus.Variant, len(values))
	for k, v := range values {
		out[k] = dbus.MakeVariant(v)
	}
	return out, nil
}

// EmitSettingChanged broadcasts one changed value.
func (s *Settings) EmitSettingChanged(namespace, key string, value any) error {
	logger.Debug("[portal] SettingChanged %s %s %v", namespace, key, value)
	return s.conn.Emit(OBJECT_PATH, SETTING_CHANGED, namespace, key, dbus.MakeVariant(value))
}

func (s *Settings) object(props []introspect.Property) idbus.Object {
	return idbus.Object{
		Iface: SETTINGS_IFACE,
		Value: s,
		Signals: []introspect.Signal{{
			Name: "SettingChanged",
			Args: []introspect.Arg{
				{Name: "namespace", Type: "s"},
				{Name: "key", Type: "s"},
				{Name: "value", Type: "v"},
			},
		}},
		Properties: props,
	}
}
