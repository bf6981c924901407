package dbus

import (
	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
)

// Conn is the part of *dbus.Conn needed to serve objects.
type Conn interface {
	Export(v interface{}, path dbus.ObjectPath, iface string) error
	Emit(path dbus.ObjectPath, name string, values ...interface{}) error
}

// Object is one interface implementation to export.
// Methods are every exported method of Value whose last result is *dbus.Error.
type Object struct {
	Iface      string
	Value      interface{}
	Signals    []introspect.Signal
	Properties []introspect.Property
}

// Interface describes obj for introspection.
func (obj Object) Interface() introspect.Interface {
	return introspect.Interface{
		Name:       obj.Iface,
		Methods:    introspect.Methods(obj.Value),
		Signals:    obj.Signals,
		Properties: obj.Properties,
	}
}

// ValidPath converts p to an object path, rejecting malformed ones.
func ValidPath(p string) (dbus.ObjectPath, error) {
	path := dbus.ObjectPath(p)
	if !path.IsValid() {
		return "", &PathError{Path: p}
	}
	return path, nil
}

// Export exports every object at path together with an Introspectable
// describing them. extra lists interfaces served by someone else at the same
// path, such as org.freedesktop.DBus.Properties. On failure nothing stays exported.
func Export(conn Conn, path dbus.ObjectPath, extra []introspect.Interface, objects ...Object) error {
	node := &introspect.Node{
		Name:       string(path),
		Interfaces: []introspect.Interface{introspect.IntrospectData},
	}
	node.Interfaces = append(node.Interfaces, extra...)

	exported := make([]string, 0, len(objects))
	for _, obj := range objects {
		if err := conn.Export(obj.Value, path, obj.Iface); err != nil {
			_ = Unexport(conn, path, exported...)
			return &ExportError{Path: path, Iface: obj.Iface, Err: err}
		}
		exported = append(exported, obj.Iface)
		node.Interfaces = append(node.Interfaces, obj.Interface())
	}

	if err := conn.Export(introspect.NewIntrospectable(node), path, INTROSPECTABLE); err != nil {
		_ = Unexport(conn, path, exported...)
		return &ExportError{Path: path, Iface: INTROSPECTABLE, Err: err}
	}
	return nil
}

// Unexport removes ifaces and the Introspectable from path.
func Unexport(conn Conn, path dbus.ObjectPath, ifaces ...string) error {
	all := make([]string, 0, len(ifaces)+1)
	all = append(all, ifaces...)
	all = append(all, INTROSPECTABLE)

	var first error
	for _, iface := range all {
		if err := conn.Export(nil, path, iface); err != nil && first == nil {
			first = &ExportError{Path: path, Iface: iface, Err: err}
		}
	}
	return first
}

// --- Variant extraction helpers ---

// ExtractUint32 extracts a uint32 from a dbus.Variant.
func ExtractUint32(v dbus.Variant) (uint32, bool) {
	val, ok := v.Value().(uint32)
	return val, ok
}

// ExtractBool extracts a bool from a dbus.Variant.
func ExtractBool(v dbus.Variant) (bool, bool) {
	val, ok := v.Value().(bool)
	return val, ok
}

// --- Map helpers (options map[string]dbus.Variant) ---

// MapUint32OK extracts a uint32 option. present is false when the key is
// absent; ok is false when it is present with another type.
func MapUint32OK(opts map[string]dbus.Variant, key string) (val uint32, present, ok bool) {
	v, present := opts[key]
	if !present {
		return 0, false, true
	}
	val, ok = ExtractUint32(v)
	return val, true, ok
}

// MapBoolOK extracts a bool option, with the same contract as MapUint32OK.
func MapBoolOK(opts map[string]dbus.Variant, key string) (val bool, present, ok bool) {
	v, present := opts[key]
	if !present {
		return false, false, true
	}
	val, ok = ExtractBool(v)
	return val, true, ok
}

// Keys returns the keys of an options map (useful for debug logging).
func Keys(opts map[string]dbus.Variant) []string {
	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	return keys
}
