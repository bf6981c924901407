package dbus

// Standard D-Bus interface names
const (
	DBUS_INTERFACE = "org.freedesktop.DBus"

	INTROSPECTABLE  = DBUS_INTERFACE + ".Introspectable"
	DBUS_PROP_IFACE = DBUS_INTERFACE + ".Properties"
	PEER            = DBUS_INTERFACE + ".Peer"

	ERROR_FAILED = DBUS_INTERFACE + ".Error.Failed"
)
