package portal

import "github.com/godbus/dbus/v5"

const (
	OBJECT_PATH dbus.ObjectPath = "/org/freedesktop/portal/desktop"

	IMPL_PREFIX      = "org.freedesktop.impl.portal"
	SETTINGS_IFACE   = IMPL_PREFIX + ".Settings"
	SCREENCAST_IFACE = IMPL_PREFIX + ".ScreenCast"
	REQUEST_IFACE    = IMPL_PREFIX + ".Request"
	SESSION_IFACE    = IMPL_PREFIX + ".Session"

	SETTING_CHANGED = SETTINGS_IFACE + ".SettingChanged"
	SESSION_CLOSED  = SESSION_IFACE + ".Closed"

	SETTINGS_VERSION   uint32 = 1
	SCREENCAST_VERSION uint32 = 1
)

// Portal error names
const (
	ERROR_PREFIX           = "org.freedesktop.portal.Error"
	ERROR_NOT_FOUND        = ERROR_PREFIX + ".NotFound"
	ERROR_INVALID_ARGUMENT = ERROR_PREFIX + ".InvalidArgument"
	ERROR_EXISTS           = ERROR_PREFIX + ".Exists"
	ERROR_NOT_ALLOWED      = ERROR_PREFIX + ".NotAllowed"
	ERROR_FAILED           = ERROR_PREFIX + ".Failed"
)

// SelectSources / Start option and result keys
const (
	OPTION_TYPES       = "types"
	OPTION_MULTIPLE    = "multiple"
	OPTION_CURSOR_MODE = "cursor_mode"
	RESULT_STREAMS     = "streams"
)
