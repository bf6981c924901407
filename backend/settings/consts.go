package settings

const (
	// NAMESPACE_APPEARANCE is the only namespace served.
	NAMESPACE_APPEARANCE = "org.freedesktop.appearance"

	KEY_COLOR_SCHEME = "color-scheme"
	KEY_ACCENT_COLOR = "accent-color"

	SCHEME_NAME_DEFAULT = "default"
	SCHEME_NAME_DARK    = "dark"
	SCHEME_NAME_LIGHT   = "light"

	DEFAULT_SCHEME_NAME  = SCHEME_NAME_DEFAULT
	DEFAULT_ACCENT_COLOR = "#ffffff"
)

// Keys lists the recognized keys in emission order.
var Keys = []string{KEY_COLOR_SCHEME, KEY_ACCENT_COLOR}
