package settings

// ColorScheme is the wire enumeration of the appearance color-scheme key.
type ColorScheme uint32

const (
	SchemeDefault ColorScheme = 0
	SchemeDark    ColorScheme = 1
	SchemeLight   ColorScheme = 2
)

var schemeNames = map[ColorScheme]string{
	SchemeDefault: SCHEME_NAME_DEFAULT,
	SchemeDark:    SCHEME_NAME_DARK,
	SchemeLight:   SCHEME_NAME_LIGHT,
}

func (c ColorScheme) String() string {
	if name, ok := schemeNames[c]; ok {
		return name
	}
	return "unknown"
}

// ParseColorScheme maps a document name to its enumeration.
// Unknown names are an error, never coerced.
func ParseColorScheme(name string) (ColorScheme, error) {
	switch name {
	case SCHEME_NAME_DEFAULT:
		return SchemeDefault, nil
	case SCHEME_NAME_DARK:
		return SchemeDark, nil
	case SCHEME_NAME_LIGHT:
		return SchemeLight, nil
	default:
		return SchemeDefault, &SchemeError{Name: name}
	}
}
