package settings

import "fmt"

// NamespaceError is returned for any namespace other than NAMESPACE_APPEARANCE.
type NamespaceError struct {
	Namespace string
}

func (e *NamespaceError) Error() string {
	return fmt.Sprintf("rejected namespace: %q", e.Namespace)
}

// KeyError is returned for a key outside the recognized set.
type KeyError struct {
	Key string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("rejected key: %q", e.Key)
}

// SchemeError reports an unrecognized color scheme name.
type SchemeError struct {
	Name string
}

func (e *SchemeError) Error() string {
	return fmt.Sprintf("unrecognized color scheme %q", e.Name)
}

// ColorError reports a malformed CSS color string.
type ColorError struct {
	Value string
	Err   error
}

func (e *ColorError) Error() string {
	return fmt.Sprintf("invalid accent color %q: %v", e.Value, e.Err)
}

func (e *ColorError) Unwrap() error { return e.Err }

// DocumentError wraps a syntax error in the settings document.
type DocumentError struct {
	Err error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("malformed settings document: %v", e.Err)
}

func (e *DocumentError) Unwrap() error { return e.Err }
