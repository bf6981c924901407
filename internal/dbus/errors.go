package dbus

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

// ExportError is returned when an interface could not be exported at a path.
type ExportError struct {
	Path  dbus.ObjectPath
	Iface string
	Err   error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("dbus: export %s at %s: %v", e.Iface, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// PathError is returned for a string that is not a valid object path.
type PathError struct {
	Path string
}

func (e *PathError) Error() string { return fmt.Sprintf("dbus: invalid object path %q", e.Path) }
