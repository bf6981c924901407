package portal

import (
	"errors"

	"github.com/godbus/dbus/v5"

	"github.com/b0bbywan/go-luminous-portal/backend/screencast"
	"github.com/b0bbywan/go-luminous-portal/backend/settings"
	idbus "github.com/b0bbywan/go-luminous-portal/internal/dbus"
)

// AlreadyExportedError is returned when a request path is already registered.
type AlreadyExportedError struct {
	Path dbus.ObjectPath
}

func (e *AlreadyExportedError) Error() string {
	return "object already exported: " + string(e.Path)
}

// NotExportedError is returned when removing a path that is not registered.
type NotExportedError struct {
	Path dbus.ObjectPath
}

func (e *NotExportedError) Error() string {
	return "object not exported: " + string(e.Path)
}

// OptionError reports a call option with the wrong type.
type OptionError struct {
	Key  string
	Want string
}

func (e *OptionError) Error() string {
	return "option " + e.Key + " must be " + e.Want
}

// NameTakenError is returned when the well-known name is owned by someone else.
type NameTakenError struct {
	Name string
}

func (e *NameTakenError) Error() string {
	return "bus name already taken: " + e.Name
}

func newError(name string, err error) *dbus.Error {
	return dbus.NewError(name, []interface{}{err.Error()})
}

// toDBusError maps an error to the portal error name a client sees.
func toDBusError(err error) *dbus.Error {
	if err == nil {
		return nil
	}

	var (
		nsErr       *settings.NamespaceError
		keyErr      *settings.KeyError
		notExported *NotExportedError
		notFound    *screencast.SessionNotFoundError
		exported    *AlreadyExportedError
		exists      *screencast.SessionExistsError
		selErr      *screencast.SelectionError
		optErr      *OptionError
		pathErr     *idbus.PathError
		ownerErr    *screencast.SessionOwnerError
	)

	switch {
	case errors.As(err, &nsErr), errors.As(err, &keyErr),
		errors.As(err, &notExported), errors.As(err, &notFound):
		return newError(ERROR_NOT_FOUND, err)
	case errors.As(err, &exported), errors.As(err, &exists):
		return newError(ERROR_EXISTS, err)
	case errors.As(err, &selErr), errors.As(err, &optErr), errors.As(err, &pathErr):
		return newError(ERROR_INVALID_ARGUMENT, err)
	case errors.As(err, &ownerErr):
		return newError(ERROR_NOT_ALLOWED, err)
	default:
		return newError(ERROR_FAILED, err)
	}
}
