package portal

import (
	"github.com/godbus/dbus/v5"

	"github.com/b0bbywan/go-luminous-portal/cache"
	idbus "github.com/b0bbywan/go-luminous-portal/internal/dbus"
	"github.com/b0bbywan/go-luminous-portal/logger"
)

// Registry tracks the Request objects exported on behalf of callers.
// Paths are chosen by the caller; requests never expire and leave only
// through Request.Close.
type Registry struct {
	conn     idbus.Conn
	requests *cache.Cache[*Request]
}

func NewRegistry(conn idbus.Conn) *Registry {
	return &Registry{
		conn:     conn,
		requests: cache.New[*Request](0),
	}
}

// Add exports a Request at exactly path.
func (r *Registry) Add(path dbus.ObjectPath, appID string) (*Request, error) {
	if _, err := idbus.ValidPath(string(path)); err != nil {
		return nil, err
	}

	req := &Request{registry: r, path: path, appID: appID}
	if !r.requests.Add(string(path), req) {
		return nil, &AlreadyExportedError{Path: path}
	}

	if err := idbus.Export(r.conn, path, nil, idbus.Object{Iface: REQUEST_IFACE, Value: req}); err != nil {
		r.requests.Remove(string(path))
		return nil, err
	}

	logger.Debug("[portal] request %s exported for %s", path, appID)
	return req, nil
}

// Remove unexports the Request at path. Removing an unknown path is an error.
func (r *Registry) Remove(path dbus.ObjectPath) error {
	if _, ok := r.requests.Remove(string(path)); !ok {
		return &NotExportedError{Path: path}
	}
	logger.Debug("[portal] request %s removed", path)
	return idbus.Unexport(r.conn, path, REQUEST_IFACE)
}

func (r *Registry) has(path dbus.ObjectPath) bool {
	_, ok := r.requests.Get(string(path))
	return ok
}

// Paths returns every registered request path, sorted.
func (r *Registry) Paths() []dbus.ObjectPath {
	keys := r.requests.Keys()
	paths := make([]dbus.ObjectPath, len(keys))
	for i, k := range keys {
		paths[i] = dbus.ObjectPath(k)
	}
	return paths
}

// Request is the per-call object a client can close.
type Request struct {
	registry *Registry
	path     dbus.ObjectPath
	appID    string
}

func (r *Request) Path() dbus.ObjectPath {
	return r.path
}

func (r *Request) AppID() string {
	return r.appID
}

// Close removes the request. A second Close fails.
func (r *Request) Close() *dbus.Error {
	logger.Debug("[portal] close request %s for %s", r.path, r.AppID())
	if err := r.registry.Remove(r.path); err != nil {
		return toDBusError(err)
	}
	return nil
}
