package events

const (
	TypeSettingChanged = "setting.changed"
	TypeSessionClosed  = "session.closed"
)

type Event struct {
	Type string
	Data any
}

// SettingChangedData carries one changed setting, already converted to its wire value.
type SettingChangedData struct {
	Namespace string
	Key       string
	Value     any
}

// SessionClosedData identifies a session removed by the backend itself (expiry),
// not by a client call.
type SessionClosedData struct {
	Path string
}

// Filter reports whether an event should be delivered.
type Filter func(Event) bool

// FilterTypes returns a filter accepting only the given event types,
// or nil (pass-all) when types is empty.
func FilterTypes(types []string) Filter {
	if len(types) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return func(e Event) bool {
		_, ok := set[e.Type]
		return ok
	}
}
