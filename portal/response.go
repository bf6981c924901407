package portal

import "github.com/godbus/dbus/v5"

type ResponseCode uint32

const (
	ResponseSuccess ResponseCode = iota
	ResponseCancelled
	ResponseAborted
)

func (c ResponseCode) String() string {
	switch c {
	case ResponseSuccess:
		return "success"
	case ResponseCancelled:
		return "cancelled"
	case ResponseAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Response is the outcome of a portal call.
// Only Success carries results.
type Response struct {
	Code    ResponseCode
	Results map[string]dbus.Variant
}

func Success(results map[string]dbus.Variant) Response {
	return Response{Code: ResponseSuccess, Results: results}
}

func Cancelled() Response {
	return Response{Code: ResponseCancelled}
}

func Aborted() Response {
	return Response{Code: ResponseAborted}
}

// Values returns the (u, a{sv}) wire pair. The dictionary is never nil.
func (r Response) Values() (uint32, map[string]dbus.Variant) {
	results := make(map[string]dbus.Variant)
	if r.Code == ResponseSuccess {
		for k, v := range r.Results {
			results[k] = v
		}
	}
	return uint32(r.Code), results
}
