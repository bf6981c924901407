package screencast

import (
	"strings"
	"time"
)

// SourceType is a bitmask of capturable source kinds.
type SourceType uint32

const (
	SourceMonitor SourceType = 1
	SourceWindow  SourceType = 2
	SourceVirtual SourceType = 4

	AllSourceTypes = SourceMonitor | SourceWindow | SourceVirtual
)

func (s SourceType) String() string {
	var parts []string
	if s&SourceMonitor != 0 {
		parts = append(parts, "monitor")
	}
	if s&SourceWindow != 0 {
		parts = append(parts, "window")
	}
	if s&SourceVirtual != 0 {
		parts = append(parts, "virtual")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// CursorMode is a bitmask of cursor rendering modes.
type CursorMode uint32

const (
	CursorHidden   CursorMode = 1
	CursorEmbedded CursorMode = 2
	CursorMetadata CursorMode = 4

	AllCursorModes = CursorHidden | CursorEmbedded | CursorMetadata
)

type SessionState int

const (
	StateCreated SessionState = iota
	StateSourcesSelected
	StateStarted
)

func (s SessionState) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateSourcesSelected:
		return "sources-selected"
	case StateStarted:
		return "started"
	default:
		return "unknown"
	}
}

// Selection is what a client asks for in SelectSources.
type Selection struct {
	Types      SourceType
	Multiple   bool
	CursorMode CursorMode
}

// Session is one screen-capture negotiation, keyed by its client-chosen path.
type Session struct {
	Path      string
	AppID     string
	State     SessionState
	Selection Selection
	CreatedAt time.Time
}
