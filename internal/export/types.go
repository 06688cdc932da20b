// Package export discovers and runs external hooks that receive session
// results when a viewing ends.
package export

import (
	"encoding/json"
	"time"

	"github.com/parsaforughi/pixxel-age-filter/internal/skin"
)

// EventSessionEnd is emitted when a viewing session closes.
const EventSessionEnd = "session_end"

// Manifest describes a hook's metadata and the events it subscribes to.
type Manifest struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Executable  string   `json:"executable"`
	Events      []string `json:"events"`
}

// SessionSummary is the payload delivered with a session_end event.
type SessionSummary struct {
	SessionID string       `json:"session_id"`
	StartedAt time.Time    `json:"started_at"`
	EndedAt   time.Time    `json:"ended_at"`
	Frames    int          `json:"frames"`
	Last      skin.Metrics `json:"last_reading"`
}

// Event is the JSON document sent to a hook on stdin.
type Event struct {
	Event   string         `json:"event"`
	Session SessionSummary `json:"session"`
}

// Response is what a hook writes to stdout after handling an event.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Hook represents a discovered hook with its manifest and location.
type Hook struct {
	Manifest   Manifest
	Path       string
	Executable string
}

// Subscribed reports whether the hook asks for the given event.
func (h *Hook) Subscribed(event string) bool {
	for _, e := range h.Manifest.Events {
		if e == event {
			return true
		}
	}
	return false
}
