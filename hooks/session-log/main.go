// Package main provides a hook that appends each finished viewing session
// to a local log file.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Event mirrors the document the hook executor sends on stdin.
type Event struct {
	Event   string  `json:"event"`
	Session Session `json:"session"`
}

// Session is the summary payload for a session_end event.
type Session struct {
	SessionID string    `json:"session_id"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
	Frames    int       `json:"frames"`
	Last      Reading   `json:"last_reading"`
}

// Reading is the final stabilized metrics snapshot of the session.
type Reading struct {
	EstimatedAge int `json:"estimatedAge"`
	Wrinkles     int `json:"wrinkles"`
	EyeAging     int `json:"eyeAging"`
	Texture      int `json:"texture"`
	Volume       int `json:"volume"`
	SkinTone     int `json:"skinTone"`
}

// Response is the output written to stdout.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// logFile is created in the hook's own directory.
const logFile = "sessions.log"

func main() {
	// Read event from stdin
	var event Event
	if err := json.NewDecoder(os.Stdin).Decode(&event); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode event: %v", err))
		return
	}

	if event.Event != "session_end" {
		writeErrorResponse(fmt.Sprintf("unknown event: %s", event.Event))
		return
	}

	if err := appendSession(event.Session); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to write log: %v", err))
		return
	}

	writeSuccessResponse()
}

// logLine is the JSON object appended per finished session.
type logLine struct {
	SessionID string  `json:"session_id"`
	EndedAt   string  `json:"ended_at"`
	Duration  string  `json:"duration"`
	Frames    int     `json:"frames"`
	Last      Reading `json:"last_reading"`
}

// appendSession writes one JSON line per finished session to the log file.
func appendSession(s Session) error {
	f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	return json.NewEncoder(f).Encode(logLine{
		SessionID: s.SessionID,
		EndedAt:   s.EndedAt.Format(time.RFC3339),
		Duration:  s.EndedAt.Sub(s.StartedAt).Round(time.Second).String(),
		Frames:    s.Frames,
		Last:      s.Last,
	})
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	resp := Response{
		Success: false,
		Error:   errMsg,
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse() {
	resp := Response{
		Success: true,
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}
