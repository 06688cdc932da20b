package api

import (
	"net/http"
	"strings"

	"github.com/parsaforughi/pixxel-age-filter/internal/store"
)

// ReadingsHandler handles HTTP requests for a session's stored readings.
type ReadingsHandler struct {
	store *store.Store
}

// NewReadingsHandler creates a new ReadingsHandler with the given store.
func NewReadingsHandler(s *store.Store) *ReadingsHandler {
	return &ReadingsHandler{store: s}
}

// ServeHTTP implements the http.Handler interface.
// Expected paths: /api/sessions/{id}/readings
func (h *ReadingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Parse session ID from path: /api/sessions/{id}/readings
	path := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	parts := strings.Split(path, "/")

	if len(parts) != 2 || parts[1] != "readings" {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	sessionID := parts[0]

	switch r.Method {
	case http.MethodGet:
		h.list(w, r, sessionID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Response types

type readingResponse struct {
	ID           int64  `json:"id"`
	SessionID    string `json:"session_id"`
	EstimatedAge int    `json:"estimated_age"`
	Wrinkles     int    `json:"wrinkles"`
	EyeAging     int    `json:"eye_aging"`
	Texture      int    `json:"texture"`
	Volume       int    `json:"volume"`
	SkinTone     int    `json:"skin_tone"`
	CreatedAt    string `json:"created_at"`
}

type listReadingsResponse struct {
	Readings []readingResponse `json:"readings"`
}

// list handles GET /api/sessions/{id}/readings
func (h *ReadingsHandler) list(w http.ResponseWriter, r *http.Request, sessionID string) {
	// Verify session exists
	if _, err := h.store.Sessions().GetByID(sessionID); err != nil {
		if err == store.ErrNotFound {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to verify session")
		return
	}

	readings, err := h.store.Readings().GetBySessionID(sessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list readings")
		return
	}

	response := listReadingsResponse{
		Readings: make([]readingResponse, 0, len(readings)),
	}

	for _, rd := range readings {
		response.Readings = append(response.Readings, readingResponse{
			ID:           rd.ID,
			SessionID:    rd.SessionID,
			EstimatedAge: rd.EstimatedAge,
			Wrinkles:     rd.Wrinkles,
			EyeAging:     rd.EyeAging,
			Texture:      rd.Texture,
			Volume:       rd.Volume,
			SkinTone:     rd.SkinTone,
			CreatedAt:    rd.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	writeJSON(w, http.StatusOK, response)
}
