package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/parsaforughi/pixxel-age-filter/internal/store"
)

// SettingsHandler handles HTTP requests for application settings.
type SettingsHandler struct {
	store    *store.Store
	validate *validator.Validate
}

// NewSettingsHandler creates a new SettingsHandler with the given store.
func NewSettingsHandler(s *store.Store) *SettingsHandler {
	return &SettingsHandler{
		store:    s,
		validate: validator.New(),
	}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Parse the path to determine if this is a collection or item request
	// Expected paths: /api/settings or /api/settings/{key}
	path := strings.TrimPrefix(r.URL.Path, "/api/settings")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		// Collection endpoint: /api/settings
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPut:
			h.put(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	// Item endpoint: /api/settings/{key}
	key := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, key)
	case http.MethodDelete:
		h.delete(w, r, key)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type updateSettingRequest struct {
	Key   string `json:"key" validate:"required,max=64"`
	Value string `json:"value" validate:"required,max=256"`
}

type settingResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type listSettingsResponse struct {
	Settings map[string]string `json:"settings"`
}

// list handles GET /api/settings and returns all settings.
func (h *SettingsHandler) list(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.Settings().All()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list settings")
		return
	}

	writeJSON(w, http.StatusOK, listSettingsResponse{Settings: settings})
}

// put handles PUT /api/settings and upserts a single setting.
func (h *SettingsHandler) put(w http.ResponseWriter, r *http.Request) {
	var req updateSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid setting")
		return
	}

	// The mirror setting is interpreted as a boolean by the pipeline
	if req.Key == store.SettingMirror && req.Value != "true" && req.Value != "false" {
		writeError(w, http.StatusBadRequest, "Mirror must be true or false")
		return
	}

	if err := h.store.Settings().Set(req.Key, req.Value); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save setting")
		return
	}

	writeJSON(w, http.StatusOK, settingResponse{Key: req.Key, Value: req.Value})
}

// get handles GET /api/settings/{key} and returns a single setting.
func (h *SettingsHandler) get(w http.ResponseWriter, r *http.Request, key string) {
	value, err := h.store.Settings().Get(key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Setting not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get setting")
		return
	}

	writeJSON(w, http.StatusOK, settingResponse{Key: key, Value: value})
}

// delete handles DELETE /api/settings/{key} and removes a setting. Deleting
// a key that does not exist is not an error.
func (h *SettingsHandler) delete(w http.ResponseWriter, r *http.Request, key string) {
	if err := h.store.Settings().Delete(key); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete setting")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
