package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"

	"github.com/parsaforughi/pixxel-age-filter/internal/logging"
	"github.com/parsaforughi/pixxel-age-filter/internal/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

var liveJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// Update is one frame's presentation state as pushed to dashboard clients.
type Update struct {
	session.FrameResult
	Timestamp int64 `json:"timestamp"`
}

// NewUpdate wraps a frame result with the current wall-clock timestamp.
func NewUpdate(result session.FrameResult) Update {
	return Update{
		FrameResult: result,
		Timestamp:   time.Now().UnixMilli(),
	}
}

// LiveHandler broadcasts real-time analysis results via WebSocket. Results
// are pushed by the capture pipeline through Publish; the handler itself
// never reads the camera.
type LiveHandler struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewLiveHandler creates a new LiveHandler with no connected clients.
func NewLiveHandler() *LiveHandler {
	return &LiveHandler{
		clients: make(map[*websocket.Conn]bool),
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn(logging.Fields{"error": err.Error()}, "[LiveHandler] websocket upgrade failed")
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Publish sends an update to all connected clients. It is only called
// from the pipeline goroutine, so writes to a connection never overlap.
func (h *LiveHandler) Publish(update Update) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.clients) == 0 {
		return
	}

	msg, err := liveJSON.Marshal(update)
	if err != nil {
		logging.Error(logging.Fields{"error": err.Error()}, "[LiveHandler] failed to marshal update")
		return
	}

	for conn := range h.clients {
		conn.WriteMessage(websocket.TextMessage, msg)
	}
}

// Clients returns the number of connected clients.
func (h *LiveHandler) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
