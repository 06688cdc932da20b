package server

import (
	"fmt"
	"net/http"
	"sync"
	"time"
)

// StreamHandler serves the camera preview as an MJPEG stream. JPEG frames
// are pushed by the capture pipeline through PublishFrame; the handler
// itself never reads the camera.
type StreamHandler struct {
	mu      sync.RWMutex
	latest  []byte
	seq     uint64
	viewers int
}

// NewStreamHandler creates a new StreamHandler with no frame.
func NewStreamHandler() *StreamHandler {
	return &StreamHandler{}
}

// PublishFrame replaces the latest preview frame. The handler keeps the
// slice, so the caller must not modify it afterwards.
func (h *StreamHandler) PublishFrame(jpeg []byte) {
	if len(jpeg) == 0 {
		return
	}
	h.mu.Lock()
	h.latest = jpeg
	h.seq++
	h.mu.Unlock()
}

// Viewers returns the number of open stream connections. The pipeline
// skips JPEG encoding entirely while this is zero.
func (h *StreamHandler) Viewers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.viewers
}

// ServeHTTP streams MJPEG frames to connected clients.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	h.mu.Lock()
	h.viewers++
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		h.viewers--
		h.mu.Unlock()
	}()

	var lastSeq uint64
	for {
		select {
		case <-r.Context().Done():
			return
		default:
		}

		h.mu.RLock()
		frame, seq := h.latest, h.seq
		h.mu.RUnlock()

		// Only write when the pipeline has published a new frame
		if seq != lastSeq && len(frame) > 0 {
			fmt.Fprintf(w, "--frame\r\n")
			fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
			fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(frame))
			w.Write(frame)
			fmt.Fprintf(w, "\r\n")
			lastSeq = seq

			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}

		time.Sleep(33 * time.Millisecond) // ~30 FPS
	}
}
