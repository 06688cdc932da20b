// Package session sequences camera permission, face search, and result
// display for one viewer, feeding every frame through the metric
// calculator, the stabilizer, and the overlay renderer in strict order.
package session

import (
	"github.com/parsaforughi/pixxel-age-filter/internal/facemesh"
	"github.com/parsaforughi/pixxel-age-filter/internal/overlay"
	"github.com/parsaforughi/pixxel-age-filter/internal/skin"
)

// State identifies where the presentation flow currently is.
type State string

const (
	// StateAwaitingPermission is the initial state, before the camera is
	// available.
	StateAwaitingPermission State = "awaiting_permission"
	// StateSearching means the camera is running but no face is in view.
	StateSearching State = "searching"
	// StateDisplaying means a face is tracked and readings are shown.
	StateDisplaying State = "displaying"
	// StatePermissionError means the camera was refused; only Retry
	// leaves this state.
	StatePermissionError State = "permission_error"
)

// lossTolerance is how many consecutive no-face frames count as detector
// flicker before the viewer is considered gone (about 2 seconds at the
// active frame rate) and the metrics history is abandoned.
const lossTolerance = 60

// FrameResult is what one processed frame yields for display.
type FrameResult struct {
	State   State                 `json:"state"`
	Metrics *skin.Metrics         `json:"metrics,omitempty"`
	Overlay []overlay.Instruction `json:"overlay,omitempty"`
	// Ended marks the frame on which the current viewer's reading was
	// abandoned after sustained face loss.
	Ended bool `json:"ended,omitempty"`
}

// Session drives the presentation state machine for one viewer. It is not
// safe for concurrent use: the frame pipeline is its only caller, and each
// frame is fully processed before the next is accepted.
type Session struct {
	state      State
	history    *skin.History
	width      int
	height     int
	lostFrames int
}

// New creates a session awaiting camera permission, rendering onto a
// canvas of the given pixel dimensions.
func New(width, height int) *Session {
	return &Session{
		state:   StateAwaitingPermission,
		history: skin.NewHistory(),
		width:   width,
		height:  height,
	}
}

// State returns the current presentation state.
func (s *Session) State() State {
	return s.state
}

// GrantPermission moves the session into face search once the camera is
// available. It is a no-op outside AwaitingPermission.
func (s *Session) GrantPermission() {
	if s.state == StateAwaitingPermission {
		s.state = StateSearching
	}
}

// DenyPermission marks the camera as refused. It is a no-op outside
// AwaitingPermission.
func (s *Session) DenyPermission() {
	if s.state == StateAwaitingPermission {
		s.state = StatePermissionError
	}
}

// Retry leaves PermissionError and requests the camera again.
func (s *Session) Retry() {
	if s.state == StatePermissionError {
		s.state = StateAwaitingPermission
	}
}

// Reset returns a running session to face search with a fresh metrics
// window, ending the current viewer's reading.
func (s *Session) Reset() {
	if s.state != StateSearching && s.state != StateDisplaying {
		return
	}
	s.state = StateSearching
	s.lostFrames = 0
	s.history.Reset()
}

// ProcessFrame runs one frame through the pipeline. A nil landmark set is
// the "no face" signal: output is suspended and the overlay cleared for
// that frame. Frames arriving before permission is granted are ignored.
//
// With a face present, the metric calculator, the stabilizer, and the
// overlay renderer run synchronously in that order before ProcessFrame
// returns, so the next frame can never overlap an in-flight pass.
func (s *Session) ProcessFrame(lm *facemesh.Landmarks) FrameResult {
	if s.state == StateAwaitingPermission || s.state == StatePermissionError {
		return FrameResult{State: s.state}
	}

	if lm == nil {
		s.state = StateSearching
		s.lostFrames++
		if s.lostFrames == lossTolerance && s.history.Len() > 0 {
			// Sustained loss, not flicker: a returning face starts a
			// fresh reading instead of inheriting this viewer's window.
			s.history.Reset()
			return FrameResult{State: s.state, Ended: true}
		}
		return FrameResult{State: s.state}
	}

	s.state = StateDisplaying
	s.lostFrames = 0

	metrics := s.history.Stabilize(skin.Calculate(lm))
	instructions := overlay.Render(lm, s.width, s.height)

	return FrameResult{
		State:   s.state,
		Metrics: &metrics,
		Overlay: instructions,
	}
}
