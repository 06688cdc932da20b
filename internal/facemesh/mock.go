package facemesh

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results, including swapping the
// face out from under a running pipeline.
type MockDetector struct {
	mu   sync.RWMutex
	face *Landmarks
	err  error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetFace sets the landmarks that will be returned by Detect.
// Passing nil simulates a frame without a face.
func (m *MockDetector) SetFace(face *Landmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.face = face
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Detect returns the pre-configured landmarks or error.
func (m *MockDetector) Detect(frame *gocv.Mat) (*Landmarks, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.face, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}
