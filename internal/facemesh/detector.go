package facemesh

import "gocv.io/x/gocv"

// Detector defines the interface for face landmark detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns the detected face's landmarks.
	// Returns nil landmarks (and a nil error) if no face is detected.
	Detect(frame *gocv.Mat) (*Landmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for face landmark detection.
type Config struct {
	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	// Faces scored below it are treated as "no face".
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
	}
}
