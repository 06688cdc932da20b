// Package facemesh provides face landmark detection interfaces and types for
// the skin analysis pipeline.
package facemesh

import "math"

// Face landmark indices following the MediaPipe FaceMesh convention.
// The index-to-anatomy mapping is a contract the detector guarantees; only
// the named reference points below are consumed elsewhere in the pipeline.
// See: https://developers.google.com/mediapipe/solutions/vision/face_landmarker
const (
	UpperLipTop    = 0
	NoseTip        = 4
	NoseBridge     = 6
	Glabella       = 9
	ForeheadCenter = 10
	UpperLipInner  = 13
	LowerLipInner  = 14
	LowerLipBottom = 17
	LeftEyeOuter   = 33
	LeftBrow       = 105
	LeftCheekbone  = 116
	LeftEyeInner   = 133
	LeftEyeBottom  = 145
	ChinBottom     = 152
	LeftEyeTop     = 159
	LeftJaw        = 172
	LeftFaceEdge   = 234
	RightEyeOuter  = 263
	RightBrow      = 334
	RightCheekbone = 345
	RightEyeInner  = 362
	RightEyeBottom = 374
	RightEyeTop    = 386
	RightJaw       = 397
	RightFaceEdge  = 454
	NumLandmarks   = 468
)

// Point2D represents a normalized 2D point with x, y in [0,1] relative to
// the frame size.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Landmarks represents the 468 face landmarks detected by MediaPipe for a
// single face. At most one face is tracked per frame.
type Landmarks struct {
	Points [NumLandmarks]Point2D `json:"points"`
	Score  float64               `json:"score"`
}

// distance2D calculates the Euclidean distance between two 2D points.
func distance2D(a, b Point2D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Width returns the horizontal extent of the face in normalized coordinates,
// measured between the outer face edges.
func (l *Landmarks) Width() float64 {
	if l == nil {
		return 0
	}
	return distance2D(l.Points[LeftFaceEdge], l.Points[RightFaceEdge])
}

// Mirror returns a horizontally flipped copy of the landmarks, matching a
// selfie-view preview where the video is mirrored before display.
// Pairwise distances are preserved, so derived proportions are unaffected.
// Returns a new Landmarks instance.
func (l *Landmarks) Mirror() *Landmarks {
	if l == nil {
		return nil
	}

	mirrored := &Landmarks{Score: l.Score}
	for i := 0; i < NumLandmarks; i++ {
		mirrored.Points[i] = Point2D{
			X: 1 - l.Points[i].X,
			Y: l.Points[i].Y,
		}
	}
	return mirrored
}
