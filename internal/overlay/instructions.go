// Package overlay turns face landmarks into canvas draw instructions for
// the half-face analysis mesh.
package overlay

import "github.com/parsaforughi/pixxel-age-filter/internal/facemesh"

// Kind identifies the shape a draw instruction paints.
type Kind string

const (
	// KindLine is a straight line segment between two canvas points.
	KindLine Kind = "line"
	// KindCircle is a circle centered on one canvas point.
	KindCircle Kind = "circle"
)

// Instruction is one ephemeral draw command in canvas pixel coordinates.
// A frame's instruction list fully replaces the previous frame's marks.
type Instruction struct {
	Kind    Kind    `json:"kind"`
	X1      float64 `json:"x1,omitempty"`
	Y1      float64 `json:"y1,omitempty"`
	X2      float64 `json:"x2,omitempty"`
	Y2      float64 `json:"y2,omitempty"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
	Radius  float64 `json:"radius,omitempty"`
	Width   float64 `json:"width,omitempty"`
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
	Filled  bool    `json:"filled,omitempty"`
	Outline bool    `json:"outline,omitempty"`
	Label   string  `json:"label,omitempty"`
	Metric  string  `json:"metric,omitempty"`
}

// Annotation names one facial reference point and the metric key shown
// beside its marker.
type Annotation struct {
	Label    string
	Landmark int
	Metric   string
}

// Annotations is the static marker table for the analyzed half of the
// face. It is configuration data and never mutated at runtime.
var Annotations = []Annotation{
	{Label: "Forehead", Landmark: facemesh.ForeheadCenter, Metric: "wrinkles"},
	{Label: "Right eye", Landmark: facemesh.RightEyeTop, Metric: "eyeAging"},
	{Label: "Right cheek", Landmark: facemesh.RightCheekbone, Metric: "texture"},
	{Label: "Jawline", Landmark: facemesh.RightJaw, Metric: "volume"},
	{Label: "Nose", Landmark: facemesh.NoseTip, Metric: "skinTone"},
}

// rightFaceIndices lists the mesh landmarks on the right half of the face
// (MediaPipe FaceMesh indexing): the right portion of the face oval, the
// right eye and brow rings, the right cheek and nose side, and the right
// half of the lips, plus the midline anchors they connect to.
var rightFaceIndices = [...]int{
	4, 10, 152,
	249, 251, 263, 267, 269, 270, 275, 276, 278, 279, 281, 282, 283, 284,
	285, 288, 291, 293, 294, 295, 296, 297, 300, 308, 314, 317, 318, 321,
	323, 324, 326, 327, 332, 334, 336, 338, 344, 345, 346, 347, 348, 349,
	350, 356, 358, 360, 361, 362, 363, 365, 373, 374, 375, 377, 378, 379,
	380, 381, 382, 384, 385, 386, 387, 388, 389, 390, 397, 398, 400, 402,
	405, 409, 411, 425, 427, 430, 434, 436, 440, 451, 452, 453, 454, 466,
}

// rightFaceSet indexes rightFaceIndices for membership tests.
var rightFaceSet = func() map[int]bool {
	set := make(map[int]bool, len(rightFaceIndices))
	for _, idx := range rightFaceIndices {
		set[idx] = true
	}
	return set
}()
