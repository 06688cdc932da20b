// Package skin derives cosmetic skin-age metrics from face landmarks and
// stabilizes them across frames. The scores are a deterministic, styled
// function of face geometry, not a biometric or medical estimate.
package skin

import (
	"math"

	"github.com/parsaforughi/pixxel-age-filter/internal/facemesh"
)

// Metrics is one frame's derived skin reading. EstimatedAge is in years;
// the five cosmetic scores are percentages. Every field is clamped to its
// documented range regardless of input geometry:
// estimatedAge [20,55], wrinkles [5,75], eyeAging [3,60], texture [60,98],
// volume [55,98], skinTone [3,25].
type Metrics struct {
	EstimatedAge int `json:"estimatedAge"`
	Wrinkles     int `json:"wrinkles"`
	EyeAging     int `json:"eyeAging"`
	Texture      int `json:"texture"`
	Volume       int `json:"volume"`
	SkinTone     int `json:"skinTone"`
}

// distances holds the ten raw feature distances measured on a face, in
// normalized frame coordinates.
type distances struct {
	foreheadHeight  float64
	eyeOpenness     float64
	cheekWidth      float64
	jawWidth        float64
	noseLength      float64
	faceHeight      float64
	eyeDistance     float64
	lipThickness    float64
	browHeight      float64
	cheekboneHeight float64
}

// ratios holds the eight dimensionless proportions derived from the raw
// distances. Proportions are framing-invariant: moving closer to the
// camera scales every distance equally.
type ratios struct {
	face        float64
	forehead    float64
	eyeOpenness float64
	nose        float64
	lip         float64
	jaw         float64
	brow        float64
	cheekbone   float64
}

// Calculate derives one frame's skin metrics from a face's landmarks.
// It is a pure, total function: identical landmark sets yield identical
// metrics, and degenerate geometry (coincident points) is absorbed by the
// zero-safe ratio rule rather than propagated. A nil face is treated as
// fully degenerate geometry.
func Calculate(lm *facemesh.Landmarks) Metrics {
	if lm == nil {
		lm = &facemesh.Landmarks{}
	}

	d := measure(lm)
	r := derive(d)

	// Step 1: combine the proportions into a per-face signature. The
	// weighted sum is stable for one face under fixed framing and spreads
	// different faces apart.
	signature := 1000*math.Abs(r.face) +
		800*math.Abs(r.forehead) +
		600*math.Abs(r.eyeOpenness) +
		500*math.Abs(r.nose) +
		400*math.Abs(r.lip) +
		300*math.Abs(r.jaw) +
		200*math.Abs(r.brow) +
		100*math.Abs(r.cheekbone)

	// Step 2: fold the signature into a pseudo-uniform value in [0,1].
	offset := math.Sin(signature)*0.5 + 0.5

	// Step 3: base age plus a small geometry adjustment. Open eyes, full
	// lips, and a short forehead read young and pull the age down.
	baseAge := 20 + offset*35
	adjustment := clampFloat(r.forehead*20-r.eyeOpenness*10-r.lip*30, -5, 5)
	age := clampInt(round(baseAge+adjustment), 20, 55)

	// Step 4: cosmetic scores, affine in the age position and the offset.
	agePercent := float64(age-20) / 35

	return Metrics{
		EstimatedAge: age,
		Wrinkles:     clampInt(round(5+agePercent*60+offset*10), 5, 75),
		EyeAging:     clampInt(round(3+agePercent*45+offset*12), 3, 60),
		Texture:      clampInt(round(95-agePercent*25-offset*10), 60, 98),
		Volume:       clampInt(round(95-agePercent*30-offset*10), 55, 98),
		SkinTone:     clampInt(round(5+agePercent*15+offset*5), 3, 25),
	}
}

// measure computes the ten raw feature distances between fixed landmark
// pairs.
func measure(lm *facemesh.Landmarks) distances {
	p := &lm.Points
	return distances{
		foreheadHeight:  math.Abs(p[facemesh.ForeheadCenter].Y - p[facemesh.Glabella].Y),
		eyeOpenness:     dist(p[facemesh.LeftEyeTop], p[facemesh.LeftEyeBottom]),
		cheekWidth:      dist(p[facemesh.LeftFaceEdge], p[facemesh.RightFaceEdge]),
		jawWidth:        dist(p[facemesh.LeftJaw], p[facemesh.RightJaw]),
		noseLength:      dist(p[facemesh.NoseBridge], p[facemesh.NoseTip]),
		faceHeight:      dist(p[facemesh.ForeheadCenter], p[facemesh.ChinBottom]),
		eyeDistance:     dist(p[facemesh.LeftEyeInner], p[facemesh.RightEyeInner]),
		lipThickness:    dist(p[facemesh.UpperLipTop], p[facemesh.LowerLipBottom]),
		browHeight:      dist(p[facemesh.LeftBrow], p[facemesh.LeftEyeTop]),
		cheekboneHeight: math.Abs(p[facemesh.LeftEyeOuter].Y - p[facemesh.LeftCheekbone].Y),
	}
}

// derive forms the eight proportions from the raw distances. Each division
// follows the zero-safe rule: a zero-length denominator yields a 0 ratio,
// never NaN or infinity.
func derive(d distances) ratios {
	return ratios{
		face:        safeRatio(d.faceHeight, d.cheekWidth),
		forehead:    safeRatio(d.foreheadHeight, d.faceHeight),
		eyeOpenness: safeRatio(d.eyeOpenness, d.eyeDistance),
		nose:        safeRatio(d.noseLength, d.faceHeight),
		lip:         safeRatio(d.lipThickness, d.faceHeight),
		jaw:         safeRatio(d.jawWidth, d.cheekWidth),
		brow:        safeRatio(d.browHeight, d.faceHeight),
		cheekbone:   safeRatio(d.cheekboneHeight, d.faceHeight),
	}
}

// dist calculates the Euclidean distance between two 2D points.
func dist(a, b facemesh.Point2D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// safeRatio divides a by b, treating a zero denominator as a zero ratio.
func safeRatio(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round(x float64) int {
	return int(math.Round(x))
}
