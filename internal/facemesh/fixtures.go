package facemesh

import "math"

// syntheticFace returns a deterministic 468-point base face for tests.
// The bulk of the mesh is laid out on a wavy ellipse around the frame
// center; the named reference points are pinned explicitly by the fixture
// builders below.
func syntheticFace() *Landmarks {
	lm := &Landmarks{Score: 0.95}
	for i := 0; i < NumLandmarks; i++ {
		t := 2 * math.Pi * float64(i) / float64(NumLandmarks)
		r := 0.16 + 0.02*math.Sin(5*t)
		lm.Points[i] = Point2D{
			X: 0.5 + r*math.Cos(t),
			Y: 0.45 + 1.3*r*math.Sin(t),
		}
	}
	return lm
}

// NeutralFaceLandmarks returns a preset face with average proportions,
// centered in the frame and facing the camera.
func NeutralFaceLandmarks() *Landmarks {
	lm := syntheticFace()
	p := &lm.Points

	// Midline from forehead down to chin
	p[ForeheadCenter] = Point2D{X: 0.50, Y: 0.18}
	p[Glabella] = Point2D{X: 0.50, Y: 0.30}
	p[NoseBridge] = Point2D{X: 0.50, Y: 0.33}
	p[NoseTip] = Point2D{X: 0.50, Y: 0.48}
	p[UpperLipTop] = Point2D{X: 0.50, Y: 0.58}
	p[UpperLipInner] = Point2D{X: 0.50, Y: 0.595}
	p[LowerLipInner] = Point2D{X: 0.50, Y: 0.605}
	p[LowerLipBottom] = Point2D{X: 0.50, Y: 0.62}
	p[ChinBottom] = Point2D{X: 0.50, Y: 0.72}

	// Eyes, inner corners 0.10 apart
	p[LeftEyeOuter] = Point2D{X: 0.40, Y: 0.38}
	p[LeftEyeInner] = Point2D{X: 0.45, Y: 0.38}
	p[LeftEyeTop] = Point2D{X: 0.425, Y: 0.37}
	p[LeftEyeBottom] = Point2D{X: 0.425, Y: 0.39}
	p[RightEyeInner] = Point2D{X: 0.55, Y: 0.38}
	p[RightEyeOuter] = Point2D{X: 0.60, Y: 0.38}
	p[RightEyeTop] = Point2D{X: 0.575, Y: 0.37}
	p[RightEyeBottom] = Point2D{X: 0.575, Y: 0.39}

	// Brows above the eye line
	p[LeftBrow] = Point2D{X: 0.425, Y: 0.33}
	p[RightBrow] = Point2D{X: 0.575, Y: 0.33}

	// Cheekbones and face outline
	p[LeftCheekbone] = Point2D{X: 0.41, Y: 0.445}
	p[RightCheekbone] = Point2D{X: 0.59, Y: 0.445}
	p[LeftFaceEdge] = Point2D{X: 0.36, Y: 0.42}
	p[RightFaceEdge] = Point2D{X: 0.64, Y: 0.42}
	p[LeftJaw] = Point2D{X: 0.40, Y: 0.62}
	p[RightJaw] = Point2D{X: 0.60, Y: 0.62}

	return lm
}

// YoungFaceLandmarks returns a preset face with young-skewed geometry:
// wide-open eyes, full lips, and a short forehead.
func YoungFaceLandmarks() *Landmarks {
	lm := NeutralFaceLandmarks()
	p := &lm.Points

	// Short forehead
	p[ForeheadCenter] = Point2D{X: 0.50, Y: 0.20}
	p[Glabella] = Point2D{X: 0.50, Y: 0.28}

	// Wide-open eyes
	p[LeftEyeTop] = Point2D{X: 0.425, Y: 0.365}
	p[LeftEyeBottom] = Point2D{X: 0.425, Y: 0.395}
	p[RightEyeTop] = Point2D{X: 0.575, Y: 0.365}
	p[RightEyeBottom] = Point2D{X: 0.575, Y: 0.395}

	// Full lips
	p[UpperLipTop] = Point2D{X: 0.50, Y: 0.575}
	p[LowerLipBottom] = Point2D{X: 0.50, Y: 0.635}

	// High cheekbones
	p[LeftCheekbone] = Point2D{X: 0.41, Y: 0.4645}
	p[RightCheekbone] = Point2D{X: 0.59, Y: 0.4645}

	return lm
}

// AgedFaceLandmarks returns a preset face with aged-skewed geometry:
// narrowed eyes, thin lips, and a tall forehead. Its facial proportions
// otherwise match YoungFaceLandmarks so the two produce comparable
// signatures.
func AgedFaceLandmarks() *Landmarks {
	lm := NeutralFaceLandmarks()
	p := &lm.Points

	// Tall forehead
	p[ForeheadCenter] = Point2D{X: 0.50, Y: 0.16}
	p[Glabella] = Point2D{X: 0.50, Y: 0.30}

	// Narrowed eyes
	p[LeftEyeTop] = Point2D{X: 0.425, Y: 0.375}
	p[LeftEyeBottom] = Point2D{X: 0.425, Y: 0.385}
	p[RightEyeTop] = Point2D{X: 0.575, Y: 0.375}
	p[RightEyeBottom] = Point2D{X: 0.575, Y: 0.385}

	// Thin lips
	p[UpperLipTop] = Point2D{X: 0.50, Y: 0.585}
	p[LowerLipBottom] = Point2D{X: 0.50, Y: 0.615}

	p[LeftCheekbone] = Point2D{X: 0.41, Y: 0.467}
	p[RightCheekbone] = Point2D{X: 0.59, Y: 0.467}

	return lm
}
