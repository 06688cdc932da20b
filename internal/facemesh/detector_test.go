package facemesh

import (
	"errors"
	"math"
	"testing"
)

const epsilon = 1e-9

func TestReferenceIndices(t *testing.T) {
	t.Run("anatomy mapping matches the detector contract", func(t *testing.T) {
		refs := map[string]int{
			"nose tip":        NoseTip,
			"forehead center": ForeheadCenter,
			"glabella":        Glabella,
			"chin bottom":     ChinBottom,
			"left eye top":    LeftEyeTop,
			"right face edge": RightFaceEdge,
		}
		wants := map[string]int{
			"nose tip":        4,
			"forehead center": 10,
			"glabella":        9,
			"chin bottom":     152,
			"left eye top":    159,
			"right face edge": 454,
		}

		for name, got := range refs {
			if got != wants[name] {
				t.Errorf("expected %s index %d, got %d", name, wants[name], got)
			}
		}
	})

	t.Run("all reference indices are within the landmark range", func(t *testing.T) {
		indices := []int{
			UpperLipTop, NoseTip, NoseBridge, Glabella, ForeheadCenter,
			UpperLipInner, LowerLipInner, LowerLipBottom, LeftEyeOuter,
			LeftBrow, LeftCheekbone, LeftEyeInner, LeftEyeBottom, ChinBottom,
			LeftEyeTop, LeftJaw, LeftFaceEdge, RightEyeOuter, RightBrow,
			RightCheekbone, RightEyeInner, RightEyeBottom, RightEyeTop,
			RightJaw, RightFaceEdge,
		}

		seen := make(map[int]bool)
		for _, idx := range indices {
			if idx < 0 || idx >= NumLandmarks {
				t.Errorf("index %d out of range [0,%d)", idx, NumLandmarks)
			}
			if seen[idx] {
				t.Errorf("index %d mapped to more than one reference point", idx)
			}
			seen[idx] = true
		}
	})
}

func TestLandmarks_Mirror(t *testing.T) {
	t.Run("x coordinates are reflected around the frame center", func(t *testing.T) {
		lm := NeutralFaceLandmarks()
		mirrored := lm.Mirror()

		for i := 0; i < NumLandmarks; i++ {
			want := 1 - lm.Points[i].X
			if math.Abs(mirrored.Points[i].X-want) > epsilon {
				t.Errorf("point %d: expected X %f, got %f", i, want, mirrored.Points[i].X)
			}
		}
	})

	t.Run("y coordinates and score are preserved", func(t *testing.T) {
		lm := YoungFaceLandmarks()
		mirrored := lm.Mirror()

		for i := 0; i < NumLandmarks; i++ {
			if mirrored.Points[i].Y != lm.Points[i].Y {
				t.Errorf("point %d: expected Y %f, got %f", i, lm.Points[i].Y, mirrored.Points[i].Y)
			}
		}
		if mirrored.Score != lm.Score {
			t.Errorf("expected score %f, got %f", lm.Score, mirrored.Score)
		}
	})

	t.Run("face edges swap sides", func(t *testing.T) {
		lm := NeutralFaceLandmarks()
		mirrored := lm.Mirror()

		if mirrored.Points[LeftFaceEdge].X <= mirrored.Points[RightFaceEdge].X {
			t.Error("expected the left face edge to land right of the right face edge after mirroring")
		}
	})

	t.Run("mirroring twice restores the original", func(t *testing.T) {
		lm := AgedFaceLandmarks()
		twice := lm.Mirror().Mirror()

		for i := 0; i < NumLandmarks; i++ {
			if math.Abs(twice.Points[i].X-lm.Points[i].X) > epsilon {
				t.Errorf("point %d: expected X %f, got %f", i, lm.Points[i].X, twice.Points[i].X)
			}
		}
	})

	t.Run("width is preserved", func(t *testing.T) {
		lm := NeutralFaceLandmarks()
		if math.Abs(lm.Mirror().Width()-lm.Width()) > epsilon {
			t.Error("expected mirroring to preserve the face width")
		}
	})

	t.Run("nil landmarks returns nil", func(t *testing.T) {
		var lm *Landmarks
		if lm.Mirror() != nil {
			t.Error("expected nil result for nil input")
		}
	})
}

func TestMockDetector(t *testing.T) {
	t.Run("returns no face by default", func(t *testing.T) {
		mock := NewMockDetector()

		face, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if face != nil {
			t.Errorf("expected nil face, got %v", face)
		}
	})

	t.Run("returns configured face", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetFace(NeutralFaceLandmarks())

		face, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if face == nil {
			t.Fatal("expected a face, got nil")
		}
		if face.Points[NoseTip].X != 0.50 {
			t.Errorf("expected nose tip X 0.50, got %f", face.Points[NoseTip].X)
		}
	})

	t.Run("returns configured error", func(t *testing.T) {
		mock := NewMockDetector()

		expectedErr := errors.New("detection failed")
		mock.SetError(expectedErr)

		face, err := mock.Detect(nil)

		if err != expectedErr {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if face != nil {
			t.Errorf("expected nil face when error is set, got %v", face)
		}
	})

	t.Run("Close returns nil", func(t *testing.T) {
		mock := NewMockDetector()

		if err := mock.Close(); err != nil {
			t.Errorf("expected Close to return nil, got %v", err)
		}
	})

	t.Run("implements Detector interface", func(t *testing.T) {
		var _ Detector = (*MockDetector)(nil)
	})
}

func TestSyntheticFixtures(t *testing.T) {
	fixtures := map[string]*Landmarks{
		"neutral": NeutralFaceLandmarks(),
		"young":   YoungFaceLandmarks(),
		"aged":    AgedFaceLandmarks(),
	}

	t.Run("all points stay within normalized bounds", func(t *testing.T) {
		for name, lm := range fixtures {
			for i, p := range lm.Points {
				if p.X < 0 || p.X > 1 || p.Y < 0 || p.Y > 1 {
					t.Errorf("%s: point %d out of bounds: (%f, %f)", name, i, p.X, p.Y)
				}
			}
		}
	})

	t.Run("scores are confident", func(t *testing.T) {
		for name, lm := range fixtures {
			if lm.Score < 0.9 {
				t.Errorf("%s: expected score >= 0.9, got %f", name, lm.Score)
			}
		}
	})

	t.Run("nose tip sits on the frame midline", func(t *testing.T) {
		for name, lm := range fixtures {
			if lm.Points[NoseTip].X != 0.50 {
				t.Errorf("%s: expected nose tip X 0.50, got %f", name, lm.Points[NoseTip].X)
			}
		}
	})

	t.Run("young face has wider eye opening than aged", func(t *testing.T) {
		young := fixtures["young"]
		aged := fixtures["aged"]

		youngOpen := young.Points[LeftEyeBottom].Y - young.Points[LeftEyeTop].Y
		agedOpen := aged.Points[LeftEyeBottom].Y - aged.Points[LeftEyeTop].Y

		if youngOpen <= agedOpen {
			t.Errorf("expected young eye opening %f > aged %f", youngOpen, agedOpen)
		}
	})

	t.Run("young face has fuller lips than aged", func(t *testing.T) {
		young := fixtures["young"]
		aged := fixtures["aged"]

		youngLips := young.Points[LowerLipBottom].Y - young.Points[UpperLipTop].Y
		agedLips := aged.Points[LowerLipBottom].Y - aged.Points[UpperLipTop].Y

		if youngLips <= agedLips {
			t.Errorf("expected young lip thickness %f > aged %f", youngLips, agedLips)
		}
	})

	t.Run("young face has a shorter forehead than aged", func(t *testing.T) {
		young := fixtures["young"]
		aged := fixtures["aged"]

		youngForehead := young.Points[Glabella].Y - young.Points[ForeheadCenter].Y
		agedForehead := aged.Points[Glabella].Y - aged.Points[ForeheadCenter].Y

		if youngForehead >= agedForehead {
			t.Errorf("expected young forehead height %f < aged %f", youngForehead, agedForehead)
		}
	})

	t.Run("face width matches the outline anchors", func(t *testing.T) {
		lm := fixtures["neutral"]
		if math.Abs(lm.Width()-0.28) > epsilon {
			t.Errorf("expected width 0.28, got %f", lm.Width())
		}
	})
}
