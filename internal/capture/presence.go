package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// PresenceGate decides whether anything is happening in front of the
// camera using frame differencing, so the pipeline can idle while the
// scene is static. Presence is held through a short run of quiet frames
// after the last change to keep the capture rate from flapping.
type PresenceGate struct {
	threshold float64
	baseline  gocv.Mat
	primed    bool
	hold      int
	mu        sync.Mutex
}

const (
	// blurKernel is the Gaussian kernel size used to suppress sensor noise.
	blurKernel = 21
	// diffThreshold is the per-pixel binary threshold on the frame difference.
	diffThreshold = 25
	// holdFrames is how many quiet frames presence survives after the last
	// observed change.
	holdFrames = 30

	// DefaultChangeThreshold is the percentage of changed pixels that
	// counts as presence.
	DefaultChangeThreshold = 1.0
)

// NewPresenceGate creates a PresenceGate with the given change threshold,
// the percentage of pixels that must differ between frames to count as
// presence.
func NewPresenceGate(threshold float64) *PresenceGate {
	return &PresenceGate{
		threshold: threshold,
		baseline:  gocv.NewMat(),
	}
}

// Observe compares a frame against the previous one and reports whether
// the scene is considered occupied, together with the percentage of
// pixels that changed.
//
// Each frame is grayscaled and blurred (21x21) before differencing; the
// first frame only primes the baseline. A change above the threshold arms
// the hold counter, and presence stays reported until it drains.
func (g *PresenceGate) Observe(frame *gocv.Mat) (bool, float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if frame == nil || frame.Empty() {
		return g.hold > 0, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()

	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: blurKernel, Y: blurKernel}, 0, 0, gocv.BorderDefault)

	if !g.primed {
		blurred.CopyTo(&g.baseline)
		g.primed = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, g.baseline, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, diffThreshold, 255, gocv.ThresholdBinary)

	nonZero := gocv.CountNonZero(thresh)
	totalPixels := thresh.Rows() * thresh.Cols()
	changePercent := float64(nonZero) / float64(totalPixels) * 100.0

	blurred.CopyTo(&g.baseline)

	if changePercent > g.threshold {
		g.hold = holdFrames
	} else if g.hold > 0 {
		g.hold--
	}

	return g.hold > 0, changePercent
}

// Active reports whether presence is currently held.
func (g *PresenceGate) Active() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.hold > 0
}

// Reset clears the baseline and any held presence so the gate can be
// reused against a new scene.
func (g *PresenceGate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.baseline.Empty() {
		g.baseline.Close()
		g.baseline = gocv.NewMat()
	}
	g.primed = false
	g.hold = 0
}

// Close releases resources held by the gate.
func (g *PresenceGate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.baseline.Empty() {
		g.baseline.Close()
		g.baseline = gocv.NewMat()
	}
	g.primed = false
	g.hold = 0
}

// SetThreshold sets the change threshold as a percentage of pixels.
// Values less than or equal to 0 are ignored.
func (g *PresenceGate) SetThreshold(threshold float64) {
	if threshold <= 0 {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.threshold = threshold
}
