package skin

import (
	"math"
	"sort"
)

// History window sizing.
const (
	// maxHistory bounds the rolling window, about 3 seconds at 30 fps.
	maxHistory = 90
	// minSamples is the warm-up threshold below which readings pass
	// through unstabilized, so a value appears without a long delay.
	minSamples = 15
)

// History is a bounded FIFO of recent metric readings owned by one viewing
// session. It is not safe for concurrent use; the frame pipeline is the
// only caller.
type History struct {
	entries []Metrics
}

// NewHistory creates an empty metrics history.
func NewHistory() *History {
	return &History{
		entries: make([]Metrics, 0, maxHistory),
	}
}

// Stabilize records a new reading and returns the metrics to display for
// this frame.
//
// The estimated age uses a trimmed mean over the window: the lowest and
// highest 20% of the sorted ages are discarded so momentary misdetections
// cannot drag the displayed value. The five cosmetic scores are plain
// means over the full window; they are smooth enough by construction.
func (h *History) Stabilize(m Metrics) Metrics {
	if len(h.entries) >= maxHistory {
		// Evict the oldest entry
		copy(h.entries, h.entries[1:])
		h.entries = h.entries[:maxHistory-1]
	}
	h.entries = append(h.entries, m)

	n := len(h.entries)
	if n < minSamples {
		return m
	}

	ages := make([]int, n)
	for i, e := range h.entries {
		ages[i] = e.EstimatedAge
	}
	sort.Ints(ages)

	trim := n / 5
	kept := ages[trim : n-trim]

	ageSum := 0
	for _, a := range kept {
		ageSum += a
	}

	var wrinkles, eyeAging, texture, volume, skinTone int
	for _, e := range h.entries {
		wrinkles += e.Wrinkles
		eyeAging += e.EyeAging
		texture += e.Texture
		volume += e.Volume
		skinTone += e.SkinTone
	}

	return Metrics{
		EstimatedAge: roundMean(ageSum, len(kept)),
		Wrinkles:     roundMean(wrinkles, n),
		EyeAging:     roundMean(eyeAging, n),
		Texture:      roundMean(texture, n),
		Volume:       roundMean(volume, n),
		SkinTone:     roundMean(skinTone, n),
	}
}

// Len reports how many readings the window currently holds.
func (h *History) Len() int {
	return len(h.entries)
}

// Reset discards all recorded readings, starting a fresh window.
func (h *History) Reset() {
	h.entries = h.entries[:0]
}

// roundMean returns sum/count rounded to the nearest integer.
func roundMean(sum, count int) int {
	return int(math.Round(float64(sum) / float64(count)))
}
