package overlay

import "github.com/parsaforughi/pixxel-age-filter/internal/facemesh"

// Overlay styling and scoping, in canvas pixels.
const (
	meshColor   = "#6ee7ff"
	markerColor = "#22d3ee"

	meshOpacity   = 0.25
	gridOpacity   = 0.12
	markerOpacity = 0.9

	// meshTolerance admits right-face list members up to 20px left of the
	// center line, so the mesh does not flicker at the midline.
	meshTolerance = 20
	// gridExtension lengthens each grid line 20px past its landmark.
	gridExtension = 20
	// markerTolerance admits annotation markers up to 30px left of the
	// center line.
	markerTolerance = 30

	markerRadius = 6
)

// Render maps one frame's landmarks and the canvas dimensions to the draw
// instructions for the analyzed half of the face. The half is chosen by
// the vertical center line through the nose tip. Render is pure and
// stateless; the caller resets the canvas each frame and paints exactly
// what is returned, so nil landmarks (no face) clear the overlay.
func Render(lm *facemesh.Landmarks, width, height int) []Instruction {
	if lm == nil {
		return nil
	}

	w := float64(width)
	h := float64(height)
	centerX := lm.Points[facemesh.NoseTip].X * w

	instructions := meshLines(lm, w, h, centerX)
	instructions = append(instructions, gridLines(lm, w, h, centerX)...)
	instructions = append(instructions, markers(lm, w, h, centerX)...)

	return instructions
}

// meshMember reports whether landmark i participates in the half-face
// mesh. Right-face list members get the tolerance band past the center
// line; any other landmark must lie strictly right of it.
func meshMember(i int, px, centerX float64) bool {
	if rightFaceSet[i] {
		return px >= centerX-meshTolerance
	}
	return px > centerX
}

// meshLines connects the selected landmarks in index order at low
// opacity, wrapping the last point back to the first.
func meshLines(lm *facemesh.Landmarks, w, h, centerX float64) []Instruction {
	type point struct{ x, y float64 }

	var selected []point
	for i := 0; i < facemesh.NumLandmarks; i++ {
		px := lm.Points[i].X * w
		if !meshMember(i, px, centerX) {
			continue
		}
		selected = append(selected, point{x: px, y: lm.Points[i].Y * h})
	}

	if len(selected) < 2 {
		return nil
	}

	lines := make([]Instruction, 0, len(selected))
	for i, p := range selected {
		next := selected[(i+1)%len(selected)]
		lines = append(lines, Instruction{
			Kind:    KindLine,
			X1:      p.x,
			Y1:      p.y,
			X2:      next.x,
			Y2:      next.y,
			Width:   1,
			Color:   meshColor,
			Opacity: meshOpacity,
		})
	}
	return lines
}

// gridLines draws a faint horizontal line from the center line out past
// every third landmark sitting right of it.
func gridLines(lm *facemesh.Landmarks, w, h, centerX float64) []Instruction {
	var lines []Instruction
	for i := 0; i < facemesh.NumLandmarks; i += 3 {
		px := lm.Points[i].X * w
		if px <= centerX {
			continue
		}
		py := lm.Points[i].Y * h
		lines = append(lines, Instruction{
			Kind:    KindLine,
			X1:      centerX,
			Y1:      py,
			X2:      px + gridExtension,
			Y2:      py,
			Width:   1,
			Color:   meshColor,
			Opacity: gridOpacity,
		})
	}
	return lines
}

// markers places the annotation circles that are on or near the analyzed
// half.
func markers(lm *facemesh.Landmarks, w, h, centerX float64) []Instruction {
	marks := make([]Instruction, 0, len(Annotations))
	for _, a := range Annotations {
		px := lm.Points[a.Landmark].X * w
		if px < centerX-markerTolerance {
			continue
		}
		marks = append(marks, Instruction{
			Kind:    KindCircle,
			X:       px,
			Y:       lm.Points[a.Landmark].Y * h,
			Radius:  markerRadius,
			Width:   1.5,
			Color:   markerColor,
			Opacity: markerOpacity,
			Filled:  true,
			Outline: true,
			Label:   a.Label,
			Metric:  a.Metric,
		})
	}
	return marks
}
