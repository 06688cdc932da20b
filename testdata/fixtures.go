// Package testdata provides recorded face landmark captures for tests.
// Each capture is one JSON response from the face mesh service.
package testdata

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/parsaforughi/pixxel-age-filter/internal/facemesh"
)

//go:embed faces/*.json
var facesFS embed.FS

// LoadFace loads a recorded landmark capture by name
func LoadFace(name string) (*facemesh.Landmarks, error) {
	data, err := facesFS.ReadFile("faces/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("load face %s: %w", name, err)
	}

	var capture struct {
		Points []facemesh.Point2D `json:"points"`
		Score  float64            `json:"score"`
	}
	if err := json.Unmarshal(data, &capture); err != nil {
		return nil, fmt.Errorf("decode face %s: %w", name, err)
	}
	if len(capture.Points) != facemesh.NumLandmarks {
		return nil, fmt.Errorf("face %s: expected %d points, got %d",
			name, facemesh.NumLandmarks, len(capture.Points))
	}

	lm := &facemesh.Landmarks{Score: capture.Score}
	copy(lm.Points[:], capture.Points)
	return lm, nil
}

// Faces lists the available capture names
func Faces() ([]string, error) {
	entries, err := facesFS.ReadDir("faces")
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	return names, nil
}
