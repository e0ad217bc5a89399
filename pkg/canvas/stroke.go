package canvas

import "github.com/interomap/interomap/pkg/affect"

// Stroke is one completed freehand drawing action. It captures the brush
// color, brush size (native units), and both affect ratings as they were at
// completion time. A Stroke is immutable once created; the history only ever
// appends or removes whole strokes.
type Stroke struct {
	Points     []Point       `json:"points"`
	BrushColor string        `json:"brushColor"`
	BrushSize  float64       `json:"brushSize"`
	Intensity  affect.Rating `json:"intensity"`
	Valence    affect.Rating `json:"valence"`
}

// Clone returns a deep copy of the stroke. Points are copied so the original
// sequence can never be mutated through the copy.
func (s Stroke) Clone() Stroke {
	points := make([]Point, len(s.Points))
	copy(points, s.Points)
	out := s
	out.Points = points
	return out
}
