package drawing

import (
	"encoding/json"

	"github.com/interomap/interomap/pkg/canvas"
)

// SurfaceRecord is the serializable state of one surface: its native
// dimensions, display scale factor, and strokes in completion order.
type SurfaceRecord struct {
	ImgWidth    int             `json:"imgWidth"`
	ImgHeight   int             `json:"imgHeight"`
	ScaleFactor float64         `json:"scaleFactor"`
	Strokes     []canvas.Stroke `json:"strokes"`
}

// Drawing is the serializable output handed to the hosting platform: a mapping
// from surface key ("{Persona}Front" / "{Persona}Back") to its record. The two
// keys present are always exactly the current persona's front and back, with
// empty stroke lists even before any drawing occurs.
type Drawing map[string]*SurfaceRecord

// NewDrawing initializes a Drawing for the given persona with both surface
// records present and empty stroke lists.
func NewDrawing(persona Persona, dims map[Side]canvas.Dimensions) Drawing {
	d := make(Drawing, len(Sides))
	for _, side := range Sides {
		dm := dims[side]
		d[persona.Surface(side).Key()] = &SurfaceRecord{
			ImgWidth:    dm.ImgWidth,
			ImgHeight:   dm.ImgHeight,
			ScaleFactor: dm.ScaleFactor,
			Strokes:     []canvas.Stroke{},
		}
	}
	return d
}

// Encode serializes the drawing to its flat text wire encoding. Go sorts map
// keys during JSON marshaling, so encoding is deterministic for identical
// content.
func (d Drawing) Encode() (string, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeDrawing parses a wire-encoded drawing.
func DecodeDrawing(encoded string) (Drawing, error) {
	var d Drawing
	if err := json.Unmarshal([]byte(encoded), &d); err != nil {
		return nil, err
	}
	return d, nil
}

// StrokeCount returns the total strokes across all surfaces.
func (d Drawing) StrokeCount() int {
	n := 0
	for _, rec := range d {
		n += len(rec.Strokes)
	}
	return n
}
