package canvas

import (
	"encoding/json"
	"testing"

	"github.com/interomap/interomap/pkg/affect"
)

func TestPreviewBrushSize(t *testing.T) {
	tests := []struct {
		name  string
		size  float64
		dims  Dimensions
		want  float64
	}{
		{"unity scale", 4, Dimensions{ScaleFactor: 1}, 4},
		{"downscaled display", 4, Dimensions{ScaleFactor: 0.5}, 2},
		{"upscaled display", 3, Dimensions{ScaleFactor: 2}, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PreviewBrushSize(tt.size, tt.dims); got != tt.want {
				t.Errorf("PreviewBrushSize(%v) = %v, want %v", tt.size, got, tt.want)
			}
		})
	}
}

func TestStrokeClone(t *testing.T) {
	s := Stroke{
		Points:     []Point{{X: 1, Y: 2}, {X: 3, Y: 4}},
		BrushColor: "#adbb69",
		BrushSize:  4,
		Intensity:  affect.Rated(6),
		Valence:    affect.Rated(6),
	}

	c := s.Clone()
	c.Points[0].X = 99

	if s.Points[0].X != 1 {
		t.Error("mutating the clone changed the original stroke")
	}
	if c.BrushColor != s.BrushColor || c.BrushSize != s.BrushSize {
		t.Error("clone did not copy brush attributes")
	}
}

func TestStrokeJSONShape(t *testing.T) {
	s := Stroke{
		Points:     []Point{{X: 10, Y: 20}},
		BrushColor: "#ff0000",
		BrushSize:  2,
		Intensity:  affect.Rated(3),
		Valence:    affect.Unset(),
	}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	want := `{"points":[{"x":10,"y":20}],"brushColor":"#ff0000","brushSize":2,"intensity":3,"valence":null}`
	if string(data) != want {
		t.Errorf("Marshal = %s\nwant      %s", data, want)
	}
}

func TestStaticSurface(t *testing.T) {
	s := NewStaticSurface(Dimensions{ImgWidth: 400, ImgHeight: 800, ScaleFactor: 1})

	s.StrokeShown()
	s.StrokeShown()
	if got := s.VisualStrokes(); got != 2 {
		t.Errorf("VisualStrokes() = %d, want 2", got)
	}

	s.UndoLastStroke()
	if got := s.VisualStrokes(); got != 1 {
		t.Errorf("VisualStrokes() after undo = %d, want 1", got)
	}
	if got := s.UndoneStrokes(); got != 1 {
		t.Errorf("UndoneStrokes() = %d, want 1", got)
	}

	// Undo on an empty surface is a no-op.
	s.UndoLastStroke()
	s.UndoLastStroke()
	if got := s.VisualStrokes(); got != 0 {
		t.Errorf("VisualStrokes() = %d, want 0", got)
	}
	if got := s.UndoneStrokes(); got != 2 {
		t.Errorf("UndoneStrokes() = %d, want 2", got)
	}

	s.SetScaleFactor(0.5)
	if got := s.Dimensions().ScaleFactor; got != 0.5 {
		t.Errorf("ScaleFactor = %v, want 0.5", got)
	}
	if got := s.Dimensions().ImgWidth; got != 400 {
		t.Errorf("ImgWidth = %d, want 400", got)
	}
}
