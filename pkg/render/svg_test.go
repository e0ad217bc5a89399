package render

import (
	"strings"
	"testing"

	"github.com/interomap/interomap/pkg/affect"
	"github.com/interomap/interomap/pkg/canvas"
	"github.com/interomap/interomap/pkg/drawing"
)

func testDrawing() drawing.Drawing {
	return drawing.Drawing{
		"ChildFront": {
			ImgWidth:    200,
			ImgHeight:   400,
			ScaleFactor: 1,
			Strokes: []canvas.Stroke{
				{
					Points:     []canvas.Point{{X: 10, Y: 20}, {X: 30, Y: 40}},
					BrushColor: "#adbb69",
					BrushSize:  4,
					Intensity:  affect.Rated(6),
					Valence:    affect.Rated(6),
				},
			},
		},
		"ChildBack": {
			ImgWidth:    200,
			ImgHeight:   400,
			ScaleFactor: 1,
			Strokes:     []canvas.Stroke{},
		},
	}
}

func TestRenderSVG(t *testing.T) {
	out := string(RenderSVG(testDrawing()))

	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg"`) {
		t.Fatalf("missing svg root: %q", out[:60])
	}
	if !strings.Contains(out, `viewBox="0 0 420.0 400.0"`) {
		t.Errorf("unexpected viewBox in %q", out)
	}
	if !strings.Contains(out, `<polyline points="10.0,20.0 30.0,40.0" fill="none" stroke="#adbb69" stroke-width="4.0"`) {
		t.Errorf("stroke polyline missing in %s", out)
	}
	// Keys render in sorted order, so ChildBack comes first.
	if strings.Index(out, "surface-ChildBack") > strings.Index(out, "surface-ChildFront") {
		t.Error("surfaces not in sorted key order")
	}
}

func TestRenderSVGDeterministic(t *testing.T) {
	d := testDrawing()
	a := RenderSVG(d)
	b := RenderSVG(d)
	if string(a) != string(b) {
		t.Error("output differs across runs")
	}
}

func TestRenderSVGOptions(t *testing.T) {
	out := string(RenderSVG(testDrawing(), WithBackground("#ffffff"), WithLabels()))

	if !strings.Contains(out, `fill="#ffffff"`) {
		t.Error("background rect missing")
	}
	if !strings.Contains(out, ">ChildFront</text>") {
		t.Error("label missing")
	}
}

func TestRenderSVGEmpty(t *testing.T) {
	out := string(RenderSVG(drawing.Drawing{}))
	if !strings.Contains(out, "<svg") || !strings.Contains(out, "</svg>") {
		t.Fatalf("malformed empty render: %s", out)
	}
}
