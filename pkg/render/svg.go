// Package render exports drawings as SVG for review and QA tooling. The
// participant-facing canvases live in the embedding page; this renderer only
// replays the serialized stroke record, which is resolution independent
// because strokes store native-unit coordinates and brush sizes.
package render

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/interomap/interomap/pkg/drawing"
)

// surfaceGap is the horizontal spacing between surface panels.
const surfaceGap = 20.0

// SVGOption configures the renderer.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	background string
	labels     bool
}

// WithBackground sets the panel background color (default none).
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// WithLabels adds the surface key under each panel.
func WithLabels() SVGOption {
	return func(r *svgRenderer) { r.labels = true }
}

// RenderSVG replays a drawing's strokes as polylines, one panel per surface,
// ordered by surface key for deterministic output.
func RenderSVG(d drawing.Drawing, opts ...SVGOption) []byte {
	r := &svgRenderer{}
	for _, opt := range opts {
		opt(r)
	}

	keys := make([]string, 0, len(d))
	for key := range d {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var totalWidth, totalHeight float64
	for _, key := range keys {
		rec := d[key]
		totalWidth += float64(rec.ImgWidth)
		if h := float64(rec.ImgHeight); h > totalHeight {
			totalHeight = h
		}
	}
	if n := len(keys); n > 1 {
		totalWidth += surfaceGap * float64(n-1)
	}
	labelSpace := 0.0
	if r.labels {
		labelSpace = 24
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		totalWidth, totalHeight+labelSpace, totalWidth, totalHeight+labelSpace)

	offsetX := 0.0
	for _, key := range keys {
		rec := d[key]
		renderSurface(&buf, r, key, rec, offsetX)
		offsetX += float64(rec.ImgWidth) + surfaceGap
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderSurface(buf *bytes.Buffer, r *svgRenderer, key string, rec *drawing.SurfaceRecord, offsetX float64) {
	fmt.Fprintf(buf, `<g id="surface-%s" transform="translate(%.1f,0)">`+"\n", key, offsetX)

	if r.background != "" {
		fmt.Fprintf(buf, `<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`+"\n",
			rec.ImgWidth, rec.ImgHeight, r.background)
	}
	fmt.Fprintf(buf, `<rect x="0" y="0" width="%d" height="%d" fill="none" stroke="#333" stroke-width="1"/>`+"\n",
		rec.ImgWidth, rec.ImgHeight)

	for _, stroke := range rec.Strokes {
		var points bytes.Buffer
		for i, p := range stroke.Points {
			if i > 0 {
				points.WriteByte(' ')
			}
			fmt.Fprintf(&points, "%.1f,%.1f", p.X, p.Y)
		}
		fmt.Fprintf(buf, `<polyline points="%s" fill="none" stroke="%s" stroke-width="%.1f" stroke-linecap="round" stroke-linejoin="round"/>`+"\n",
			points.String(), stroke.BrushColor, stroke.BrushSize)
	}

	if r.labels {
		fmt.Fprintf(buf, `<text x="%.1f" y="%d" text-anchor="middle" font-family="sans-serif" font-size="14">%s</text>`+"\n",
			float64(rec.ImgWidth)/2, rec.ImgHeight+18, key)
	}

	buf.WriteString("</g>\n")
}
