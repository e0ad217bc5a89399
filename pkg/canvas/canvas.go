// Package canvas defines the boundary to the drawing surfaces the participant
// paints on. The engine never renders anything itself: each persona side is
// backed by a Surface adapter that reports its native image dimensions and
// display scale factor, and accepts undo commands for its own visual strokes.
package canvas

// Point is a single stroke coordinate in the surface's native pixel units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dimensions describes a surface's native image resolution and the ratio
// between that resolution and its rendered display size. The scale factor is
// reported by the adapter once its layout stabilizes and may change later.
type Dimensions struct {
	ImgWidth    int     `json:"imgWidth"`
	ImgHeight   int     `json:"imgHeight"`
	ScaleFactor float64 `json:"scaleFactor"`
}

// Surface is one drawable persona side. Dimensions is queried live during
// every output rebuild; UndoLastStroke removes the most recent visual stroke
// from this surface only. Stroke-completed and scale-factor events flow into
// the session as discrete external events, not through this interface.
type Surface interface {
	Dimensions() Dimensions
	UndoLastStroke()
}

// PreviewBrushSize converts the abstract brush size selected by the
// participant into display units for the brush preview. Stroke content itself
// stays in native units so replays are resolution independent.
func PreviewBrushSize(size float64, d Dimensions) float64 {
	return size * d.ScaleFactor
}
