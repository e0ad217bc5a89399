package canvas

import "sync"

// StaticSurface is a Surface backed by externally reported dimensions. The
// HTTP host and the demo CLI use it to mirror a remote canvas: the embedding
// page reports layout through events and the engine queries the latest values
// during rebuilds.
type StaticSurface struct {
	mu     sync.Mutex
	dims   Dimensions
	visual int // visual strokes currently shown on the remote canvas
	undone int
}

// NewStaticSurface creates a surface with the given initial dimensions.
func NewStaticSurface(dims Dimensions) *StaticSurface {
	return &StaticSurface{dims: dims}
}

// Dimensions returns the most recently reported dimensions.
func (s *StaticSurface) Dimensions() Dimensions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dims
}

// SetScaleFactor records a scale-factor change reported by the adapter.
func (s *StaticSurface) SetScaleFactor(factor float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dims.ScaleFactor = factor
}

// SetDimensions replaces the full reported dimensions.
func (s *StaticSurface) SetDimensions(dims Dimensions) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dims = dims
}

// StrokeShown records that a visual stroke was completed on this surface.
func (s *StaticSurface) StrokeShown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visual++
}

// UndoLastStroke removes the most recent visual stroke, if any.
func (s *StaticSurface) UndoLastStroke() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.visual > 0 {
		s.visual--
		s.undone++
	}
}

// VisualStrokes returns the number of strokes currently shown.
func (s *StaticSurface) VisualStrokes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visual
}

// UndoneStrokes returns how many undo commands this surface has applied.
func (s *StaticSurface) UndoneStrokes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.undone
}

// Ensure StaticSurface implements Surface.
var _ Surface = (*StaticSurface)(nil)
