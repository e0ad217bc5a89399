package session

import (
	"time"

	"github.com/interomap/interomap/pkg/affect"
	"github.com/interomap/interomap/pkg/canvas"
	"github.com/interomap/interomap/pkg/drawing"
)

// State is the serializable snapshot of a session, used by Store backends to
// carry live sessions between host requests and instances. It holds no
// derived data: the drawing output is recomposed from the history after
// restore.
type State struct {
	ID         string                             `json:"id"`
	Variable   string                             `json:"variable"`
	Persona    drawing.Persona                    `json:"persona,omitempty"`
	PersonaSet bool                               `json:"persona_set"`
	Intensity  affect.Rating                      `json:"intensity"`
	Valence    affect.Rating                      `json:"valence"`
	BrushSize  float64                            `json:"brush_size"`
	Surfaces   map[drawing.Side]canvas.Dimensions `json:"surfaces,omitempty"`
	History    []drawing.HistoryItem              `json:"history"`
	CreatedAt  time.Time                          `json:"created_at"`
	ExpiresAt  time.Time                          `json:"expires_at"`
}

// IsExpired reports whether the session has exceeded its TTL.
func (st *State) IsExpired() bool {
	return !st.ExpiresAt.IsZero() && time.Now().After(st.ExpiresAt)
}

// Snapshot captures the session's current state. The history is copied, so
// later mutations do not reach the snapshot.
func (s *Session) Snapshot() *State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := &State{
		ID:         s.id,
		Variable:   s.variable,
		Persona:    s.persona,
		PersonaSet: s.personaSet,
		Intensity:  s.intensity,
		Valence:    s.valence,
		BrushSize:  s.brushSize,
		History:    append([]drawing.HistoryItem(nil), s.history.Items()...),
		CreatedAt:  s.createdAt,
	}
	if s.personaSet {
		st.Surfaces = make(map[drawing.Side]canvas.Dimensions, len(s.surfaces))
		for side, surface := range s.surfaces {
			st.Surfaces[side] = surface.Dimensions()
		}
	}
	return st
}

// Restore rebuilds a live session from a snapshot. Surfaces are mirrored as
// static adapters seeded with the snapshot dimensions and per-side visual
// stroke counts, so undo fan-out keeps working after a restore.
func Restore(st *State, cfg Config) *Session {
	cfg.ID = st.ID
	cfg.Variable = st.Variable
	s := New(cfg)

	s.persona = st.Persona
	s.personaSet = st.PersonaSet
	s.intensity = st.Intensity
	s.valence = st.Valence
	if st.BrushSize > 0 {
		s.brushSize = st.BrushSize
	}
	if !st.CreatedAt.IsZero() {
		s.createdAt = st.CreatedAt
	}
	s.history.Restore(st.History)

	if st.PersonaSet {
		shown := make(map[drawing.Side]int, len(drawing.Sides))
		for _, item := range st.History {
			shown[item.Surface.Side]++
		}
		for _, side := range drawing.Sides {
			surface := canvas.NewStaticSurface(st.Surfaces[side])
			for i := 0; i < shown[side]; i++ {
				surface.StrokeShown()
			}
			s.surfaces[side] = surface
		}
	}
	return s
}
