// Package session implements the drawing session engine: one participant, one
// persona chosen exactly once, two drawing surfaces, an append-only stroke
// history, and a budget-guarded serialized output notified to the host after
// every mutation.
//
// All mutations are handled as discrete reactions to discrete external events.
// A session serializes them behind a single mutex so a rebuild always observes
// the history state as of the triggering event; there is no background work
// and nothing long-running to cancel.
//
// # Stores
//
// Session state snapshots to a serializable State and restores from it, so a
// Store backend (memory for single-instance, redis for multi-instance
// hosting) can hold live sessions between host requests. The Manager wires
// stores, notifiers, and the per-session single-writer discipline together
// for the HTTP API.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/interomap/interomap/pkg/affect"
	"github.com/interomap/interomap/pkg/canvas"
	"github.com/interomap/interomap/pkg/drawing"
	"github.com/interomap/interomap/pkg/errors"
	"github.com/interomap/interomap/pkg/notify"
	"github.com/interomap/interomap/pkg/observability"
)

// DefaultBrushSize is the abstract brush size before the participant picks one.
const DefaultBrushSize = 4.0

// Config configures a new session. Zero fields fall back to defaults.
type Config struct {
	ID       string
	Variable string // routing token from the launch parameters
	Palette  *affect.Palette
	Composer *drawing.Composer
	Notifier notify.Notifier
	Logger   *log.Logger
}

// Session is one participant's drawing session.
type Session struct {
	mu sync.Mutex

	id       string
	variable string
	palette  *affect.Palette
	composer *drawing.Composer
	notifier notify.Notifier
	logger   *log.Logger

	persona    drawing.Persona
	personaSet bool
	surfaces   map[drawing.Side]canvas.Surface

	history   *drawing.Log
	intensity affect.Rating
	valence   affect.Rating
	brushSize float64

	lastEncoded string
	lastDrawing drawing.Drawing
	createdAt   time.Time
}

// New creates a session with the given configuration.
func New(cfg Config) *Session {
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	if cfg.Palette == nil {
		cfg.Palette = affect.DefaultPalette()
	}
	if cfg.Composer == nil {
		cfg.Composer = drawing.NewComposer(drawing.DefaultBudget)
	}
	if cfg.Notifier == nil {
		cfg.Notifier = notify.NullNotifier{}
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Session{
		id:        cfg.ID,
		variable:  cfg.Variable,
		palette:   cfg.Palette,
		composer:  cfg.Composer,
		notifier:  cfg.Notifier,
		logger:    cfg.Logger,
		surfaces:  make(map[drawing.Side]canvas.Surface),
		history:   drawing.NewLog(),
		brushSize: DefaultBrushSize,
		createdAt: time.Now(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Variable returns the routing token for outbound notifications.
func (s *Session) Variable() string { return s.variable }

// Persona returns the selected persona, if one has been chosen.
func (s *Session) Persona() (drawing.Persona, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persona, s.personaSet
}

// SelectPersona chooses the body persona and creates both surfaces together.
// The choice is one-shot: a second call fails with PERSONA_ALREADY_SET. On
// success a well-formed (empty) drawing is composed and notified immediately,
// so the host holds a valid payload before any stroke is drawn.
func (s *Session) SelectPersona(ctx context.Context, persona drawing.Persona, surfaces map[drawing.Side]canvas.Surface) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.personaSet {
		return errors.New(errors.ErrCodePersonaAlreadySet, "persona already selected: %s", s.persona)
	}
	// Canonicalize: the surface keys are built from the stored persona, so a
	// lowercase hint must not leak into them.
	canonical, ok := drawing.ParsePersona(string(persona))
	if !ok {
		return errors.New(errors.ErrCodeInvalidPersona, "unknown persona: %s", persona)
	}
	persona = canonical
	for _, side := range drawing.Sides {
		if surfaces[side] == nil {
			return errors.New(errors.ErrCodeSurfaceMissing, "no surface adapter for side %s", side)
		}
	}

	s.persona = persona
	s.personaSet = true
	s.surfaces = map[drawing.Side]canvas.Surface{
		drawing.SideFront: surfaces[drawing.SideFront],
		drawing.SideBack:  surfaces[drawing.SideBack],
	}

	observability.Session().OnPersonaSelected(ctx, s.id, string(persona))
	s.logger.Debug("persona selected", "session", s.id, "persona", persona)

	_, err := s.composeAndNotify(ctx)
	return err
}

// SetRatings sets both affect ratings. Each value must lie on its scale.
func (s *Session) SetRatings(ctx context.Context, intensity, valence int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.palette.IntensityScale().Validate("intensity", intensity); err != nil {
		return err
	}
	if err := s.palette.ValenceScale().Validate("valence", valence); err != nil {
		return err
	}

	s.intensity = affect.Rated(intensity)
	s.valence = affect.Rated(valence)
	return nil
}

// Ratings returns the current intensity and valence ratings.
func (s *Session) Ratings() (intensity, valence affect.Rating) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.intensity, s.valence
}

// BrushColor derives the current brush color from the ratings. While either
// rating is unset the neutral fallback is returned; the color is always
// recomputed on read, never cached.
func (s *Session) BrushColor() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.brushColorLocked()
}

func (s *Session) brushColorLocked() string {
	if hex, ok := s.palette.ColorFor(s.intensity, s.valence); ok {
		return hex
	}
	return affect.NeutralColor
}

// SetBrushSize sets the abstract brush size.
func (s *Session) SetBrushSize(size float64) error {
	if size <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "brush size must be positive, got %v", size)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.brushSize = size
	return nil
}

// BrushSize returns the abstract brush size.
func (s *Session) BrushSize() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.brushSize
}

// PreviewBrushSize returns the brush size in the side's display units, scaled
// by the surface's currently active scale factor.
func (s *Session) PreviewBrushSize(side drawing.Side) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	surface, ok := s.surfaces[side]
	if !ok {
		return 0, errors.New(errors.ErrCodeSurfaceMissing, "no surface adapter for side %s", side)
	}
	return canvas.PreviewBrushSize(s.brushSize, surface.Dimensions()), nil
}

// CompleteStroke handles a stroke-completed event from the given side. The
// stroke captures the current brush color, brush size (native units), and
// both ratings. The history is appended and the output recomposed and
// notified. brushSize <= 0 uses the session's current size.
//
// The returned result reports whether the size guard had to discard the
// stroke; in that case the participant is warned that it could not be kept.
func (s *Session) CompleteStroke(ctx context.Context, side drawing.Side, points []canvas.Point, brushSize float64) (*drawing.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.personaSet {
		return nil, errors.New(errors.ErrCodePersonaNotSet, "select a persona before drawing")
	}
	if _, ok := s.surfaces[side]; !ok {
		return nil, errors.New(errors.ErrCodeInvalidSide, "unknown side: %s", side)
	}
	if len(points) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "stroke has no points")
	}
	if brushSize <= 0 {
		brushSize = s.brushSize
	}

	stroke := canvas.Stroke{
		Points:     append([]canvas.Point(nil), points...),
		BrushColor: s.brushColorLocked(),
		BrushSize:  brushSize,
		Intensity:  s.intensity,
		Valence:    s.valence,
	}
	surfaceID := s.persona.Surface(side)
	s.history.Append(drawing.HistoryItem{Surface: surfaceID, Stroke: stroke})
	if mark, ok := s.surfaces[side].(*canvas.StaticSurface); ok {
		mark.StrokeShown()
	}

	observability.Session().OnStrokeAppended(ctx, s.id, surfaceID.Key(), len(points))

	res, err := s.composeAndNotify(ctx)
	if err != nil {
		return nil, err
	}
	if res.Dropped {
		s.logger.Warn("most recent stroke could not be retained", "session", s.id, "budget", s.composer.Budget())
	}
	return res, nil
}

// Undo removes the most recent stroke from the history and instructs the
// originating surface to pop its visual stroke. On an empty history it is a
// no-op and reports undone=false. After a successful undo the output is
// recomposed and notified.
func (s *Session) Undo(ctx context.Context) (res *drawing.Result, undone bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.history.UndoLast()
	if !ok {
		return nil, false, nil
	}
	if surface := s.surfaces[item.Surface.Side]; surface != nil {
		surface.UndoLastStroke()
	}

	observability.Session().OnUndo(ctx, s.id, item.Surface.Key())

	res, err = s.composeAndNotify(ctx)
	if err != nil {
		return nil, false, err
	}
	return res, true, nil
}

// ScaleFactorChanged handles a scale-factor event from the side's adapter and
// recomposes the output so the reported scale stays fresh.
func (s *Session) ScaleFactorChanged(ctx context.Context, side drawing.Side, factor float64) error {
	return s.updateSurface(ctx, side, func(surface *canvas.StaticSurface) {
		surface.SetScaleFactor(factor)
	})
}

// UpdateDimensions handles a full layout report from the side's adapter.
func (s *Session) UpdateDimensions(ctx context.Context, side drawing.Side, dims canvas.Dimensions) error {
	return s.updateSurface(ctx, side, func(surface *canvas.StaticSurface) {
		surface.SetDimensions(dims)
	})
}

func (s *Session) updateSurface(ctx context.Context, side drawing.Side, apply func(*canvas.StaticSurface)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	surface, ok := s.surfaces[side]
	if !ok {
		return errors.New(errors.ErrCodeSurfaceMissing, "no surface adapter for side %s", side)
	}
	static, ok := surface.(*canvas.StaticSurface)
	if !ok {
		// Self-reporting adapters already hold their own layout.
		return nil
	}
	apply(static)

	if !s.personaSet {
		return nil
	}
	_, err := s.composeAndNotify(ctx)
	return err
}

// Encoded returns the most recently composed wire encoding.
func (s *Session) Encoded() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastEncoded
}

// Drawing returns the most recently composed drawing.
func (s *Session) Drawing() drawing.Drawing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastDrawing
}

// HistoryLen returns the number of strokes in the history.
func (s *Session) HistoryLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Len()
}

// composeAndNotify rebuilds the output and hands it to the notifier.
// Callers hold s.mu, so the rebuild observes the history exactly as of the
// triggering event.
func (s *Session) composeAndNotify(ctx context.Context) (*drawing.Result, error) {
	res, err := s.composer.Compose(ctx, s.id, s.history, s.persona, s.surfaces)
	if err != nil {
		return nil, err
	}

	s.lastEncoded = res.Encoded
	s.lastDrawing = res.Drawing
	s.notifier.Send(ctx, notify.NewMessage(s.variable, res.Encoded))
	observability.Session().OnNotify(ctx, s.id, len(res.Encoded))
	return res, nil
}
