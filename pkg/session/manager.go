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
)

// NotifierFactory binds a notifier to a session ID, e.g. a websocket hub
// topic. A nil factory leaves sessions silent.
type NotifierFactory func(sessionID string) notify.Notifier

// ManagerConfig configures a Manager.
type ManagerConfig struct {
	Store    Store
	Notifier NotifierFactory
	Budget   int
	TTL      time.Duration
	Logger   *log.Logger
}

// Manager orchestrates sessions for the HTTP host: it loads snapshots from
// the store, rehydrates the engine, applies exactly one mutation under a
// per-session lock, and writes the new snapshot back. The lock preserves the
// single-writer discipline the engine requires even when host requests race.
type Manager struct {
	store    Store
	notifier NotifierFactory
	budget   int
	ttl      time.Duration
	logger   *log.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewManager creates a manager. Zero config fields fall back to defaults
// (memory store, no notifier, default budget and TTL).
func NewManager(cfg ManagerConfig) *Manager {
	if cfg.Store == nil {
		cfg.Store = NewMemoryStore()
	}
	if cfg.Budget <= 0 {
		cfg.Budget = drawing.DefaultBudget
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Manager{
		store:    cfg.Store,
		notifier: cfg.Notifier,
		budget:   cfg.Budget,
		ttl:      cfg.TTL,
		logger:   cfg.Logger,
		locks:    make(map[string]*sync.Mutex),
	}
}

// Store returns the underlying session store.
func (m *Manager) Store() Store {
	return m.store
}

// StrokeOutcome reports the result of a stroke-completed event to the host.
type StrokeOutcome struct {
	// Dropped is set when the size guard discarded the stroke; the host
	// warns the participant it could not be retained.
	Dropped bool `json:"dropped"`

	// BrushColor is the color the stroke was captured with.
	BrushColor string `json:"brushColor"`

	// Strokes is the history length after the event.
	Strokes int `json:"strokes"`
}

// Create starts a new session with the given launch parameters. If the
// persona hint resolves, the persona is selected immediately with the
// reported surface dimensions; otherwise the session starts without a persona
// and the widget falls back to interactive choice.
func (m *Manager) Create(ctx context.Context, personaHint, variable string, dims map[drawing.Side]canvas.Dimensions) (*State, error) {
	id := uuid.NewString()
	sess := m.rehydrate(&State{ID: id, Variable: variable})

	if persona, ok := drawing.ParsePersona(personaHint); ok {
		if err := sess.SelectPersona(ctx, persona, staticSurfaces(dims)); err != nil {
			return nil, err
		}
	}

	st := sess.Snapshot()
	st.ExpiresAt = time.Now().Add(m.ttl)
	if err := m.store.Set(ctx, st); err != nil {
		return nil, err
	}
	m.logger.Info("session created", "session", id, "persona", st.Persona)
	return st, nil
}

// SelectPersona applies the one-shot persona choice to an existing session.
func (m *Manager) SelectPersona(ctx context.Context, id string, persona drawing.Persona, dims map[drawing.Side]canvas.Dimensions) (*State, error) {
	return m.withSession(ctx, id, func(sess *Session) error {
		return sess.SelectPersona(ctx, persona, staticSurfaces(dims))
	})
}

// SetRatings sets both affect ratings.
func (m *Manager) SetRatings(ctx context.Context, id string, intensity, valence int) (*State, error) {
	return m.withSession(ctx, id, func(sess *Session) error {
		return sess.SetRatings(ctx, intensity, valence)
	})
}

// CompleteStroke handles a stroke-completed event.
func (m *Manager) CompleteStroke(ctx context.Context, id string, side drawing.Side, points []canvas.Point, brushSize float64) (*StrokeOutcome, error) {
	var outcome StrokeOutcome
	_, err := m.withSession(ctx, id, func(sess *Session) error {
		res, err := sess.CompleteStroke(ctx, side, points, brushSize)
		if err != nil {
			return err
		}
		outcome = StrokeOutcome{
			Dropped:    res.Dropped,
			BrushColor: sess.BrushColor(),
			Strokes:    sess.HistoryLen(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &outcome, nil
}

// Undo removes the most recent stroke. Undoing an empty history is a no-op.
func (m *Manager) Undo(ctx context.Context, id string) (undone bool, err error) {
	_, err = m.withSession(ctx, id, func(sess *Session) error {
		_, ok, err := sess.Undo(ctx)
		undone = ok
		return err
	})
	return undone, err
}

// UpdateSurface applies a layout report for one side.
func (m *Manager) UpdateSurface(ctx context.Context, id string, side drawing.Side, dims canvas.Dimensions) (*State, error) {
	return m.withSession(ctx, id, func(sess *Session) error {
		return sess.UpdateDimensions(ctx, side, dims)
	})
}

// View is a read snapshot of a session for the host.
type View struct {
	State   *State
	Encoded string
	Drawing drawing.Drawing
}

// Get returns the session state with its current composed output.
func (m *Manager) Get(ctx context.Context, id string) (*View, error) {
	var view View
	st, err := m.withSession(ctx, id, func(sess *Session) error {
		view.Encoded = sess.Encoded()
		view.Drawing = sess.Drawing()
		return nil
	})
	if err != nil {
		return nil, err
	}
	view.State = st
	return &view, nil
}

// Delete removes a session and its lock entry.
func (m *Manager) Delete(ctx context.Context, id string) error {
	lock := m.sessionLock(id)
	lock.Lock()
	defer lock.Unlock()

	if err := m.store.Delete(ctx, id); err != nil {
		return err
	}
	m.forgetLock(id)
	return nil
}

// withSession runs fn against the rehydrated session under the per-session
// lock and persists the resulting snapshot.
func (m *Manager) withSession(ctx context.Context, id string, fn func(*Session) error) (*State, error) {
	lock := m.sessionLock(id)
	lock.Lock()
	defer lock.Unlock()

	st, err := m.store.Get(ctx, id)
	if err == ErrExpired {
		m.forgetLock(id)
		return nil, errors.New(errors.ErrCodeSessionExpired, "session expired: %s", id)
	}
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session not found: %s", id)
	}

	sess := m.rehydrate(st)
	if err := fn(sess); err != nil {
		return nil, err
	}

	next := sess.Snapshot()
	next.ExpiresAt = time.Now().Add(m.ttl)
	if err := m.store.Set(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// rehydrate builds a live engine for the snapshot, binding the notifier and
// composing the current output so reads observe fresh state.
func (m *Manager) rehydrate(st *State) *Session {
	var notifier notify.Notifier
	if m.notifier != nil {
		notifier = m.notifier(st.ID)
	}
	cfg := Config{
		Palette:  affect.DefaultPalette(),
		Composer: drawing.NewComposer(m.budget),
		Notifier: notifier,
		Logger:   m.logger,
	}
	sess := Restore(st, cfg)
	if st.PersonaSet {
		// Recompose without notifying: reads must not re-emit stale events.
		res, err := sess.composer.Compose(context.Background(), sess.id, sess.history, sess.persona, sess.surfaces)
		if err != nil {
			m.logger.Error("recompose after restore failed", "session", st.ID, "err", err)
		} else {
			sess.lastEncoded = res.Encoded
			sess.lastDrawing = res.Drawing
		}
	}
	return sess
}

func (m *Manager) sessionLock(id string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[id] = lock
	}
	return lock
}

// forgetLock drops the lock entry for a session that no longer exists, so the
// lock map does not grow with every session ever seen.
func (m *Manager) forgetLock(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, id)
}

// staticSurfaces builds the surface adapter pair from reported dimensions.
func staticSurfaces(dims map[drawing.Side]canvas.Dimensions) map[drawing.Side]canvas.Surface {
	surfaces := make(map[drawing.Side]canvas.Surface, len(drawing.Sides))
	for _, side := range drawing.Sides {
		surfaces[side] = canvas.NewStaticSurface(dims[side])
	}
	return surfaces
}
