package session

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/interomap/interomap/pkg/canvas"
	"github.com/interomap/interomap/pkg/drawing"
	"github.com/interomap/interomap/pkg/errors"
	"github.com/interomap/interomap/pkg/notify"
)

func TestManagerCreateWithPersonaHint(t *testing.T) {
	rec := notify.NewRecorder()
	m := NewManager(ManagerConfig{
		Notifier: func(string) notify.Notifier { return rec },
	})

	st, err := m.Create(context.Background(), "child", "QID7", testDims())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !st.PersonaSet || st.Persona != drawing.PersonaChild {
		t.Errorf("persona = (%v, %v), want Child set", st.Persona, st.PersonaSet)
	}
	if st.ID == "" {
		t.Error("Create should assign a session ID")
	}
	if st.ExpiresAt.IsZero() {
		t.Error("Create should set an expiry")
	}
	if rec.Len() == 0 {
		t.Error("persona selection during Create should notify")
	}
}

func TestManagerCreateWithoutHint(t *testing.T) {
	m := NewManager(ManagerConfig{})

	// Unrecognized hint: session starts without a persona and the widget
	// falls back to interactive choice.
	st, err := m.Create(context.Background(), "robot", "QID7", nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if st.PersonaSet {
		t.Error("unrecognized hint should leave persona unset")
	}

	st2, err := m.SelectPersona(context.Background(), st.ID, drawing.PersonaFemale, testDims())
	if err != nil {
		t.Fatalf("SelectPersona: %v", err)
	}
	if st2.Persona != drawing.PersonaFemale {
		t.Errorf("persona = %v, want Female", st2.Persona)
	}

	// One-shot across requests too.
	_, err = m.SelectPersona(context.Background(), st.ID, drawing.PersonaMale, testDims())
	if !errors.Is(err, errors.ErrCodePersonaAlreadySet) {
		t.Errorf("code = %v, want PERSONA_ALREADY_SET", errors.GetCode(err))
	}
}

func TestManagerUnknownSession(t *testing.T) {
	m := NewManager(ManagerConfig{})

	_, err := m.SetRatings(context.Background(), "nope", 6, 6)
	if !errors.Is(err, errors.ErrCodeSessionNotFound) {
		t.Errorf("code = %v, want SESSION_NOT_FOUND", errors.GetCode(err))
	}
}

func TestManagerStrokeLifecycle(t *testing.T) {
	rec := notify.NewRecorder()
	m := NewManager(ManagerConfig{
		Notifier: func(string) notify.Notifier { return rec },
	})
	ctx := context.Background()

	st, err := m.Create(ctx, "Female", "QID7", testDims())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := m.SetRatings(ctx, st.ID, 6, 6); err != nil {
		t.Fatalf("SetRatings: %v", err)
	}

	outcome, err := m.CompleteStroke(ctx, st.ID, drawing.SideFront, []canvas.Point{{X: 1, Y: 2}}, 0)
	if err != nil {
		t.Fatalf("CompleteStroke: %v", err)
	}
	if outcome.Dropped {
		t.Error("stroke dropped under default budget")
	}
	if outcome.BrushColor != "#adbb69" {
		t.Errorf("BrushColor = %s, want #adbb69", outcome.BrushColor)
	}
	if outcome.Strokes != 1 {
		t.Errorf("Strokes = %d, want 1", outcome.Strokes)
	}

	// State persisted across manager calls.
	view, err := m.Get(ctx, st.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(view.State.History) != 1 {
		t.Errorf("history length = %d, want 1", len(view.State.History))
	}
	if len(view.Drawing["FemaleFront"].Strokes) != 1 {
		t.Errorf("drawing missing the stroke: %s", view.Encoded)
	}

	undone, err := m.Undo(ctx, st.ID)
	if err != nil || !undone {
		t.Fatalf("Undo = (%v, %v)", undone, err)
	}

	// Undo on the now-empty history is a no-op.
	undone, err = m.Undo(ctx, st.ID)
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if undone {
		t.Error("empty-history undo reported undone=true")
	}
}

func TestManagerUpdateSurface(t *testing.T) {
	m := NewManager(ManagerConfig{})
	ctx := context.Background()

	st, err := m.Create(ctx, "Male", "QID7", testDims())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	next, err := m.UpdateSurface(ctx, st.ID, drawing.SideBack, canvas.Dimensions{ImgWidth: 600, ImgHeight: 1200, ScaleFactor: 0.75})
	if err != nil {
		t.Fatalf("UpdateSurface: %v", err)
	}
	if got := next.Surfaces[drawing.SideBack]; got.ImgWidth != 600 || got.ScaleFactor != 0.75 {
		t.Errorf("surface dims = %+v", got)
	}

	view, err := m.Get(ctx, st.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if view.Drawing["MaleBack"].ScaleFactor != 0.75 {
		t.Errorf("composed scaleFactor = %v, want 0.75", view.Drawing["MaleBack"].ScaleFactor)
	}
}

func TestManagerPriorPersonaDoesNotLeak(t *testing.T) {
	// Two sessions with different personas share a manager and store; each
	// drawing only ever contains its own persona's surfaces.
	m := NewManager(ManagerConfig{})
	ctx := context.Background()

	a, err := m.Create(ctx, "Child", "QA", testDims())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	b, err := m.Create(ctx, "Male", "QB", testDims())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := m.CompleteStroke(ctx, a.ID, drawing.SideFront, []canvas.Point{{X: 1, Y: 1}}, 0); err != nil {
		t.Fatalf("CompleteStroke: %v", err)
	}

	view, err := m.Get(ctx, b.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if _, ok := view.Drawing["ChildFront"]; ok {
		t.Error("Child surfaces leaked into the Male session")
	}
	if len(view.Drawing["MaleFront"].Strokes) != 0 {
		t.Error("strokes leaked across sessions")
	}
}

func TestManagerDeletePrunesLock(t *testing.T) {
	m := NewManager(ManagerConfig{})
	ctx := context.Background()

	st, err := m.Create(ctx, "child", "QID7", testDims())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := m.SetRatings(ctx, st.ID, 6, 6); err != nil {
		t.Fatalf("SetRatings: %v", err)
	}
	if len(m.locks) != 1 {
		t.Fatalf("locks = %d, want 1 after a mutation", len(m.locks))
	}

	if err := m.Delete(ctx, st.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(m.locks) != 0 {
		t.Errorf("locks = %d, want 0 after Delete", len(m.locks))
	}
}

func TestManagerExpiredSessionPrunesLock(t *testing.T) {
	m := NewManager(ManagerConfig{})
	ctx := context.Background()

	stale := &State{ID: "stale", ExpiresAt: time.Now().Add(-time.Minute)}
	if err := m.Store().Set(ctx, stale); err != nil {
		t.Fatalf("Set: %v", err)
	}

	_, err := m.Get(ctx, "stale")
	if !errors.Is(err, errors.ErrCodeSessionExpired) {
		t.Fatalf("code = %v, want SESSION_EXPIRED", errors.GetCode(err))
	}
	if len(m.locks) != 0 {
		t.Errorf("locks = %d, want 0 after expiry", len(m.locks))
	}
}

func TestManagerLogsRecomposeFailure(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	m := NewManager(ManagerConfig{Store: store})
	st, err := m.Create(ctx, "child", "QID7", testDims())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := m.CompleteStroke(ctx, st.ID, drawing.SideFront, []canvas.Point{{X: 1, Y: 1}}, 0); err != nil {
		t.Fatalf("CompleteStroke: %v", err)
	}

	// A second instance with a tighter budget cannot recompose the snapshot;
	// the failure must surface in the log instead of vanishing.
	var buf bytes.Buffer
	m2 := NewManager(ManagerConfig{Store: store, Budget: 10, Logger: log.New(&buf)})
	if _, err := m2.Get(ctx, st.ID); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("recompose after restore failed")) {
		t.Errorf("missing recompose failure log, got: %s", buf.String())
	}
}
