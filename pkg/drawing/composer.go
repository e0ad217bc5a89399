package drawing

import (
	"context"

	"github.com/interomap/interomap/pkg/canvas"
	"github.com/interomap/interomap/pkg/errors"
	"github.com/interomap/interomap/pkg/observability"
)

// DefaultBudget is the hard ceiling on the encoded drawing length, imposed by
// the hosting platform's embedded-data field size.
const DefaultBudget = 20000

// Composer rebuilds the serializable Drawing from the history after every
// mutation and enforces the output budget. It reads the history but never
// mutates it directly; the compensating undo goes through the same UndoLast
// path as a user-initiated undo.
type Composer struct {
	budget int
}

// NewComposer creates a composer with the given encoded-size budget.
// A non-positive budget falls back to DefaultBudget.
func NewComposer(budget int) *Composer {
	if budget <= 0 {
		budget = DefaultBudget
	}
	return &Composer{budget: budget}
}

// Budget returns the configured encoded-size ceiling.
func (c *Composer) Budget() int {
	return c.budget
}

// Result is the outcome of one composition pass.
type Result struct {
	Drawing Drawing
	Encoded string

	// Dropped is set when the most recent stroke had to be discarded to keep
	// the encoding under budget. The caller warns the participant.
	Dropped bool
}

// Compose rebuilds the Drawing from the history, encodes it, and applies the
// size guard. Surface dimensions are queried live from the adapters so the
// output always reflects the current layout.
//
// If the encoding reaches the budget, the most recent stroke is undone through
// log.UndoLast, the originating surface is told to pop its visual stroke, and
// the drawing is rebuilt once more. Compose never emits an encoding at or over
// budget; if even the compensated rebuild is too large it returns an
// OUTPUT_OVER_BUDGET error, which cannot happen when Compose ran under budget
// before the triggering append.
func (c *Composer) Compose(ctx context.Context, sessionID string, log *Log, persona Persona, surfaces map[Side]canvas.Surface) (*Result, error) {
	drawing, encoded, err := c.rebuild(log, persona, surfaces)
	if err != nil {
		return nil, err
	}

	dropped := false
	if len(encoded) >= c.budget {
		observability.Session().OnBudgetExceeded(ctx, sessionID, len(encoded), c.budget)

		item, ok := log.UndoLast()
		if ok {
			if s := surfaces[item.Surface.Side]; s != nil {
				s.UndoLastStroke()
			}
			dropped = true
			drawing, encoded, err = c.rebuild(log, persona, surfaces)
			if err != nil {
				return nil, err
			}
		}
		if len(encoded) >= c.budget {
			return nil, errors.New(errors.ErrCodeOverBudget, "encoded drawing length %d exceeds budget %d", len(encoded), c.budget)
		}
	}

	return &Result{Drawing: drawing, Encoded: encoded, Dropped: dropped}, nil
}

// rebuild initializes a fresh Drawing for both surfaces and folds the history
// into it in completion order. A history item whose surface key has no
// initialized entry is an internal consistency error: surfaces are always
// created together with persona selection, before any stroke is accepted.
func (c *Composer) rebuild(log *Log, persona Persona, surfaces map[Side]canvas.Surface) (Drawing, string, error) {
	dims := make(map[Side]canvas.Dimensions, len(Sides))
	for _, side := range Sides {
		s, ok := surfaces[side]
		if !ok {
			return nil, "", errors.New(errors.ErrCodeSurfaceMissing, "no surface adapter for side %s", side)
		}
		dims[side] = s.Dimensions()
	}

	drawing := NewDrawing(persona, dims)
	for _, item := range log.Items() {
		rec, ok := drawing[item.Surface.Key()]
		if !ok {
			return nil, "", errors.New(errors.ErrCodeSurfaceMissing, "history item for uninitialized surface %s", item.Surface.Key())
		}
		rec.Strokes = append(rec.Strokes, item.Stroke)
	}

	encoded, err := drawing.Encode()
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInternal, err, "encode drawing")
	}
	return drawing, encoded, nil
}
