package drawing

import "github.com/interomap/interomap/pkg/canvas"

// HistoryItem tags a completed stroke with the surface it was drawn on.
type HistoryItem struct {
	Surface SurfaceID     `json:"surface"`
	Stroke  canvas.Stroke `json:"stroke"`
}

// Log is the ordered, append-only record of completed strokes. Order is the
// order of completion and is semantically meaningful: it determines undo order
// and the final stroke order per surface. The log never reorders or
// deduplicates; two strokes with identical content are distinct entries.
//
// The log exclusively owns the stroke sequence. It holds no rendering state:
// after an undo the caller instructs the originating surface to pop its own
// visual stroke.
type Log struct {
	items []HistoryItem
}

// NewLog creates an empty history log.
func NewLog() *Log {
	return &Log{}
}

// Append adds an item to the end of the history.
func (l *Log) Append(item HistoryItem) {
	l.items = append(l.items, item)
}

// UndoLast removes and returns the most recently appended item.
// On an empty log it reports ok=false; undoing nothing is not an error.
func (l *Log) UndoLast() (HistoryItem, bool) {
	if len(l.items) == 0 {
		return HistoryItem{}, false
	}
	last := l.items[len(l.items)-1]
	l.items = l.items[:len(l.items)-1]
	return last, true
}

// Len returns the number of recorded strokes.
func (l *Log) Len() int {
	return len(l.items)
}

// Items returns the history in completion order. The returned slice is the
// log's backing storage; callers read it to rebuild derived output and must
// not mutate it.
func (l *Log) Items() []HistoryItem {
	return l.items
}

// Restore replaces the log contents, used when rehydrating a stored session.
func (l *Log) Restore(items []HistoryItem) {
	l.items = append([]HistoryItem(nil), items...)
}
