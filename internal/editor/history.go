package editor

import "rangedeck/internal/domain"

// HistoryLimit caps how many undo steps are kept; the oldest snapshot is
// evicted once the cap is exceeded.
const HistoryLimit = 50

// History is a snapshot-based undo/redo stack pair over the document.
//
// Every document mutation pushes a deep copy of the pre-mutation state onto
// the undo stack and clears the redo stack. Undo moves the current state to
// the redo stack and restores the top of the undo stack; Redo is the exact
// mirror. Keeping two stacks (instead of one slice plus an index) makes
// undo and redo exact inverses by construction.
type History struct {
	undo  []domain.DocumentSnapshot
	redo  []domain.DocumentSnapshot
	limit int
}

// NewHistory creates an empty history with the given cap.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = HistoryLimit
	}
	return &History{limit: limit}
}

// Save records the current document state as an undo point. Must be called
// before the mutation is applied. Taking a new action after an undo discards
// the redo branch.
func (h *History) Save(current domain.DocumentSnapshot) {
	h.undo = append(h.undo, current.Clone())
	if len(h.undo) > h.limit {
		h.undo = h.undo[len(h.undo)-h.limit:]
	}
	h.redo = h.redo[:0]
}

// Undo exchanges the current state for the most recent undo point.
// Returns the restored snapshot, or ok=false when there is nothing to undo.
func (h *History) Undo(current domain.DocumentSnapshot) (domain.DocumentSnapshot, bool) {
	if len(h.undo) == 0 {
		return domain.DocumentSnapshot{}, false
	}
	restored := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, current.Clone())
	return restored, true
}

// Redo exchanges the current state for the most recently undone one.
func (h *History) Redo(current domain.DocumentSnapshot) (domain.DocumentSnapshot, bool) {
	if len(h.redo) == 0 {
		return domain.DocumentSnapshot{}, false
	}
	restored := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, current.Clone())
	return restored, true
}

// CanUndo reports whether an undo point exists.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether a redo point exists.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Len returns the number of stored undo points.
func (h *History) Len() int { return len(h.undo) }

// Reset drops all history. Called when a new document is loaded.
func (h *History) Reset() {
	h.undo = h.undo[:0]
	h.redo = h.redo[:0]
}
