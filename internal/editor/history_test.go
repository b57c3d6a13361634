package editor

import (
	"testing"

	"rangedeck/internal/domain"
)

func docWithWall(id string, points ...float64) domain.DocumentSnapshot {
	return domain.DocumentSnapshot{
		Walls: []domain.Wall{{ID: id, Points: points, Thickness: 6}},
	}
}

func TestHistoryUndoRestoresSavedState(t *testing.T) {
	h := NewHistory(0)

	before := docWithWall("w1", 0, 0, 100, 0)
	h.Save(before)
	after := docWithWall("w2", 0, 0, 0, 100)

	restored, ok := h.Undo(after)
	if !ok {
		t.Fatal("expected undo to succeed")
	}
	if len(restored.Walls) != 1 || restored.Walls[0].ID != "w1" {
		t.Errorf("restored = %+v, want the saved state", restored.Walls)
	}
}

func TestHistoryRedoIsExactInverse(t *testing.T) {
	h := NewHistory(0)

	before := docWithWall("w1", 0, 0, 100, 0)
	h.Save(before)
	after := docWithWall("w2", 0, 0, 0, 100)

	mid, _ := h.Undo(after)
	redone, ok := h.Redo(mid)
	if !ok {
		t.Fatal("expected redo to succeed")
	}
	if len(redone.Walls) != 1 || redone.Walls[0].ID != "w2" {
		t.Errorf("redo = %+v, want the undone state back", redone.Walls)
	}
	if !h.CanUndo() || h.CanRedo() {
		t.Errorf("after redo: CanUndo=%v CanRedo=%v, want true/false", h.CanUndo(), h.CanRedo())
	}
}

func TestHistorySaveClearsRedo(t *testing.T) {
	h := NewHistory(0)

	h.Save(docWithWall("w1", 0, 0, 100, 0))
	restored, _ := h.Undo(docWithWall("w2", 0, 0, 0, 100))
	if !h.CanRedo() {
		t.Fatal("expected a redo point after undo")
	}

	h.Save(restored)
	if h.CanRedo() {
		t.Error("new action after undo must discard the redo branch")
	}
}

func TestHistoryCapEvictsOldest(t *testing.T) {
	h := NewHistory(0)

	for i := 0; i < 60; i++ {
		h.Save(docWithWall("w", float64(i), 0, 100, 0))
	}
	if h.Len() != HistoryLimit {
		t.Fatalf("Len = %d, want %d", h.Len(), HistoryLimit)
	}

	// The 50 surviving snapshots are the 50 most recent (iterations 10..59).
	undos := 0
	cur := docWithWall("w", 60, 0, 100, 0)
	for {
		restored, ok := h.Undo(cur)
		if !ok {
			break
		}
		cur = restored
		undos++
	}
	if undos != HistoryLimit {
		t.Errorf("undo count = %d, want %d", undos, HistoryLimit)
	}
	if cur.Walls[0].Points[0] != 10 {
		t.Errorf("oldest surviving snapshot starts at %v, want 10", cur.Walls[0].Points[0])
	}
}

func TestHistorySavedSnapshotIsIndependent(t *testing.T) {
	h := NewHistory(0)

	doc := docWithWall("w1", 0, 0, 100, 0)
	h.Save(doc)
	doc.Walls[0].Points[0] = 999

	restored, _ := h.Undo(docWithWall("w2", 0, 0, 0, 100))
	if restored.Walls[0].Points[0] != 0 {
		t.Errorf("saved snapshot shared backing array with the live document")
	}
}

func TestHistoryEmptyUndoRedo(t *testing.T) {
	h := NewHistory(0)
	if _, ok := h.Undo(domain.DocumentSnapshot{}); ok {
		t.Error("undo on empty history must fail")
	}
	if _, ok := h.Redo(domain.DocumentSnapshot{}); ok {
		t.Error("redo on empty history must fail")
	}
}

func TestHistoryReset(t *testing.T) {
	h := NewHistory(0)
	h.Save(docWithWall("w1", 0, 0, 100, 0))
	h.Undo(docWithWall("w2", 0, 0, 0, 100))

	h.Reset()
	if h.CanUndo() || h.CanRedo() || h.Len() != 0 {
		t.Error("reset must drop both stacks")
	}
}
