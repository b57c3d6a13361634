package editor

import (
	"math"
	"reflect"
	"testing"

	"rangedeck/internal/domain"
	"rangedeck/internal/geometry"
)

func TestWallToolChainsSegments(t *testing.T) {
	s := NewSession()
	s.SetTool(ToolWall)

	// Three clicks, slightly off-grid; grid 20 snaps them to
	// (100,100), (300,100), (300,300).
	s.PointerDown(geometry.Point{X: 103, Y: 96}, nil, false)
	if !s.DrawingWall() {
		t.Fatal("first click must start a draft")
	}
	if len(s.Snapshot().Walls) != 0 {
		t.Fatal("first click must not commit a wall")
	}

	s.PointerDown(geometry.Point{X: 298, Y: 104}, nil, false)
	s.PointerDown(geometry.Point{X: 301, Y: 299}, nil, false)

	doc := s.Snapshot()
	if len(doc.Walls) != 2 {
		t.Fatalf("expected 2 chained walls, got %d", len(doc.Walls))
	}
	if !reflect.DeepEqual(doc.Walls[0].Points, []float64{100, 100, 300, 100}) {
		t.Errorf("first wall = %v", doc.Walls[0].Points)
	}
	if !reflect.DeepEqual(doc.Walls[1].Points, []float64{300, 100, 300, 300}) {
		t.Errorf("second wall = %v", doc.Walls[1].Points)
	}
	for _, w := range doc.Walls {
		if w.Closed {
			t.Errorf("chained wall %s marked closed", w.ID)
		}
	}
	if !s.DrawingWall() {
		t.Error("chain must stay active until cancelled")
	}
}

func TestWallToolIgnoresZeroLengthClick(t *testing.T) {
	s := NewSession()
	s.SetTool(ToolWall)

	s.PointerDown(geometry.Point{X: 100, Y: 100}, nil, false)
	s.PointerDown(geometry.Point{X: 104, Y: 97}, nil, false) // snaps onto the anchor
	if n := len(s.Snapshot().Walls); n != 0 {
		t.Errorf("zero-length click committed %d walls", n)
	}
}

func TestDoubleClickEndsChainKeepsWalls(t *testing.T) {
	s := NewSession()
	s.SetTool(ToolWall)

	s.PointerDown(geometry.Point{X: 100, Y: 100}, nil, false)
	s.PointerDown(geometry.Point{X: 300, Y: 100}, nil, false)
	s.DoubleClick(geometry.Point{X: 300, Y: 100})

	if s.DrawingWall() {
		t.Error("double click must end the draft")
	}
	if len(s.Snapshot().Walls) != 1 {
		t.Error("committed segments must survive draft cancellation")
	}
}

func TestEscapeCancelsDraft(t *testing.T) {
	s := NewSession()
	s.SetTool(ToolWall)
	s.PointerDown(geometry.Point{X: 100, Y: 100}, nil, false)

	s.KeyDown("Escape")
	if s.DrawingWall() {
		t.Error("escape must cancel the draft")
	}
}

func TestToolSwitchCancelsDraftAndSelection(t *testing.T) {
	s := NewSession()
	s.SetTool(ToolWall)
	s.PointerDown(geometry.Point{X: 100, Y: 100}, nil, false)

	s.SetTool(ToolSelect)
	if s.DrawingWall() {
		t.Error("tool switch must cancel the draft")
	}

	w := s.AddWall([]float64{0, 0, 100, 0}, 6, false)
	s.SetSelection(domain.EntityRef{Kind: domain.KindWall, ID: w.ID})
	s.SetTool(ToolDelete)
	if len(s.Selection()) != 0 {
		t.Error("tool switch must clear the selection")
	}
}

func TestDoorToolPlacesOnNearestSegment(t *testing.T) {
	s := NewSession()
	w := s.AddWall([]float64{0, 0, 200, 0}, 6, false)
	s.SetTool(ToolDoor)

	s.PointerDown(geometry.Point{X: 100, Y: 5}, nil, false)

	doc := s.Snapshot()
	if len(doc.Doors) != 1 {
		t.Fatalf("expected 1 door, got %d", len(doc.Doors))
	}
	d := doc.Doors[0]
	if d.WallID != w.ID || d.SegmentIndex != 0 {
		t.Errorf("door attached to %s seg %d, want wall seg 0", d.WallID, d.SegmentIndex)
	}
	if math.Abs(d.PositionOnWall-0.5) > 1e-9 {
		t.Errorf("PositionOnWall = %v, want 0.5", d.PositionOnWall)
	}
	if d.Width != DefaultDoorWidth || d.SwingDirection != domain.SwingIn || d.HingeSide != domain.HingeLeft {
		t.Errorf("door defaults wrong: %+v", d)
	}
}

func TestDoorToolNoWallInRangeIsNoOp(t *testing.T) {
	s := NewSession()
	s.AddWall([]float64{0, 0, 200, 0}, 6, false)
	histBefore := s.HistoryLen()
	s.SetTool(ToolDoor)

	s.PointerDown(geometry.Point{X: 100, Y: 100}, nil, false)
	if len(s.Snapshot().Doors) != 0 {
		t.Error("click far from any wall placed a door")
	}
	if s.HistoryLen() != histBefore {
		t.Error("no-op click created a history entry")
	}
}

func TestWindowToolPlacesOnWall(t *testing.T) {
	s := NewSession()
	w := s.AddWall([]float64{0, 0, 0, 200}, 6, false)
	s.SetTool(ToolWindow)

	s.PointerDown(geometry.Point{X: 4, Y: 50}, nil, false)

	doc := s.Snapshot()
	if len(doc.Windows) != 1 {
		t.Fatalf("expected 1 window, got %d", len(doc.Windows))
	}
	win := doc.Windows[0]
	if win.WallID != w.ID || win.Width != DefaultWindowWidth {
		t.Errorf("window = %+v", win)
	}
	if math.Abs(win.PositionOnWall-0.25) > 1e-9 {
		t.Errorf("PositionOnWall = %v, want 0.25", win.PositionOnWall)
	}
}

func TestSelectToolReplaceAndToggle(t *testing.T) {
	s := NewSession()
	w1 := s.AddWall([]float64{0, 0, 100, 0}, 6, false)
	w2 := s.AddWall([]float64{0, 50, 100, 50}, 6, false)
	s.SetTool(ToolSelect)

	ref1 := domain.EntityRef{Kind: domain.KindWall, ID: w1.ID}
	ref2 := domain.EntityRef{Kind: domain.KindWall, ID: w2.ID}

	s.PointerDown(geometry.Point{}, &ref1, false)
	s.PointerDown(geometry.Point{}, &ref2, true)
	if got := s.Selection(); len(got) != 2 {
		t.Fatalf("additive click selection = %v, want both walls", got)
	}

	s.PointerDown(geometry.Point{}, &ref1, true)
	if got := s.Selection(); len(got) != 1 || got[0] != ref2 {
		t.Errorf("additive re-click must deselect, got %v", got)
	}

	s.PointerDown(geometry.Point{}, &ref1, false)
	if got := s.Selection(); len(got) != 1 || got[0] != ref1 {
		t.Errorf("plain click must replace selection, got %v", got)
	}

	s.PointerDown(geometry.Point{}, nil, false)
	if len(s.Selection()) != 0 {
		t.Error("click on empty canvas must clear selection")
	}
}

func TestMoveToolDragIsOneHistoryStep(t *testing.T) {
	s := NewSession()
	w := s.AddWall([]float64{0, 0, 100, 0}, 6, false)
	s.SetTool(ToolMove)
	histBefore := s.HistoryLen()

	ref := domain.EntityRef{Kind: domain.KindWall, ID: w.ID}
	s.PointerDown(geometry.Point{X: 50, Y: 0}, &ref, false)
	s.PointerMove(geometry.Point{X: 60, Y: 10})
	s.PointerMove(geometry.Point{X: 80, Y: 30})
	s.PointerUp(geometry.Point{X: 80, Y: 30})

	pts := s.Snapshot().Walls[0].Points
	if !reflect.DeepEqual(pts, []float64{30, 30, 130, 30}) {
		t.Errorf("points after drag = %v, want translated by (30,30)", pts)
	}
	if s.HistoryLen() != histBefore+1 {
		t.Errorf("drag created %d history steps, want 1", s.HistoryLen()-histBefore)
	}

	s.Undo()
	if !reflect.DeepEqual(s.Snapshot().Walls[0].Points, []float64{0, 0, 100, 0}) {
		t.Error("single undo must revert the whole drag")
	}
}

func TestMoveWithoutDragStartDoesNothing(t *testing.T) {
	s := NewSession()
	s.AddWall([]float64{0, 0, 100, 0}, 6, false)
	s.SetTool(ToolMove)

	s.PointerMove(geometry.Point{X: 50, Y: 50})
	if !reflect.DeepEqual(s.Snapshot().Walls[0].Points, []float64{0, 0, 100, 0}) {
		t.Error("motion without a press moved the wall")
	}
}

func TestDeleteToolRemovesClickedEntity(t *testing.T) {
	s := NewSession()
	w := s.AddWall([]float64{0, 0, 200, 0}, 6, false)
	s.AddDoor(w.ID, 0, 0.5)
	s.SetTool(ToolDelete)

	ref := domain.EntityRef{Kind: domain.KindWall, ID: w.ID}
	s.PointerDown(geometry.Point{X: 100, Y: 0}, &ref, false)

	doc := s.Snapshot()
	if len(doc.Walls) != 0 || len(doc.Doors) != 0 {
		t.Errorf("walls=%d doors=%d after delete click, want 0/0", len(doc.Walls), len(doc.Doors))
	}
}

func TestDeleteKeyRemovesSelection(t *testing.T) {
	s := NewSession()
	w := s.AddWall([]float64{0, 0, 100, 0}, 6, false)
	s.SetSelection(domain.EntityRef{Kind: domain.KindWall, ID: w.ID})

	s.KeyDown("Delete")
	if len(s.Snapshot().Walls) != 0 {
		t.Error("delete key must remove the selected wall")
	}
}
