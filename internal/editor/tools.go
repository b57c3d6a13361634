package editor

import (
	"rangedeck/internal/domain"
	"rangedeck/internal/geometry"
)

// dragState tracks an in-progress move drag under the move tool.
type dragState struct {
	active bool
	last   geometry.Point
}

// PointerDown dispatches a primary-button press at a canvas position.
// hit identifies the entity under the pointer, or nil over empty canvas;
// additive marks a modifier-click that toggles instead of replacing the
// selection. Hit testing itself happens in the renderer, which knows the
// drawn shapes; the engine only interprets the result.
func (s *Session) PointerDown(p geometry.Point, hit *domain.EntityRef, additive bool) {
	switch s.tool {
	case ToolSelect:
		if hit == nil {
			if !additive {
				s.ClearSelection()
			}
			return
		}
		if additive {
			s.ToggleSelection(*hit)
		} else {
			s.SetSelection(*hit)
		}

	case ToolMove:
		if hit == nil {
			s.ClearSelection()
			return
		}
		if !s.isSelected(*hit) {
			s.SetSelection(*hit)
		}
		s.mutate()
		s.drag = dragState{active: true, last: p}

	case ToolWall:
		s.wallClick(p)

	case ToolDoor:
		if wh := geometry.NearestWallSegment(p, s.doc.Walls, geometry.DefaultSnapDistance); wh != nil {
			s.AddDoor(wh.WallID, wh.SegmentIndex, wh.PositionOnWall)
		}

	case ToolWindow:
		if wh := geometry.NearestWallSegment(p, s.doc.Walls, geometry.DefaultSnapDistance); wh != nil {
			s.AddWindow(wh.WallID, wh.SegmentIndex, wh.PositionOnWall)
		}

	case ToolDelete:
		if hit == nil {
			return
		}
		switch hit.Kind {
		case domain.KindWall:
			s.RemoveWall(hit.ID)
		case domain.KindDoor:
			s.RemoveDoor(hit.ID)
		case domain.KindWindow:
			s.RemoveWindow(hit.ID)
		case domain.KindTarget:
			s.RemoveTarget(hit.ID)
		}
	}
}

// PointerMove dispatches pointer motion. Under the wall tool it updates the
// rubber-band preview; under the move tool it drags the selection.
func (s *Session) PointerMove(p geometry.Point) {
	switch s.tool {
	case ToolWall:
		s.wallHover(p)
	case ToolMove:
		if !s.drag.active {
			return
		}
		s.translateSelected(p.X-s.drag.last.X, p.Y-s.drag.last.Y)
		s.drag.last = p
	}
}

// PointerUp ends an in-progress move drag. The total translation already
// happened incrementally during PointerMove; history was saved once at
// drag start, so the whole drag undoes as one step.
func (s *Session) PointerUp(p geometry.Point) {
	if s.tool == ToolMove && s.drag.active {
		s.drag = dragState{}
	}
}

// DoubleClick finishes the active wall draft. Outside the wall tool it is
// a no-op.
func (s *Session) DoubleClick(p geometry.Point) {
	if s.tool == ToolWall {
		s.CancelDraft()
	}
}

// KeyDown handles the editor's keyboard shortcuts that mutate session
// state. Key names follow the DOM KeyboardEvent.key convention.
func (s *Session) KeyDown(key string) {
	switch key {
	case "Escape":
		s.CancelDraft()
		s.ClearSelection()
	case "Delete", "Backspace":
		s.DeleteSelected()
	}
}

func (s *Session) isSelected(ref domain.EntityRef) bool {
	for _, r := range s.selection {
		if r == ref {
			return true
		}
	}
	return false
}
