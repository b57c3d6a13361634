package editor

import (
	"github.com/google/uuid"

	"rangedeck/internal/domain"
	"rangedeck/internal/geometry"
)

// Tool is the active editing mode of the session.
type Tool string

const (
	ToolSelect Tool = "select"
	ToolMove   Tool = "move"
	ToolWall   Tool = "wall"
	ToolDoor   Tool = "door"
	ToolWindow Tool = "window"
	ToolDelete Tool = "delete"
)

// Viewport scale bounds and zoom step.
const (
	MinScale = 0.25
	MaxScale = 4.0
	ZoomStep = 0.1
)

// Default entity styling applied on placement.
const (
	DefaultWallThickness = 6.0
	DefaultDoorWidth     = 40.0
	DefaultDoorSwing     = 90.0
	DefaultWindowWidth   = 60.0
)

// Prebuilt room dimensions, in grid cells.
const (
	prebuiltRoomCols = 12
	prebuiltRoomRows = 8
)

// Session is the document/interaction engine behind one room's layout
// editor. It owns the document (walls, doors, windows, targets), the
// interaction state (tool, selection, wall draft), and the viewport.
// All state transitions happen synchronously inside the caller's event
// dispatch; the session does no locking and belongs to a single editing
// session at a time.
type Session struct {
	doc domain.DocumentSnapshot

	canvasWidth  float64
	canvasHeight float64
	gridSize     float64
	viewport     domain.Viewport

	tool      Tool
	selection []domain.EntityRef
	hoveredID string
	draft     wallDraft
	drag      dragState

	history *History
	dirty   bool
}

// NewSession creates an empty session with default canvas settings.
func NewSession() *Session {
	return &Session{
		canvasWidth:  domain.DefaultCanvasWidth,
		canvasHeight: domain.DefaultCanvasHeight,
		gridSize:     domain.DefaultGridSize,
		viewport:     domain.Viewport{Scale: 1},
		tool:         ToolSelect,
		history:      NewHistory(HistoryLimit),
	}
}

// ============================================================
// Read access (rendering)
// ============================================================

// State is the full render-facing view of the session.
type State struct {
	Document     domain.DocumentSnapshot `json:"document"`
	CanvasWidth  float64                 `json:"canvasWidth"`
	CanvasHeight float64                 `json:"canvasHeight"`
	GridSize     float64                 `json:"gridSize"`
	Viewport     domain.Viewport         `json:"viewport"`
	Tool         Tool                    `json:"tool"`
	Selection    []domain.EntityRef      `json:"selection"`
	HoveredID    string                  `json:"hoveredId"`
	DrawingWall  bool                    `json:"drawingWall"`
	DraftPoints  []float64               `json:"draftPoints"`
	Dirty        bool                    `json:"dirty"`
	CanUndo      bool                    `json:"canUndo"`
	CanRedo      bool                    `json:"canRedo"`
}

// State returns a copy of everything the renderer needs.
func (s *Session) State() State {
	return State{
		Document:     s.doc.Clone(),
		CanvasWidth:  s.canvasWidth,
		CanvasHeight: s.canvasHeight,
		GridSize:     s.gridSize,
		Viewport:     s.viewport,
		Tool:         s.tool,
		Selection:    append([]domain.EntityRef(nil), s.selection...),
		HoveredID:    s.hoveredID,
		DrawingWall:  s.draft.drawing,
		DraftPoints:  append([]float64(nil), s.draft.points...),
		Dirty:        s.dirty,
		CanUndo:      s.history.CanUndo(),
		CanRedo:      s.history.CanRedo(),
	}
}

// Snapshot returns a deep copy of the document, suitable for persistence
// or comparison.
func (s *Session) Snapshot() domain.DocumentSnapshot { return s.doc.Clone() }

// GridSize returns the active grid size.
func (s *Session) GridSize() float64 { return s.gridSize }

// Viewport returns the current pan/zoom state.
func (s *Session) Viewport() domain.Viewport { return s.viewport }

// Tool returns the active tool.
func (s *Session) Tool() Tool { return s.tool }

// Selection returns the selected entity references.
func (s *Session) Selection() []domain.EntityRef {
	return append([]domain.EntityRef(nil), s.selection...)
}

// Dirty reports whether the document has unsaved mutations.
func (s *Session) Dirty() bool { return s.dirty }

// MarkClean clears the dirty flag after a successful save.
func (s *Session) MarkClean() { s.dirty = false }

// CanUndo reports whether an undo point exists.
func (s *Session) CanUndo() bool { return s.history.CanUndo() }

// CanRedo reports whether a redo point exists.
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// HistoryLen returns the number of stored undo points.
func (s *Session) HistoryLen() int { return s.history.Len() }

// ============================================================
// Document mutations (history-snapshotting)
// ============================================================

func (s *Session) mutate() {
	s.history.Save(s.doc)
	s.dirty = true
}

// AddWall creates a wall from a flat point list. Returns nil when fewer
// than two points are given.
func (s *Session) AddWall(points []float64, thickness float64, closed bool) *domain.Wall {
	if len(points) < 4 || len(points)%2 != 0 {
		return nil
	}
	if thickness <= 0 {
		thickness = DefaultWallThickness
	}
	s.mutate()
	w := domain.Wall{
		ID:        uuid.New().String(),
		Points:    append([]float64(nil), points...),
		Thickness: thickness,
		Closed:    closed,
	}
	s.doc.Walls = append(s.doc.Walls, w)
	return &w
}

// UpdateWall replaces an existing wall by id. Unknown ids are a no-op.
func (s *Session) UpdateWall(w domain.Wall) {
	i := s.wallIndex(w.ID)
	if i < 0 {
		return
	}
	s.mutate()
	w.Points = append([]float64(nil), w.Points...)
	s.doc.Walls[i] = w
}

// RemoveWall deletes a wall and cascades to every door and window attached
// to it, all in one history step. Unknown ids are a no-op.
func (s *Session) RemoveWall(id string) {
	if s.wallIndex(id) < 0 {
		return
	}
	s.mutate()
	s.removeWallLocked(id)
}

// removeWallLocked removes the wall and its doors/windows without touching
// history; the caller has already snapshotted.
func (s *Session) removeWallLocked(id string) {
	walls := s.doc.Walls[:0]
	for _, w := range s.doc.Walls {
		if w.ID != id {
			walls = append(walls, w)
		}
	}
	s.doc.Walls = walls

	doors := s.doc.Doors[:0]
	for _, d := range s.doc.Doors {
		if d.WallID != id {
			doors = append(doors, d)
		}
	}
	s.doc.Doors = doors

	windows := s.doc.Windows[:0]
	for _, w := range s.doc.Windows {
		if w.WallID != id {
			windows = append(windows, w)
		}
	}
	s.doc.Windows = windows
}

// AddDoor places a door on a wall segment with default styling.
func (s *Session) AddDoor(wallID string, segmentIndex int, positionOnWall float64) *domain.Door {
	s.mutate()
	d := domain.Door{
		ID:             uuid.New().String(),
		WallID:         wallID,
		SegmentIndex:   segmentIndex,
		PositionOnWall: clamp01(positionOnWall),
		Width:          DefaultDoorWidth,
		SwingDirection: domain.SwingIn,
		SwingAngle:     DefaultDoorSwing,
		HingeSide:      domain.HingeLeft,
	}
	s.doc.Doors = append(s.doc.Doors, d)
	return &d
}

// UpdateDoor replaces an existing door by id. Unknown ids are a no-op.
func (s *Session) UpdateDoor(d domain.Door) {
	i := s.doorIndex(d.ID)
	if i < 0 {
		return
	}
	s.mutate()
	d.PositionOnWall = clamp01(d.PositionOnWall)
	s.doc.Doors[i] = d
}

// RemoveDoor deletes a door by id. Unknown ids are a no-op.
func (s *Session) RemoveDoor(id string) {
	i := s.doorIndex(id)
	if i < 0 {
		return
	}
	s.mutate()
	s.doc.Doors = append(s.doc.Doors[:i], s.doc.Doors[i+1:]...)
}

// AddWindow places a window on a wall segment with default styling.
func (s *Session) AddWindow(wallID string, segmentIndex int, positionOnWall float64) *domain.Window {
	s.mutate()
	w := domain.Window{
		ID:             uuid.New().String(),
		WallID:         wallID,
		SegmentIndex:   segmentIndex,
		PositionOnWall: clamp01(positionOnWall),
		Width:          DefaultWindowWidth,
	}
	s.doc.Windows = append(s.doc.Windows, w)
	return &w
}

// UpdateWindow replaces an existing window by id. Unknown ids are a no-op.
func (s *Session) UpdateWindow(w domain.Window) {
	i := s.windowIndex(w.ID)
	if i < 0 {
		return
	}
	s.mutate()
	w.PositionOnWall = clamp01(w.PositionOnWall)
	s.doc.Windows[i] = w
}

// RemoveWindow deletes a window by id. Unknown ids are a no-op.
func (s *Session) RemoveWindow(id string) {
	i := s.windowIndex(id)
	if i < 0 {
		return
	}
	s.mutate()
	s.doc.Windows = append(s.doc.Windows[:i], s.doc.Windows[i+1:]...)
}

// AddTarget places a target marker, snapped to the grid.
func (s *Session) AddTarget(deviceID string, x, y float64, label string) *domain.PlacedTarget {
	s.mutate()
	t := domain.PlacedTarget{
		ID:             uuid.New().String(),
		TargetDeviceID: deviceID,
		X:              geometry.SnapToGrid(x, s.gridSize),
		Y:              geometry.SnapToGrid(y, s.gridSize),
		Label:          label,
	}
	s.doc.Targets = append(s.doc.Targets, t)
	return &t
}

// UpdateTarget replaces an existing target by id. Unknown ids are a no-op.
func (s *Session) UpdateTarget(t domain.PlacedTarget) {
	i := s.targetIndex(t.ID)
	if i < 0 {
		return
	}
	s.mutate()
	s.doc.Targets[i] = t
}

// RemoveTarget deletes a target marker by id. Unknown ids are a no-op.
func (s *Session) RemoveTarget(id string) {
	i := s.targetIndex(id)
	if i < 0 {
		return
	}
	s.mutate()
	s.doc.Targets = append(s.doc.Targets[:i], s.doc.Targets[i+1:]...)
}

// AddPrebuiltRoom synthesizes a closed rectangular wall of fixed grid-unit
// dimensions, centered on the visible viewport center (the canvas center
// inverse-transformed through the current pan/zoom).
func (s *Session) AddPrebuiltRoom() *domain.Wall {
	scale := s.viewport.Scale
	if scale == 0 {
		scale = 1
	}
	cx := (s.canvasWidth/2 - s.viewport.X) / scale
	cy := (s.canvasHeight/2 - s.viewport.Y) / scale

	w := float64(prebuiltRoomCols) * s.gridSize
	h := float64(prebuiltRoomRows) * s.gridSize
	x0 := geometry.SnapToGrid(cx-w/2, s.gridSize)
	y0 := geometry.SnapToGrid(cy-h/2, s.gridSize)

	return s.AddWall([]float64{
		x0, y0,
		x0 + w, y0,
		x0 + w, y0 + h,
		x0, y0 + h,
	}, DefaultWallThickness, true)
}

// DeleteSelected removes every selected entity in one history step,
// cascading wall deletion to attached doors and windows.
func (s *Session) DeleteSelected() {
	if len(s.selection) == 0 {
		return
	}
	s.mutate()
	for _, ref := range s.selection {
		switch ref.Kind {
		case domain.KindWall:
			s.removeWallLocked(ref.ID)
		case domain.KindDoor:
			if i := s.doorIndex(ref.ID); i >= 0 {
				s.doc.Doors = append(s.doc.Doors[:i], s.doc.Doors[i+1:]...)
			}
		case domain.KindWindow:
			if i := s.windowIndex(ref.ID); i >= 0 {
				s.doc.Windows = append(s.doc.Windows[:i], s.doc.Windows[i+1:]...)
			}
		case domain.KindTarget:
			if i := s.targetIndex(ref.ID); i >= 0 {
				s.doc.Targets = append(s.doc.Targets[:i], s.doc.Targets[i+1:]...)
			}
		}
	}
	s.selection = s.selection[:0]
}

// MoveSelected translates every selected wall and target by (dx, dy) in one
// history step. Doors and windows follow their wall implicitly because
// their position is derived from it.
func (s *Session) MoveSelected(dx, dy float64) {
	if len(s.selection) == 0 || (dx == 0 && dy == 0) {
		return
	}
	s.mutate()
	s.translateSelected(dx, dy)
}

// translateSelected shifts selected walls/targets without snapshotting;
// used by drag handling after the drag start already saved history.
func (s *Session) translateSelected(dx, dy float64) {
	for _, ref := range s.selection {
		switch ref.Kind {
		case domain.KindWall:
			if i := s.wallIndex(ref.ID); i >= 0 {
				pts := s.doc.Walls[i].Points
				for j := 0; j < len(pts)-1; j += 2 {
					pts[j] += dx
					pts[j+1] += dy
				}
			}
		case domain.KindTarget:
			if i := s.targetIndex(ref.ID); i >= 0 {
				s.doc.Targets[i].X += dx
				s.doc.Targets[i].Y += dy
			}
		}
	}
	s.dirty = true
}

// ============================================================
// Corner and target drags
// ============================================================

// StartCornerDrag records history before a wall corner drag begins.
// Returns false when the wall or point index does not exist.
func (s *Session) StartCornerDrag(wallID string, pointIndex int) bool {
	i := s.wallIndex(wallID)
	if i < 0 {
		return false
	}
	if pointIndex < 0 || pointIndex*2+1 >= len(s.doc.Walls[i].Points) {
		return false
	}
	s.mutate()
	return true
}

// DragCorner moves a single wall corner to the grid-snapped position.
// Other corners of the wall are left untouched.
func (s *Session) DragCorner(wallID string, pointIndex int, x, y float64) {
	i := s.wallIndex(wallID)
	if i < 0 {
		return
	}
	pts := s.doc.Walls[i].Points
	if pointIndex < 0 || pointIndex*2+1 >= len(pts) {
		return
	}
	pts[pointIndex*2] = geometry.SnapToGrid(x, s.gridSize)
	pts[pointIndex*2+1] = geometry.SnapToGrid(y, s.gridSize)
	s.dirty = true
}

// StartTargetDrag records history before a target marker drag begins.
func (s *Session) StartTargetDrag(id string) bool {
	if s.targetIndex(id) < 0 {
		return false
	}
	s.mutate()
	return true
}

// DragTarget moves a target marker freely while dragging.
func (s *Session) DragTarget(id string, x, y float64) {
	i := s.targetIndex(id)
	if i < 0 {
		return
	}
	s.doc.Targets[i].X = x
	s.doc.Targets[i].Y = y
	s.dirty = true
}

// EndTargetDrag snaps the dropped target marker to the grid.
func (s *Session) EndTargetDrag(id string) {
	i := s.targetIndex(id)
	if i < 0 {
		return
	}
	s.doc.Targets[i].X = geometry.SnapToGrid(s.doc.Targets[i].X, s.gridSize)
	s.doc.Targets[i].Y = geometry.SnapToGrid(s.doc.Targets[i].Y, s.gridSize)
}

// ============================================================
// Interaction mutations (no snapshotting)
// ============================================================

// SetTool switches the active tool. Every transition cancels an in-progress
// wall draft and clears the selection.
func (s *Session) SetTool(t Tool) {
	s.tool = t
	s.draft.clear()
	s.drag = dragState{}
	s.selection = s.selection[:0]
}

// SetSelection replaces the selection with a single entity.
func (s *Session) SetSelection(ref domain.EntityRef) {
	s.selection = append(s.selection[:0], ref)
}

// ToggleSelection adds or removes an entity from the selection.
func (s *Session) ToggleSelection(ref domain.EntityRef) {
	for i, r := range s.selection {
		if r == ref {
			s.selection = append(s.selection[:i], s.selection[i+1:]...)
			return
		}
	}
	s.selection = append(s.selection, ref)
}

// ClearSelection empties the selection.
func (s *Session) ClearSelection() { s.selection = s.selection[:0] }

// SetHovered tracks the entity id under the pointer, for hover styling.
func (s *Session) SetHovered(id string) { s.hoveredID = id }

// ============================================================
// Viewport mutations
// ============================================================

// SetScale sets the zoom level, clamped to [MinScale, MaxScale].
func (s *Session) SetScale(scale float64) {
	s.viewport.Scale = clampScale(scale)
}

// SetPan sets the viewport pan offset.
func (s *Session) SetPan(x, y float64) {
	s.viewport.X = x
	s.viewport.Y = y
}

// SetViewport replaces the whole viewport, clamping the scale.
func (s *Session) SetViewport(v domain.Viewport) {
	v.Scale = clampScale(v.Scale)
	s.viewport = v
}

// SetGridSize changes the snapping grid. Non-positive sizes are ignored.
func (s *Session) SetGridSize(g float64) {
	if g > 0 {
		s.gridSize = g
	}
}

// ZoomIn increases the scale by one step.
func (s *Session) ZoomIn() { s.SetScale(s.viewport.Scale + ZoomStep) }

// ZoomOut decreases the scale by one step.
func (s *Session) ZoomOut() { s.SetScale(s.viewport.Scale - ZoomStep) }

// ResetZoom restores scale 1 and origin pan.
func (s *Session) ResetZoom() {
	s.viewport = domain.Viewport{Scale: 1}
}

// ============================================================
// Bulk operations
// ============================================================

// LoadDocument replaces the document and canvas settings, clears history
// and selection, and marks the document clean.
func (s *Session) LoadDocument(snap domain.DocumentSnapshot, canvasWidth, canvasHeight, gridSize float64) {
	s.doc = snap.Clone()
	if canvasWidth > 0 {
		s.canvasWidth = canvasWidth
	}
	if canvasHeight > 0 {
		s.canvasHeight = canvasHeight
	}
	if gridSize > 0 {
		s.gridSize = gridSize
	}
	s.history.Reset()
	s.selection = s.selection[:0]
	s.draft.clear()
	s.drag = dragState{}
	s.hoveredID = ""
	s.dirty = false
}

// Reset returns the session to its empty initial state.
func (s *Session) Reset() {
	s.doc = domain.DocumentSnapshot{}
	s.canvasWidth = domain.DefaultCanvasWidth
	s.canvasHeight = domain.DefaultCanvasHeight
	s.gridSize = domain.DefaultGridSize
	s.viewport = domain.Viewport{Scale: 1}
	s.tool = ToolSelect
	s.history.Reset()
	s.selection = s.selection[:0]
	s.draft.clear()
	s.drag = dragState{}
	s.hoveredID = ""
	s.dirty = false
}

// Undo restores the previous document state and clears the selection.
func (s *Session) Undo() bool {
	restored, ok := s.history.Undo(s.doc)
	if !ok {
		return false
	}
	s.doc = restored
	s.selection = s.selection[:0]
	s.dirty = true
	return true
}

// Redo re-applies the most recently undone state and clears the selection.
func (s *Session) Redo() bool {
	restored, ok := s.history.Redo(s.doc)
	if !ok {
		return false
	}
	s.doc = restored
	s.selection = s.selection[:0]
	s.dirty = true
	return true
}

// ============================================================
// Lookups
// ============================================================

func (s *Session) wallIndex(id string) int {
	for i := range s.doc.Walls {
		if s.doc.Walls[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Session) doorIndex(id string) int {
	for i := range s.doc.Doors {
		if s.doc.Doors[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Session) windowIndex(id string) int {
	for i := range s.doc.Windows {
		if s.doc.Windows[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Session) targetIndex(id string) int {
	for i := range s.doc.Targets {
		if s.doc.Targets[i].ID == id {
			return i
		}
	}
	return -1
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampScale(scale float64) float64 {
	if scale < MinScale {
		return MinScale
	}
	if scale > MaxScale {
		return MaxScale
	}
	return scale
}
