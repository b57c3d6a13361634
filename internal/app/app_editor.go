package app

import (
	"fmt"

	"rangedeck/internal/domain"
	"rangedeck/internal/editor"
	"rangedeck/internal/geometry"
)

// ============================================================
// Editor session — open/save
// ============================================================

// OpenRoom loads a room's layout into the editing session. A pending
// autosave for the previous room is flushed first.
func (a *App) OpenRoom(roomID string) (editor.State, error) {
	if _, err := a.rooms.GetRoom(roomID); err != nil {
		return editor.State{}, fmt.Errorf("open room: %w", err)
	}
	a.layouts.Flush(a.ctx)

	rl, err := a.layouts.LoadLayout(roomID)
	if err != nil {
		return editor.State{}, err
	}
	if rl == nil {
		a.session.Reset()
	} else {
		a.session.LoadLayout(rl.Layout)
		a.session.SetViewport(rl.Viewport)
	}
	a.activeRoomID = roomID
	return a.session.State(), nil
}

// CloseRoom flushes pending edits and detaches the session from the room.
func (a *App) CloseRoom() error {
	if a.activeRoomID == "" {
		return nil
	}
	if err := a.layouts.Flush(a.ctx); err != nil {
		return err
	}
	if a.session.Dirty() {
		if err := a.SaveLayout(); err != nil {
			return err
		}
	}
	a.activeRoomID = ""
	a.session.Reset()
	return nil
}

// SaveLayout writes the open room's layout immediately.
func (a *App) SaveLayout() error {
	if a.activeRoomID == "" {
		return fmt.Errorf("no room open")
	}
	if err := a.layouts.SaveLayout(a.ctx, a.activeRoomID, a.session.SerializeLayout(), a.session.Viewport()); err != nil {
		return err
	}
	a.session.MarkClean()
	return a.layouts.ClearRecovery(a.activeRoomID)
}

// EditorState returns the full render state of the session.
func (a *App) EditorState() editor.State {
	return a.session.State()
}

// RecoverLayout replaces the session with the newest crash-recovery
// snapshot for the open room, if one exists.
func (a *App) RecoverLayout() (editor.State, error) {
	if a.activeRoomID == "" {
		return editor.State{}, fmt.Errorf("no room open")
	}
	snap, err := a.layouts.LatestRecovery(a.activeRoomID)
	if err != nil {
		return editor.State{}, err
	}
	if snap != nil {
		a.session.LoadLayout(snap.Layout)
	}
	return a.session.State(), nil
}

// queueAutosave schedules a debounced save after a document mutation.
func (a *App) queueAutosave() {
	if a.activeRoomID == "" {
		return
	}
	a.layouts.QueueSave(a.ctx, a.activeRoomID, a.session.SerializeLayout(), a.session.Viewport())
}

// ============================================================
// Pointer and keyboard events
// ============================================================

// PointerDown dispatches a press at canvas coordinates. hit is the entity
// under the pointer as resolved by the renderer, or nil.
func (a *App) PointerDown(x, y float64, hit *domain.EntityRef, additive bool) editor.State {
	a.session.PointerDown(geometry.Point{X: x, Y: y}, hit, additive)
	a.queueAutosave()
	return a.session.State()
}

func (a *App) PointerMove(x, y float64) editor.State {
	a.session.PointerMove(geometry.Point{X: x, Y: y})
	return a.session.State()
}

func (a *App) PointerUp(x, y float64) editor.State {
	a.session.PointerUp(geometry.Point{X: x, Y: y})
	a.queueAutosave()
	return a.session.State()
}

func (a *App) DoubleClick(x, y float64) editor.State {
	a.session.DoubleClick(geometry.Point{X: x, Y: y})
	return a.session.State()
}

func (a *App) KeyDown(key string) editor.State {
	a.session.KeyDown(key)
	a.queueAutosave()
	return a.session.State()
}

func (a *App) CancelDraft() editor.State {
	a.session.CancelDraft()
	return a.session.State()
}

// ============================================================
// Tools, selection, viewport
// ============================================================

func (a *App) SetTool(tool string) editor.State {
	a.session.SetTool(editor.Tool(tool))
	return a.session.State()
}

func (a *App) SetHovered(id string) {
	a.session.SetHovered(id)
}

func (a *App) SetViewport(scale, x, y float64) {
	a.session.SetViewport(domain.Viewport{Scale: scale, X: x, Y: y})
	a.queueAutosave()
}

func (a *App) ZoomIn() editor.State {
	a.session.ZoomIn()
	return a.session.State()
}

func (a *App) ZoomOut() editor.State {
	a.session.ZoomOut()
	return a.session.State()
}

func (a *App) ResetZoom() editor.State {
	a.session.ResetZoom()
	return a.session.State()
}

func (a *App) SetGridSize(size float64) editor.State {
	a.session.SetGridSize(size)
	a.queueAutosave()
	return a.session.State()
}

// ============================================================
// Document mutations
// ============================================================

func (a *App) AddPrebuiltRoom() editor.State {
	a.session.AddPrebuiltRoom()
	a.queueAutosave()
	return a.session.State()
}

func (a *App) UpdateDoor(d domain.Door) editor.State {
	a.session.UpdateDoor(d)
	a.queueAutosave()
	return a.session.State()
}

func (a *App) UpdateWindow(w domain.Window) editor.State {
	a.session.UpdateWindow(w)
	a.queueAutosave()
	return a.session.State()
}

func (a *App) UpdateTarget(t domain.PlacedTarget) editor.State {
	a.session.UpdateTarget(t)
	a.queueAutosave()
	return a.session.State()
}

// PlaceTarget adds a marker for a device at the given position.
func (a *App) PlaceTarget(deviceID string, x, y float64, label string) editor.State {
	a.session.AddTarget(deviceID, x, y, label)
	a.queueAutosave()
	return a.session.State()
}

func (a *App) DeleteSelected() editor.State {
	a.session.DeleteSelected()
	a.queueAutosave()
	return a.session.State()
}

func (a *App) MoveSelected(dx, dy float64) editor.State {
	a.session.MoveSelected(dx, dy)
	a.queueAutosave()
	return a.session.State()
}

// ============================================================
// Drags
// ============================================================

func (a *App) StartCornerDrag(wallID string, pointIndex int) bool {
	return a.session.StartCornerDrag(wallID, pointIndex)
}

func (a *App) DragCorner(wallID string, pointIndex int, x, y float64) editor.State {
	a.session.DragCorner(wallID, pointIndex, x, y)
	return a.session.State()
}

func (a *App) EndCornerDrag() editor.State {
	a.queueAutosave()
	return a.session.State()
}

func (a *App) StartTargetDrag(id string) bool {
	return a.session.StartTargetDrag(id)
}

func (a *App) DragTarget(id string, x, y float64) editor.State {
	a.session.DragTarget(id, x, y)
	return a.session.State()
}

func (a *App) EndTargetDrag(id string) editor.State {
	a.session.EndTargetDrag(id)
	a.queueAutosave()
	return a.session.State()
}

// ============================================================
// History
// ============================================================

func (a *App) Undo() editor.State {
	if a.session.Undo() {
		a.queueAutosave()
	}
	return a.session.State()
}

func (a *App) Redo() editor.State {
	if a.session.Redo() {
		a.queueAutosave()
	}
	return a.session.State()
}
