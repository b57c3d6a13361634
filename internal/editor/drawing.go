package editor

import (
	"rangedeck/internal/geometry"
)

// wallDraft is the in-progress state of the wall tool. The first click
// anchors the wall; each following click commits one grid-snapped segment
// and re-anchors at its end, so consecutive clicks chain segments.
type wallDraft struct {
	drawing bool
	anchor  geometry.Point
	// points mirrors the committed chain plus the anchor, for preview
	// rendering of the rubber-band segment.
	points []float64
	// preview is the live cursor position, snapped.
	preview geometry.Point
}

func (d *wallDraft) clear() {
	d.drawing = false
	d.points = d.points[:0]
	d.preview = geometry.Point{}
}

// DrawingWall reports whether a wall draft is in progress.
func (s *Session) DrawingWall() bool { return s.draft.drawing }

// DraftPreview returns the snapped cursor position of the active draft.
func (s *Session) DraftPreview() geometry.Point { return s.draft.preview }

// wallClick advances the two-click drawing protocol by one click at the
// given canvas position. The click is grid-snapped first. The first click
// anchors; each later click commits a single-segment wall from the anchor
// to the snapped point, then the endpoint becomes the new anchor. Clicks
// that snap onto the anchor itself are ignored so a slow double click
// never commits a zero-length wall.
func (s *Session) wallClick(p geometry.Point) {
	snapped := geometry.SnapPointToGrid(p, s.gridSize)

	if !s.draft.drawing {
		s.draft.drawing = true
		s.draft.anchor = snapped
		s.draft.points = append(s.draft.points[:0], snapped.X, snapped.Y)
		s.draft.preview = snapped
		return
	}

	if snapped == s.draft.anchor {
		return
	}

	s.AddWall([]float64{
		s.draft.anchor.X, s.draft.anchor.Y,
		snapped.X, snapped.Y,
	}, DefaultWallThickness, false)

	s.draft.anchor = snapped
	s.draft.points = append(s.draft.points, snapped.X, snapped.Y)
	s.draft.preview = snapped
}

// wallHover updates the rubber-band preview while a draft is active.
func (s *Session) wallHover(p geometry.Point) {
	if !s.draft.drawing {
		return
	}
	s.draft.preview = geometry.SnapPointToGrid(p, s.gridSize)
}

// CancelDraft abandons the in-progress wall draft. Already committed
// segments stay in the document. Safe to call when no draft is active.
func (s *Session) CancelDraft() {
	s.draft.clear()
}
