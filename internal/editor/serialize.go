package editor

import (
	"encoding/json"
	"fmt"

	"rangedeck/internal/domain"
)

// SerializeLayout captures the session's document and canvas settings as a
// versioned layout. Collections come out non-nil so the JSON always carries
// arrays, never null.
func (s *Session) SerializeLayout() domain.Layout {
	snap := s.doc.Clone()
	return domain.Layout{
		Version:      domain.LayoutVersion,
		CanvasWidth:  s.canvasWidth,
		CanvasHeight: s.canvasHeight,
		GridSize:     s.gridSize,
		Walls:        normalizeWalls(snap.Walls),
		Doors:        normalizeDoors(snap.Doors),
		Windows:      normalizeWindows(snap.Windows),
		Targets:      normalizeTargets(snap.Targets),
	}
}

// LoadLayout replaces the session state from a persisted layout, applying
// defaults for anything the stored form omits. History, selection and the
// dirty flag are reset.
func (s *Session) LoadLayout(l domain.Layout) {
	l = NormalizeLayout(l)
	s.LoadDocument(domain.DocumentSnapshot{
		Walls:   l.Walls,
		Doors:   l.Doors,
		Windows: l.Windows,
		Targets: l.Targets,
	}, l.CanvasWidth, l.CanvasHeight, l.GridSize)
}

// MarshalLayout encodes a layout as JSON.
func MarshalLayout(l domain.Layout) ([]byte, error) {
	data, err := json.Marshal(NormalizeLayout(l))
	if err != nil {
		return nil, fmt.Errorf("marshal layout: %w", err)
	}
	return data, nil
}

// UnmarshalLayout decodes a layout from JSON and fills in defaults for
// missing canvas fields and nil collections, so documents written by older
// builds still load.
func UnmarshalLayout(data []byte) (domain.Layout, error) {
	var l domain.Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return domain.Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	return NormalizeLayout(l), nil
}

// NormalizeLayout applies canvas defaults and replaces nil collections with
// empty ones. The version is stamped to the current schema.
func NormalizeLayout(l domain.Layout) domain.Layout {
	l.Version = domain.LayoutVersion
	if l.CanvasWidth <= 0 {
		l.CanvasWidth = domain.DefaultCanvasWidth
	}
	if l.CanvasHeight <= 0 {
		l.CanvasHeight = domain.DefaultCanvasHeight
	}
	if l.GridSize <= 0 {
		l.GridSize = domain.DefaultGridSize
	}
	l.Walls = normalizeWalls(l.Walls)
	l.Doors = normalizeDoors(l.Doors)
	l.Windows = normalizeWindows(l.Windows)
	l.Targets = normalizeTargets(l.Targets)
	return l
}

func normalizeWalls(ws []domain.Wall) []domain.Wall {
	if ws == nil {
		return []domain.Wall{}
	}
	for i := range ws {
		if ws[i].Points == nil {
			ws[i].Points = []float64{}
		}
	}
	return ws
}

func normalizeDoors(ds []domain.Door) []domain.Door {
	if ds == nil {
		return []domain.Door{}
	}
	return ds
}

func normalizeWindows(ws []domain.Window) []domain.Window {
	if ws == nil {
		return []domain.Window{}
	}
	return ws
}

func normalizeTargets(ts []domain.PlacedTarget) []domain.PlacedTarget {
	if ts == nil {
		return []domain.PlacedTarget{}
	}
	return ts
}
