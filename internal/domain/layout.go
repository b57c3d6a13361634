package domain

// All coordinates live in a single planar canvas space.

// Wall is a polyline (or closed polygon) drawn on the floor plan.
// Points is a flat sequence of x,y pairs; len(Points) is even and >= 4.
type Wall struct {
	ID        string    `json:"id"`
	Points    []float64 `json:"points"`
	Thickness float64   `json:"thickness"`
	Closed    bool      `json:"closed"`
}

// SwingDirection is which way a door opens relative to its wall.
type SwingDirection string

const (
	SwingIn  SwingDirection = "in"
	SwingOut SwingDirection = "out"
)

// HingeSide is the side of the opening the door is hinged on.
type HingeSide string

const (
	HingeLeft  HingeSide = "left"
	HingeRight HingeSide = "right"
)

// Door sits on one segment of a wall. PositionOnWall is normalized along
// that segment, not along the whole wall.
type Door struct {
	ID             string         `json:"id"`
	WallID         string         `json:"wallId"`
	SegmentIndex   int            `json:"segmentIndex"`
	PositionOnWall float64        `json:"positionOnWall"`
	Width          float64        `json:"width"`
	SwingDirection SwingDirection `json:"swingDirection"`
	SwingAngle     float64        `json:"swingAngle"`
	HingeSide      HingeSide      `json:"hingeSide"`
}

// Window sits on one segment of a wall, like a door but without swing.
type Window struct {
	ID             string  `json:"id"`
	WallID         string  `json:"wallId"`
	SegmentIndex   int     `json:"segmentIndex"`
	PositionOnWall float64 `json:"positionOnWall"`
	Width          float64 `json:"width"`
}

// PlacedTarget is a visual marker bound to a networked target device.
// It carries no telemetry; live state comes from the device feed.
type PlacedTarget struct {
	ID             string  `json:"id"`
	TargetDeviceID string  `json:"targetDeviceId"`
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	Rotation       float64 `json:"rotation"`
	Label          string  `json:"label"`
}

// DocumentSnapshot is a full, independent copy of the four entity
// collections. It is the unit of undo/redo and of persistence.
type DocumentSnapshot struct {
	Walls   []Wall         `json:"walls"`
	Doors   []Door         `json:"doors"`
	Windows []Window       `json:"windows"`
	Targets []PlacedTarget `json:"targets"`
}

// Clone returns a deep copy. Walls are the only entities holding a
// nested slice, so they are copied element by element.
func (d DocumentSnapshot) Clone() DocumentSnapshot {
	out := DocumentSnapshot{
		Walls:   make([]Wall, len(d.Walls)),
		Doors:   make([]Door, len(d.Doors)),
		Windows: make([]Window, len(d.Windows)),
		Targets: make([]PlacedTarget, len(d.Targets)),
	}
	for i, w := range d.Walls {
		w.Points = append([]float64(nil), w.Points...)
		out.Walls[i] = w
	}
	copy(out.Doors, d.Doors)
	copy(out.Windows, d.Windows)
	copy(out.Targets, d.Targets)
	return out
}

// Viewport is the pan/zoom state of the editor canvas. It is persisted
// alongside the document for session continuity but is not part of undo.
type Viewport struct {
	Scale float64 `json:"scale"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// EntityKind tags which collection an entity id belongs to. Selection
// references entities by (kind, id) so the four collections don't have to
// share one implicit string namespace.
type EntityKind string

const (
	KindWall   EntityKind = "wall"
	KindDoor   EntityKind = "door"
	KindWindow EntityKind = "window"
	KindTarget EntityKind = "target"
)

// EntityRef identifies one entity of any kind.
type EntityRef struct {
	Kind EntityKind `json:"kind"`
	ID   string     `json:"id"`
}

// LayoutVersion is the persisted layout schema version.
const LayoutVersion = 1

// Defaults applied when a persisted layout omits canvas fields.
const (
	DefaultCanvasWidth  = 1200.0
	DefaultCanvasHeight = 800.0
	DefaultGridSize     = 20.0
)

// Layout is the persisted form of a room's floor plan.
type Layout struct {
	Version      int            `json:"version"`
	CanvasWidth  float64        `json:"canvasWidth"`
	CanvasHeight float64        `json:"canvasHeight"`
	GridSize     float64        `json:"gridSize"`
	Walls        []Wall         `json:"walls"`
	Doors        []Door         `json:"doors"`
	Windows      []Window       `json:"windows"`
	Targets      []PlacedTarget `json:"targets"`
}
