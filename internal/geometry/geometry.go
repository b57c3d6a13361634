package geometry

import (
	"math"

	"rangedeck/internal/domain"
)

// DefaultSnapDistance is how close (in canvas units) a click must land to a
// wall segment for door/window placement to snap to it.
const DefaultSnapDistance = 30.0

// Point is a 2D canvas coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Segment is one straight piece of a wall between two consecutive points.
type Segment struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// SnapToGrid rounds v to the nearest multiple of gridSize.
// A non-positive grid leaves the value untouched.
func SnapToGrid(v, gridSize float64) float64 {
	if gridSize <= 0 {
		return v
	}
	return math.Round(v/gridSize) * gridSize
}

// SnapPointToGrid snaps both axes independently.
func SnapPointToGrid(p Point, gridSize float64) Point {
	return Point{X: SnapToGrid(p.X, gridSize), Y: SnapToGrid(p.Y, gridSize)}
}

// LineAngle returns the angle of the directed segment a→b, in radians.
func LineAngle(a, b Point) float64 {
	return math.Atan2(b.Y-a.Y, b.X-a.X)
}

// Projection is the result of projecting a point onto a closed segment.
type Projection struct {
	Point    Point   `json:"point"`
	T        float64 `json:"t"`
	Distance float64 `json:"distance"`
}

// ProjectPointOntoSegment returns the closest point on the closed segment
// [segStart, segEnd], the clamped parameter t in [0,1], and the distance
// from p to that point. A zero-length segment projects to segStart, t=0.
func ProjectPointOntoSegment(p, segStart, segEnd Point) Projection {
	dx := segEnd.X - segStart.X
	dy := segEnd.Y - segStart.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return Projection{Point: segStart, T: 0, Distance: Distance(p, segStart)}
	}

	t := ((p.X-segStart.X)*dx + (p.Y-segStart.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))

	closest := Point{X: segStart.X + t*dx, Y: segStart.Y + t*dy}
	return Projection{Point: closest, T: t, Distance: Distance(p, closest)}
}

// WallSegments expands a wall's flat point list into consecutive segments.
// A closed wall gets one extra wrap-around segment back to the first point.
func WallSegments(w domain.Wall) []Segment {
	n := len(w.Points) / 2
	if n < 2 {
		return nil
	}
	segs := make([]Segment, 0, n)
	for i := 0; i < n-1; i++ {
		segs = append(segs, Segment{
			Start: Point{X: w.Points[i*2], Y: w.Points[i*2+1]},
			End:   Point{X: w.Points[i*2+2], Y: w.Points[i*2+3]},
		})
	}
	if w.Closed {
		segs = append(segs, Segment{
			Start: Point{X: w.Points[(n-1)*2], Y: w.Points[(n-1)*2+1]},
			End:   Point{X: w.Points[0], Y: w.Points[1]},
		})
	}
	return segs
}

// WallHit is a resolved snap-to-wall result for door/window placement.
type WallHit struct {
	WallID         string  `json:"wallId"`
	SegmentIndex   int     `json:"segmentIndex"`
	PositionOnWall float64 `json:"positionOnWall"`
	SnapPoint      Point   `json:"snapPoint"`
	WallAngle      float64 `json:"wallAngle"`
}

// NearestWallSegment scans every segment of every wall and returns the
// projection with the smallest distance strictly under maxDistance, or nil
// when nothing qualifies. On exact ties the first segment encountered wins;
// iteration order is walls in slice order, then segments in order.
func NearestWallSegment(p Point, walls []domain.Wall, maxDistance float64) *WallHit {
	var best *WallHit
	bestDist := maxDistance

	for _, w := range walls {
		for i, seg := range WallSegments(w) {
			proj := ProjectPointOntoSegment(p, seg.Start, seg.End)
			if proj.Distance >= bestDist {
				continue
			}
			bestDist = proj.Distance
			best = &WallHit{
				WallID:         w.ID,
				SegmentIndex:   i,
				PositionOnWall: proj.T,
				SnapPoint:      proj.Point,
				WallAngle:      LineAngle(seg.Start, seg.End),
			}
		}
	}
	return best
}

// PositionOnWall maps (segmentIndex, t) back to an absolute point and the
// segment's angle. An out-of-range index yields a zero point and angle so
// that rendering never crashes on a transiently inconsistent door/window.
func PositionOnWall(w domain.Wall, segmentIndex int, t float64) (Point, float64) {
	segs := WallSegments(w)
	if segmentIndex < 0 || segmentIndex >= len(segs) {
		return Point{}, 0
	}
	seg := segs[segmentIndex]
	t = math.Max(0, math.Min(1, t))
	pt := Point{
		X: seg.Start.X + t*(seg.End.X-seg.Start.X),
		Y: seg.Start.Y + t*(seg.End.Y-seg.Start.Y),
	}
	return pt, LineAngle(seg.Start, seg.End)
}
