package track

import (
	"math"
	"sort"

	"github.com/cxd309/racer-engine/internal/geom"
)

// Polyline is a closed curve made of straight segments joining its points
// in order, with an implicit segment from the last point back to the first.
type Polyline struct {
	points []geom.Point
	cum    []float64 // cum[i] is the offset where segment i starts; cum[n] == length
	length float64
}

// NewPolyline builds a closed polyline. Consecutive duplicate points are
// dropped, including a last point repeating the first.
func NewPolyline(points []geom.Point) (*Polyline, error) {
	pts := make([]geom.Point, 0, len(points))
	for _, p := range points {
		if !p.Finite() {
			continue
		}
		if len(pts) > 0 && pts[len(pts)-1] == p {
			continue
		}
		pts = append(pts, p)
	}
	for len(pts) > 1 && pts[len(pts)-1] == pts[0] {
		pts = pts[:len(pts)-1]
	}
	if len(pts) < 2 {
		return nil, ErrTooFewPoints
	}

	cum := make([]float64, len(pts)+1)
	for i := range pts {
		cum[i+1] = cum[i] + pts[i].Dist(pts[(i+1)%len(pts)])
	}
	return &Polyline{points: pts, cum: cum, length: cum[len(pts)]}, nil
}

func (p *Polyline) Length() float64 { return p.length }

// segment returns segment i and the distance of o from its start.
func (p *Polyline) segment(o float64) (geom.Segment, float64) {
	n := len(p.points)
	i := sort.Search(n, func(i int) bool { return p.cum[i+1] > o })
	if i >= n {
		i = n - 1
	}
	return geom.Segment{A: p.points[i], B: p.points[(i+1)%n]}, o - p.cum[i]
}

func (p *Polyline) PointAt(o float64) geom.Point {
	s, d := p.segment(o)
	return s.At(d)
}

func (p *Polyline) TangentAt(o float64) geom.Point {
	s, _ := p.segment(o)
	return s.Dir().Unit()
}

// NormalAt returns the tangent rotated a quarter turn clockwise in screen
// coordinates: (ty, -tx).
func (p *Polyline) NormalAt(o float64) geom.Point {
	t := p.TangentAt(o)
	return geom.Point{X: t.Y, Y: -t.X}
}

// OffsetOf projects q onto every segment and returns the offset of the
// nearest projection.
func (p *Polyline) OffsetOf(q geom.Point) float64 {
	n := len(p.points)
	best, bestDist := 0.0, math.Inf(1)
	for i := 0; i < n; i++ {
		s := geom.Segment{A: p.points[i], B: p.points[(i+1)%n]}
		c, along := s.Closest(q)
		if d := c.Dist(q); d < bestDist {
			best, bestDist = p.cum[i]+along, d
		}
	}
	if best >= p.length {
		best -= p.length
	}
	return best
}

// Outline returns a copy of the polyline's points.
func (p *Polyline) Outline() []geom.Point {
	out := make([]geom.Point, len(p.points))
	copy(out, p.points)
	return out
}
