package geom

import "math"

// parallelEpsilon bounds the cross product below which two segments are
// treated as parallel.
const parallelEpsilon = 1e-12

// Segment is a directed line segment from A to B.
type Segment struct {
	A Point `json:"a"`
	B Point `json:"b"`
}

// Ray returns the segment starting at origin and extending by dir.
func Ray(origin, dir Point) Segment {
	return Segment{A: origin, B: origin.Add(dir)}
}

// Len returns the length of the segment.
func (s Segment) Len() float64 { return s.A.Dist(s.B) }

// Dir returns the vector from A to B.
func (s Segment) Dir() Point { return s.B.Sub(s.A) }

// At returns the point at distance d from A along the segment, clamped to
// the segment's ends.
func (s Segment) At(d float64) Point {
	l := s.Len()
	if l == 0 {
		return s.A
	}
	return s.A.Lerp(s.B, math.Max(0, math.Min(1, d/l)))
}

// Intersect returns the point where s and o cross. Parallel and colinear
// segments never intersect, and neither do segments whose infinite lines
// cross outside either segment.
func (s Segment) Intersect(o Segment) (Point, bool) {
	r := s.Dir()
	q := o.Dir()
	denom := r.Cross(q)
	if math.Abs(denom) < parallelEpsilon {
		return Point{}, false
	}
	ao := o.A.Sub(s.A)
	t := ao.Cross(q) / denom
	u := ao.Cross(r) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return Point{}, false
	}
	p := s.A.Add(r.Scale(t))
	if !p.Finite() {
		return Point{}, false
	}
	return p, true
}

// Closest returns the point on s nearest to p and its distance from A.
func (s Segment) Closest(p Point) (Point, float64) {
	d := s.Dir()
	l2 := d.Dot(d)
	if l2 == 0 {
		return s.A, 0
	}
	t := math.Max(0, math.Min(1, p.Sub(s.A).Dot(d)/l2))
	return s.A.Add(d.Scale(t)), t * math.Sqrt(l2)
}
