// Package corridor decides when a vehicle carried too much speed through a
// bend and left the drivable corridor around the track.
//
// Each frame two long probes are cast along the track normal, one from the
// previous committed position and one from the new candidate position. On
// a straight the probes are parallel and never meet. Through a bend they
// cross on the inside of the turn, closer the tighter the turn, and the
// distance from the crossing to the chord midpoint bounds the speed the
// vehicle can hold: sqrt(distance * slidingFriction).
package corridor

import (
	"math"

	"github.com/cxd309/racer-engine/internal/geom"
	"github.com/cxd309/racer-engine/internal/track"
)

// DefaultProbeLength is long enough for probes to reach across any bend on
// a screen-sized circuit.
const DefaultProbeLength = 1000

// Detector evaluates candidate moves against the corridor.
type Detector struct {
	Sampler         *track.Sampler
	SlidingFriction float64
	ProbeLength     float64
}

// Probe is the outcome of one corridor test, kept for logging and drawing.
type Probe struct {
	// Direction is +1 or -1 and picks the side of the track the probes are
	// cast towards.
	Direction int          `json:"direction"`
	Current   geom.Segment `json:"current"`
	Previous  geom.Segment `json:"previous"`
	Hit       bool         `json:"hit"`
	// Intersection, Distance and MaxSpeed are meaningful only when Hit.
	Intersection geom.Point `json:"intersection"`
	Distance     float64    `json:"distance"`
	MaxSpeed     float64    `json:"max_speed"`
	Exit         bool       `json:"exit"`
}

// Evaluate tests the move from prev to next at the given speed.
func (d Detector) Evaluate(prev, next track.Sample, speed float64) Probe {
	k := d.ProbeLength
	if k <= 0 {
		k = DefaultProbeLength
	}

	dir := d.direction(prev, next)
	p := Probe{
		Direction: dir,
		Current:   geom.Ray(next.Point, d.Sampler.NormalAt(next.Offset).Scale(k*float64(dir))),
		Previous:  geom.Ray(prev.Point, d.Sampler.NormalAt(prev.Offset).Scale(k*float64(dir))),
		MaxSpeed:  math.Inf(1),
	}

	x, ok := p.Current.Intersect(p.Previous)
	if !ok {
		return p
	}
	dist := x.Dist(prev.Point.Mid(next.Point))
	if math.IsNaN(dist) || math.IsInf(dist, 0) {
		return p
	}

	p.Hit = true
	p.Intersection = x
	p.Distance = dist
	p.MaxSpeed = math.Sqrt(dist * d.SlidingFriction)
	p.Exit = p.MaxSpeed > 0 && speed > p.MaxSpeed
	return p
}

// direction compares the heading halfway through the move with the heading
// at its end. A heading whose angle decreases over the move gives +1. Where
// the curve's tangent is piecewise constant the midpoint can share the end's
// heading, and the heading at the start of the move decides instead.
func (d Detector) direction(prev, next track.Sample) int {
	mid := d.Sampler.TangentAngleAt(d.Sampler.MidOffset(prev.Offset, next.Offset))
	delta := angleDelta(mid, next.TangentAngle)
	if delta == 0 {
		delta = angleDelta(prev.TangentAngle, next.TangentAngle)
	}
	if delta > 0 {
		return 1
	}
	return -1
}

// angleDelta returns a-b folded into (-180, 180], so headings either side of
// the ±180° seam compare the way they turn.
func angleDelta(a, b float64) float64 {
	d := math.Mod(a-b, 360)
	if d > 180 {
		d -= 360
	} else if d <= -180 {
		d += 360
	}
	return d
}
