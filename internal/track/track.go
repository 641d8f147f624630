// Package track provides the closed curve the vehicle drives along and the
// Sampler adapter the simulation queries it through.
//
// A Curve only has to answer queries for offsets in [0, Length()). The
// Sampler owns the modulo arithmetic, so callers can pass the vehicle's
// unbounded arc-length offset directly.
package track

import (
	"errors"
	"math"

	"github.com/cxd309/racer-engine/internal/geom"
)

var (
	// ErrUninitializedCurve is returned when a Sampler is built without a curve.
	ErrUninitializedCurve = errors.New("track curve is not initialized")
	// ErrZeroLength is returned when the curve's total arc length is not positive.
	ErrZeroLength = errors.New("track curve has zero length")
	// ErrTooFewPoints is returned when a polyline has fewer than two distinct points.
	ErrTooFewPoints = errors.New("track needs at least two distinct points")
)

// Curve is a closed curve parametrised by arc length.
type Curve interface {
	// Length returns the total arc length L of the closed curve.
	Length() float64

	// PointAt returns the world position at offset o, 0 ≤ o < L.
	PointAt(o float64) geom.Point

	// TangentAt returns the unit direction of travel at offset o.
	TangentAt(o float64) geom.Point

	// NormalAt returns the unit normal at offset o.
	NormalAt(o float64) geom.Point

	// OffsetOf returns the offset of the curve point nearest to p.
	OffsetOf(p geom.Point) float64
}

// Outliner is implemented by curves that can hand their shape to a renderer.
type Outliner interface {
	Outline() []geom.Point
}

// Sample is the result of querying the curve at one offset.
type Sample struct {
	Offset       float64    `json:"offset"` // wrapped into [0, L)
	Point        geom.Point `json:"point"`
	TangentAngle float64    `json:"tangent_angle"` // degrees
}

// Sampler wraps a Curve and reduces every offset modulo its length.
type Sampler struct {
	curve  Curve
	length float64
}

// NewSampler validates c and returns a Sampler over it. A nil curve or one
// without positive, finite length is a configuration error.
func NewSampler(c Curve) (*Sampler, error) {
	if c == nil {
		return nil, ErrUninitializedCurve
	}
	l := c.Length()
	if !(l > 0) || math.IsInf(l, 0) {
		return nil, ErrZeroLength
	}
	return &Sampler{curve: c, length: l}, nil
}

// Length returns the curve's total arc length.
func (s *Sampler) Length() float64 { return s.length }

// Wrap reduces o into [0, L).
func (s *Sampler) Wrap(o float64) float64 {
	w := math.Mod(o, s.length)
	if w < 0 {
		w += s.length
	}
	if w >= s.length {
		w = 0
	}
	return w
}

// SampleAt returns position and tangent angle at offset o.
func (s *Sampler) SampleAt(o float64) Sample {
	w := s.Wrap(o)
	return Sample{
		Offset:       w,
		Point:        s.curve.PointAt(w),
		TangentAngle: s.curve.TangentAt(w).Angle(),
	}
}

// TangentAngleAt returns the direction of travel at offset o in degrees.
func (s *Sampler) TangentAngleAt(o float64) float64 {
	return s.curve.TangentAt(s.Wrap(o)).Angle()
}

// NormalAt returns the unit normal at offset o. Callers scale it.
func (s *Sampler) NormalAt(o float64) geom.Point {
	return s.curve.NormalAt(s.Wrap(o))
}

// OffsetOf returns the approximate offset of p, projected onto the curve.
func (s *Sampler) OffsetOf(p geom.Point) float64 {
	return s.Wrap(s.curve.OffsetOf(p))
}

// MidOffset returns the offset halfway between a and b along the shorter
// arc, so a pair straddling the start of the curve does not land on the
// opposite side of the track.
func (s *Sampler) MidOffset(a, b float64) float64 {
	a, b = s.Wrap(a), s.Wrap(b)
	if math.Abs(a-b) > s.length/2 {
		if a < b {
			a += s.length
		} else {
			b += s.length
		}
	}
	return s.Wrap((a + b) / 2)
}

// Outline returns the curve's shape for drawing, or nil if the curve
// cannot provide one.
func (s *Sampler) Outline() []geom.Point {
	if o, ok := s.curve.(Outliner); ok {
		return o.Outline()
	}
	return nil
}
