// Package kinematics defines the MotionModel interface that advances a
// vehicle's scalar speed once per rendered frame, along with built-in
// implementations.
//
// Models work in frame units: speed is arc length per frame and there is no
// timestep, so distance per real second follows the host's frame rate.
//
// Adding a new model requires only implementing MotionModel and registering
// it in the JSON discriminator in the vehicle package.
package kinematics

import "errors"

// DefaultSpinDecay is the per-frame decay applied to exit rotation by models
// that do not derive it from their own friction.
const DefaultSpinDecay = 0.9

// ErrInvalidModel is wrapped by Validate errors.
var ErrInvalidModel = errors.New("invalid kinematics model")

// MotionModel is the contract every kinematics implementation must satisfy.
type MotionModel interface {
	// VMax returns the vehicle's maximum speed.
	VMax() float64

	// Step advances speed by one frame with the throttle held on or released.
	// The returned speed is always within [0, VMax()], and dist is the arc
	// length consumed this frame.
	Step(v float64, throttle bool) (dist, newV float64)

	// SpinDecay returns the factor in (0, 1) applied each frame to the
	// rotational momentum of a vehicle that has left the track.
	SpinDecay() float64

	// BrakingDistance returns the distance covered coasting from v to rest.
	BrakingDistance(v float64) float64

	// Validate reports whether the parameters describe a usable model.
	Validate() error
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
