package kinematics

import (
	"fmt"
	"math"
)

// ArcadeModelName is the JSON discriminator string for the Arcade model.
const ArcadeModelName = "arcade"

// Arcade adds a fixed increment per frame while the throttle is held and
// multiplies speed by Friction when it is released. Speed decays towards
// zero without ever reaching it.
//
// JSON discriminator: "model": "arcade"
type Arcade struct {
	Accel    float64 `json:"accel"`    // speed gained per throttled frame
	Friction float64 `json:"friction"` // per-frame multiplier while coasting, in (0, 1)
	VMaxVal  float64 `json:"v_max"`
}

func (a Arcade) VMax() float64 { return a.VMaxVal }

func (a Arcade) Step(v float64, throttle bool) (float64, float64) {
	if throttle {
		v = math.Min(v+a.Accel, a.VMaxVal)
	} else {
		v *= a.Friction
	}
	v = clamp(v, 0, a.VMaxVal)
	return v, v
}

func (a Arcade) SpinDecay() float64 { return a.Friction }

// BrakingDistance sums the geometric series v·f + v·f² + …
func (a Arcade) BrakingDistance(v float64) float64 {
	if a.Friction >= 1 {
		return math.Inf(1)
	}
	return v * a.Friction / (1 - a.Friction)
}

func (a Arcade) Validate() error {
	switch {
	case !(a.Accel > 0):
		return fmt.Errorf("%w: arcade accel must be > 0, got %v", ErrInvalidModel, a.Accel)
	case !(a.Friction > 0 && a.Friction < 1):
		return fmt.Errorf("%w: arcade friction must be in (0, 1), got %v", ErrInvalidModel, a.Friction)
	case !(a.VMaxVal > 0):
		return fmt.Errorf("%w: arcade v_max must be > 0, got %v", ErrInvalidModel, a.VMaxVal)
	}
	return nil
}
