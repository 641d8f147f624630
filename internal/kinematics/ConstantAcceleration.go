package kinematics

import (
	"fmt"
	"math"
)

// ConstantModelName is the JSON discriminator string for the Constant model.
const ConstantModelName = "constant"

// ConstantAcceleration gains AAcc per throttled frame and loses ADcc per
// coasting frame, stopping exactly at zero.
//
// JSON discriminator: "model": "constant"
type ConstantAcceleration struct {
	AAcc    float64 `json:"a_acc"` // speed gained per throttled frame
	ADcc    float64 `json:"a_dcc"` // speed lost per coasting frame (positive)
	VMaxVal float64 `json:"v_max"`
	Spin    float64 `json:"spin_decay,omitempty"` // exit rotation decay; DefaultSpinDecay if unset
}

func (c ConstantAcceleration) VMax() float64 { return c.VMaxVal }

func (c ConstantAcceleration) Step(v float64, throttle bool) (float64, float64) {
	if throttle {
		v = math.Min(v+c.AAcc, c.VMaxVal)
	} else {
		v = math.Max(0, v-c.ADcc)
	}
	v = clamp(v, 0, c.VMaxVal)
	return v, v
}

func (c ConstantAcceleration) SpinDecay() float64 {
	if c.Spin > 0 && c.Spin < 1 {
		return c.Spin
	}
	return DefaultSpinDecay
}

func (c ConstantAcceleration) BrakingDistance(v float64) float64 {
	if c.ADcc <= 0 {
		return math.Inf(1)
	}
	return (v * v) / (2 * c.ADcc)
}

func (c ConstantAcceleration) Validate() error {
	switch {
	case !(c.AAcc > 0):
		return fmt.Errorf("%w: constant a_acc must be > 0, got %v", ErrInvalidModel, c.AAcc)
	case !(c.ADcc > 0):
		return fmt.Errorf("%w: constant a_dcc must be > 0, got %v", ErrInvalidModel, c.ADcc)
	case !(c.VMaxVal > 0):
		return fmt.Errorf("%w: constant v_max must be > 0, got %v", ErrInvalidModel, c.VMaxVal)
	case c.Spin < 0 || c.Spin >= 1:
		return fmt.Errorf("%w: constant spin_decay must be in [0, 1), got %v", ErrInvalidModel, c.Spin)
	}
	return nil
}
