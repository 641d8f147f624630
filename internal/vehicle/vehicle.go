// Package vehicle runs a single car around a track: per-frame kinematics,
// corridor checks, and the crash/recovery state machine.
package vehicle

import (
	"encoding/json"
	"fmt"

	"github.com/cxd309/racer-engine/internal/kinematics"
)

// Vehicle holds the static parameters of a car.
// Acceleration and coasting are encapsulated by the Kinem field; adding a
// new model only requires implementing kinematics.MotionModel and
// registering it in UnmarshalJSON below.
type Vehicle struct {
	Name            string                 `json:"name"`
	Kinem           kinematics.MotionModel `json:"-"` // set by UnmarshalJSON
	SlidingFriction float64                `json:"sliding_friction,omitempty"`
	ExitRotation    float64                `json:"exit_rotation,omitempty"` // degrees
	ProbeLength     float64                `json:"probe_length,omitempty"`
}

// Default returns the arcade car with the stock tuning.
func Default() Vehicle {
	return Vehicle{
		Name:            "racer",
		Kinem:           kinematics.Arcade{Accel: Acceleration, Friction: Friction, VMaxVal: MaxSpeed},
		SlidingFriction: SlidingFriction,
		ExitRotation:    ExitRotation,
	}
}

// kinematicsDisc is the minimum JSON structure needed to read the model discriminator.
type kinematicsDisc struct {
	Model string `json:"model"`
}

// vehicleJSON is the raw JSON shape of a Vehicle, before the kinematics model is resolved.
type vehicleJSON struct {
	Name            string          `json:"name"`
	Kinem           json.RawMessage `json:"kinematics"`
	SlidingFriction float64         `json:"sliding_friction"`
	ExitRotation    float64         `json:"exit_rotation"`
	ProbeLength     float64         `json:"probe_length"`
}

// UnmarshalJSON implements json.Unmarshaler for Vehicle.
// The optional "kinematics" field must contain a "model" discriminator key
// that selects the concrete implementation; the rest of the object is
// forwarded to that implementation's own unmarshaler. Omitted fields keep
// the stock tuning.
//
// Supported models:
//   - "arcade": fixed accel, multiplicative friction.
//   - "constant": fixed a_acc / a_dcc rates.
func (v *Vehicle) UnmarshalJSON(data []byte) error {
	def := Default()
	aux := vehicleJSON{Name: def.Name, SlidingFriction: def.SlidingFriction, ExitRotation: def.ExitRotation}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	v.Name = aux.Name
	v.SlidingFriction = aux.SlidingFriction
	v.ExitRotation = aux.ExitRotation
	v.ProbeLength = aux.ProbeLength
	v.Kinem = def.Kinem

	if len(aux.Kinem) == 0 || string(aux.Kinem) == "null" {
		return nil
	}

	var disc kinematicsDisc
	if err := json.Unmarshal(aux.Kinem, &disc); err != nil {
		return fmt.Errorf("vehicle %q: reading kinematics model discriminator: %w", v.Name, err)
	}

	switch disc.Model {
	case kinematics.ArcadeModelName:
		k := def.Kinem.(kinematics.Arcade)
		if err := json.Unmarshal(aux.Kinem, &k); err != nil {
			return fmt.Errorf("vehicle %q: parsing arcade kinematics: %w", v.Name, err)
		}
		v.Kinem = k
	case kinematics.ConstantModelName:
		var k kinematics.ConstantAcceleration
		if err := json.Unmarshal(aux.Kinem, &k); err != nil {
			return fmt.Errorf("vehicle %q: parsing constant kinematics: %w", v.Name, err)
		}
		v.Kinem = k
	default:
		return fmt.Errorf("vehicle %q: unknown kinematics model %q", v.Name, disc.Model)
	}
	return nil
}

// Validate checks the parameters a Car depends on.
func (v Vehicle) Validate() error {
	if v.Kinem == nil {
		return fmt.Errorf("vehicle %q: missing kinematics model", v.Name)
	}
	if err := v.Kinem.Validate(); err != nil {
		return fmt.Errorf("vehicle %q: %w", v.Name, err)
	}
	if v.SlidingFriction < 0 {
		return fmt.Errorf("vehicle %q: sliding_friction must be >= 0, got %v", v.Name, v.SlidingFriction)
	}
	return nil
}
