package vehicle

import (
	"errors"
	"fmt"
	"math"

	"github.com/cxd309/racer-engine/internal/corridor"
	"github.com/cxd309/racer-engine/internal/geom"
	"github.com/cxd309/racer-engine/internal/track"
)

// ErrNotCrashEnded is returned by Resume when there is no finished crash to
// recover from. The car is left untouched.
var ErrNotCrashEnded = errors.New("vehicle has not finished crashing")

// Phase describes what the car is doing.
type Phase string

const (
	PhaseDriving    Phase = "driving"
	PhaseExiting    Phase = "exiting"
	PhaseCrashEnded Phase = "crash_ended"
	// PhaseRetired follows Resume(false): the car stays put and ignores the
	// throttle until Reset.
	PhaseRetired Phase = "retired"
)

// State is the per-frame kinematic state of the car.
type State struct {
	Offset   float64    `json:"offset"`  // unbounded arc length travelled
	Heading  float64    `json:"heading"` // degrees
	Speed    float64    `json:"speed"`
	Throttle bool       `json:"throttle"`
	Position geom.Point `json:"position"`
}

// ExitTrajectory exists only while the car is off the track.
type ExitTrajectory struct {
	Offset   float64      `json:"offset"`   // distance travelled along Line
	Rotation float64      `json:"rotation"` // degrees added to the heading per frame
	Line     geom.Segment `json:"line"`
}

// pose is an on-track position the car can be put back on.
type pose struct {
	offset float64
	sample track.Sample
}

// Car is the simulation context for one vehicle on one track. It is not
// safe for concurrent use; the host calls Step once per frame and issues
// commands between frames.
type Car struct {
	Vehicle
	sampler  *track.Sampler
	detector corridor.Detector
	start    float64

	state     State
	phase     Phase
	exit      *ExitTrajectory
	frame     int
	committed pose
	lastProbe corridor.Probe

	resetPending bool
}

// NewCar places a car at startOffset on the track, stopped.
func NewCar(v Vehicle, s *track.Sampler, startOffset float64) (*Car, error) {
	if s == nil {
		return nil, track.ErrUninitializedCurve
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	if math.IsNaN(startOffset) || math.IsInf(startOffset, 0) {
		return nil, fmt.Errorf("vehicle %q: start offset must be finite, got %v", v.Name, startOffset)
	}
	c := &Car{
		Vehicle: v,
		sampler: s,
		detector: corridor.Detector{
			Sampler:         s,
			SlidingFriction: v.SlidingFriction,
			ProbeLength:     v.ProbeLength,
		},
		start: s.Wrap(startOffset),
	}
	c.reset()
	return c, nil
}

// Step advances the car by one frame and returns the events it produced.
func (c *Car) Step() []Event {
	c.frame++
	switch c.phase {
	case PhaseDriving:
		return c.drive()
	case PhaseExiting:
		return c.slide()
	default:
		return nil
	}
}

func (c *Car) drive() []Event {
	dist, v := c.Kinem.Step(c.state.Speed, c.state.Throttle)
	c.state.Speed = v
	c.state.Offset += dist
	if v < StoppedSpeed {
		return nil
	}

	next := c.sampler.SampleAt(c.state.Offset)
	c.lastProbe = c.detector.Evaluate(c.committed.sample, next, v)
	if c.lastProbe.Exit {
		c.leaveTrack(next)
		return []Event{{Kind: EventExited, Frame: c.frame}}
	}

	c.committed = pose{offset: c.state.Offset, sample: next}
	c.state.Position = next.Point
	c.state.Heading = next.TangentAngle
	return []Event{{Kind: EventRunning, Frame: c.frame, ScoreDelta: Score(v)}}
}

// leaveTrack starts the exit trajectory from the rejected sample, heading
// straight on along the velocity.
func (c *Car) leaveTrack(from track.Sample) {
	v := c.state.Speed
	length := math.Max(v*ExitLineScale, c.Kinem.BrakingDistance(v))
	if math.IsInf(length, 0) {
		length = v * ExitLineScale
	}
	c.exit = &ExitTrajectory{
		Rotation: c.ExitRotation,
		Line:     geom.Ray(from.Point, geom.FromAngle(from.TangentAngle, length)),
	}
	c.state.Throttle = false
	c.state.Position = from.Point
	c.state.Heading = from.TangentAngle
	c.phase = PhaseExiting
}

func (c *Car) slide() []Event {
	_, v := c.Kinem.Step(c.state.Speed, false)
	c.state.Speed = v
	if v < StoppedSpeed {
		c.exit = nil
		c.phase = PhaseCrashEnded
		events := []Event{{Kind: EventCrashEnded, Frame: c.frame}}
		if c.resetPending {
			c.reset()
		}
		return events
	}

	c.exit.Rotation *= c.Kinem.SpinDecay()
	c.exit.Offset += v
	c.state.Position = c.exit.Line.At(c.exit.Offset)
	c.state.Heading += c.exit.Rotation
	return nil
}

// SetThrottle sets the throttle for the following frames. It is ignored
// unless the car is driving, and reports whether it was applied.
func (c *Car) SetThrottle(on bool) bool {
	if c.phase != PhaseDriving {
		return false
	}
	c.state.Throttle = on
	return true
}

func (c *Car) Accelerate() bool { return c.SetThrottle(true) }

func (c *Car) Brake() bool { return c.SetThrottle(false) }

// Resume ends a finished crash. With inPlace the car is put back on the
// track at the last position it committed before leaving, facing along the
// track; otherwise it is retired until Reset.
func (c *Car) Resume(inPlace bool) error {
	if c.phase != PhaseCrashEnded {
		return ErrNotCrashEnded
	}
	if !inPlace {
		c.phase = PhaseRetired
		return nil
	}
	c.state.Offset = c.committed.offset
	c.state.Position = c.committed.sample.Point
	c.state.Heading = c.sampler.TangentAngleAt(c.committed.offset)
	c.state.Throttle = false
	c.phase = PhaseDriving
	return nil
}

// Reset puts the car back at the start, stopped and driving. A reset
// requested while the car is sliding off the track is applied on the frame
// the slide ends, after EventCrashEnded.
func (c *Car) Reset() {
	if c.phase == PhaseExiting {
		c.resetPending = true
		return
	}
	c.reset()
}

func (c *Car) reset() {
	s := c.sampler.SampleAt(c.start)
	c.state = State{
		Offset:   c.start,
		Heading:  s.TangentAngle,
		Position: s.Point,
	}
	c.committed = pose{offset: c.start, sample: s}
	c.exit = nil
	c.phase = PhaseDriving
	c.lastProbe = corridor.Probe{}
	c.resetPending = false
}

// Position returns the committed world position after the last frame.
func (c *Car) Position() geom.Point { return c.state.Position }

// HeadingDegrees returns the committed heading after the last frame.
func (c *Car) HeadingDegrees() float64 { return c.state.Heading }

func (c *Car) Speed() float64 { return c.state.Speed }

func (c *Car) Phase() Phase { return c.phase }

func (c *Car) Frame() int { return c.frame }

// State returns a copy of the kinematic state.
func (c *Car) State() State { return c.state }

// Exit returns a copy of the exit trajectory, or nil while on the track.
func (c *Car) Exit() *ExitTrajectory {
	if c.exit == nil {
		return nil
	}
	e := *c.exit
	return &e
}

// LastProbe returns the corridor test from the most recent committed or
// rejected move.
func (c *Car) LastProbe() corridor.Probe { return c.lastProbe }
