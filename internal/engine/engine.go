// Package engine runs scripted, headless racer sessions.
//
// A run replays a throttle script frame by frame against one car on one
// track and records every frame. The same input always produces the same
// log, which makes runs usable as fixtures for renderers and tuning.
package engine

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/cxd309/racer-engine/internal/game"
	"github.com/cxd309/racer-engine/internal/track"
	"github.com/cxd309/racer-engine/internal/vehicle"
)

// Output encodings accepted by MarshalLog.
const (
	FormatJSON    = "json"
	FormatMsgpack = "msgpack"
)

// NewRacer constructs a Racer from a SimulationInput, building the track and
// placing the car at its start.
func NewRacer(input SimulationInput) (*Racer, error) {
	meta := input.Meta
	if meta.Frames <= 0 {
		return nil, fmt.Errorf("frames must be > 0, got %d", meta.Frames)
	}
	if meta.SimulationID == "" {
		meta.SimulationID = uuid.NewString()
	}
	for i, w := range input.Throttle {
		if w.From < 1 || w.To < w.From {
			return nil, fmt.Errorf("throttle window %d: invalid frame range [%d, %d]", i, w.From, w.To)
		}
	}

	data := track.Default()
	if input.Track != nil {
		data = *input.Track
	}
	curve, err := data.Build()
	if err != nil {
		return nil, fmt.Errorf("building track: %w", err)
	}
	sampler, err := track.NewSampler(curve)
	if err != nil {
		return nil, fmt.Errorf("building track: %w", err)
	}

	v := vehicle.Default()
	if input.Vehicle != nil {
		v = *input.Vehicle
	}
	start := input.StartOffset
	if input.StartPoint != nil {
		start = sampler.OffsetOf(*input.StartPoint)
	}
	car, err := vehicle.NewCar(v, sampler, start)
	if err != nil {
		return nil, fmt.Errorf("creating car: %w", err)
	}

	return &Racer{
		meta:        meta,
		sampler:     sampler,
		session:     game.NewSession(car),
		throttle:    input.Throttle,
		autoRestart: input.AutoRestart,
	}, nil
}

// Run executes the full simulation and returns the log.
func (r *Racer) Run() SimulationLog {
	log := SimulationLog{
		Meta:        r.meta,
		TrackLength: r.sampler.Length(),
		Output:      make([]FrameLog, 0, r.meta.Frames),
	}
	for r.frame < r.meta.Frames {
		log.Output = append(log.Output, r.step())
	}
	return log
}

// step advances the session by one frame and returns the resulting log row.
func (r *Racer) step() FrameLog {
	r.frame++
	if r.autoRestart && r.session.Status().Over {
		r.session.Restart()
	}
	r.session.SetThrottle(r.throttleAt(r.frame))
	events := r.session.Tick()

	car := r.session.Car()
	st := car.State()
	row := FrameLog{
		Frame:    r.frame,
		Phase:    car.Phase(),
		Throttle: st.Throttle,
		Offset:   st.Offset,
		Speed:    st.Speed,
		Position: st.Position,
		Heading:  st.Heading,
		Status:   r.session.Status(),
		Events:   events,
	}
	for _, e := range events {
		if e.Kind == vehicle.EventExited {
			probe := car.LastProbe()
			row.Probe = &probe
		}
	}
	return row
}

// throttleAt reports whether the script holds the throttle on frame f.
func (r *Racer) throttleAt(f int) bool {
	for _, w := range r.throttle {
		if f >= w.From && f <= w.To {
			return true
		}
	}
	return false
}

// MarshalLog encodes a log in the named format. Msgpack output uses the
// same field names as JSON.
func MarshalLog(log SimulationLog, format string) ([]byte, error) {
	switch format {
	case "", FormatJSON:
		return json.Marshal(log)
	case FormatMsgpack:
		var buf bytes.Buffer
		enc := msgpack.NewEncoder(&buf)
		enc.SetCustomStructTag("json")
		if err := enc.Encode(log); err != nil {
			return nil, fmt.Errorf("encoding msgpack log: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// UnmarshalLog decodes a log produced by MarshalLog.
func UnmarshalLog(data []byte, format string) (SimulationLog, error) {
	var log SimulationLog
	switch format {
	case "", FormatJSON:
		if err := json.Unmarshal(data, &log); err != nil {
			return SimulationLog{}, err
		}
	case FormatMsgpack:
		dec := msgpack.NewDecoder(bytes.NewReader(data))
		dec.SetCustomStructTag("json")
		if err := dec.Decode(&log); err != nil {
			return SimulationLog{}, fmt.Errorf("decoding msgpack log: %w", err)
		}
	default:
		return SimulationLog{}, fmt.Errorf("unknown log format %q", format)
	}
	return log, nil
}

// Run decodes a JSON SimulationInput, runs it and encodes the log in the
// given format.
func Run(jsonInput []byte, format string) ([]byte, error) {
	var input SimulationInput
	if err := json.Unmarshal(jsonInput, &input); err != nil {
		return nil, fmt.Errorf("invalid input JSON: %w", err)
	}

	racer, err := NewRacer(input)
	if err != nil {
		return nil, err
	}
	return MarshalLog(racer.Run(), format)
}

// RunJSON is the primary entry point for the CLI and WASM targets.
// It accepts a JSON-encoded SimulationInput, runs the simulation, and returns a
// JSON-encoded SimulationLog.
func RunJSON(jsonInput string) (string, error) {
	out, err := Run([]byte(jsonInput), FormatJSON)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
