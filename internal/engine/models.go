package engine

import (
	"github.com/cxd309/racer-engine/internal/corridor"
	"github.com/cxd309/racer-engine/internal/game"
	"github.com/cxd309/racer-engine/internal/geom"
	"github.com/cxd309/racer-engine/internal/track"
	"github.com/cxd309/racer-engine/internal/vehicle"
)

// SimulationMeta holds the identity and length of a simulation run.
type SimulationMeta struct {
	SimulationID string `json:"simulation_id,omitempty" jsonschema:"description=Generated when omitted"`
	Frames       int    `json:"frames" jsonschema:"minimum=1"`
}

// ThrottleWindow holds the throttle down from frame From to frame To, inclusive.
// Frames are numbered from 1.
type ThrottleWindow struct {
	From int `json:"from_frame" jsonschema:"minimum=1"`
	To   int `json:"to_frame" jsonschema:"minimum=1"`
}

// SimulationInput is the JSON-serialisable input to the engine.
type SimulationInput struct {
	Meta    SimulationMeta   `json:"simulation_meta"`
	Track   *track.TrackData `json:"track,omitempty" jsonschema:"description=Defaults to the built-in circuit"`
	Vehicle *vehicle.Vehicle `json:"vehicle,omitempty" jsonschema:"description=Defaults to the stock arcade car"`
	// StartPoint, when set, is projected onto the track and overrides StartOffset.
	StartOffset float64          `json:"start_offset,omitempty"`
	StartPoint  *geom.Point      `json:"start_point,omitempty"`
	Throttle    []ThrottleWindow `json:"throttle"`
	// AutoRestart starts a new game on the frame after the last life is lost.
	AutoRestart bool `json:"auto_restart,omitempty"`
}

// FrameLog is the state of the session after a single frame.
type FrameLog struct {
	Frame    int             `json:"frame"`
	Phase    vehicle.Phase   `json:"phase"`
	Throttle bool            `json:"throttle"`
	Offset   float64         `json:"offset"`
	Speed    float64         `json:"speed"`
	Position geom.Point      `json:"position"`
	Heading  float64         `json:"heading"` // degrees
	Status   game.Status     `json:"status"`
	Events   []vehicle.Event `json:"events,omitempty"`
	// Probe is the corridor test that sent the car off the track.
	Probe *corridor.Probe `json:"probe,omitempty"`
}

// SimulationLog is the complete output of a simulation run.
type SimulationLog struct {
	Meta        SimulationMeta `json:"simulation_meta"`
	TrackLength float64        `json:"track_length"`
	Output      []FrameLog     `json:"output"`
}

// Racer is the headless simulation state.
type Racer struct {
	meta        SimulationMeta
	sampler     *track.Sampler
	session     *game.Session
	throttle    []ThrottleWindow
	autoRestart bool
	frame       int
}
