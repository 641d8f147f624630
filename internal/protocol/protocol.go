// Package protocol defines the messages exchanged between the live host and
// a viewer, and the envelope they travel in.
package protocol

import (
	"github.com/cxd309/racer-engine/internal/game"
	"github.com/cxd309/racer-engine/internal/geom"
	"github.com/cxd309/racer-engine/internal/vehicle"
)

const (
	MsgInput   = "input"
	MsgRestart = "restart"
	MsgWelcome = "welcome"
	MsgFrame   = "frame"
)

// Encoding selects how envelopes and payloads are serialised.
type Encoding string

const (
	EncodingJSON    Encoding = "json"
	EncodingMsgpack Encoding = "msgpack"
)

// Envelope is the outer frame of every message.
type Envelope struct {
	T string // message type
	P []byte // encoded payload
}

// client -> host

// Input carries the throttle as level state: held until the next Input.
type Input struct {
	Throttle bool `json:"throttle"`
}

// Restart asks for a new game.
type Restart struct{}

// host -> client

type Welcome struct {
	SessionID   string       `json:"session_id"`
	TickHz      int          `json:"tick_hz"`
	TrackLength float64      `json:"track_length"`
	Outline     []geom.Point `json:"outline,omitempty"`
}

type Frame struct {
	Frame    int             `json:"frame"`
	Phase    vehicle.Phase   `json:"phase"`
	Position geom.Point      `json:"position"`
	Heading  float64         `json:"heading"`
	Speed    float64         `json:"speed"`
	Status   game.Status     `json:"status"`
	Events   []vehicle.Event `json:"events,omitempty"`
}
