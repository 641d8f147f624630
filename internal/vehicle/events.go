package vehicle

import "math"

// EventKind names a lifecycle event emitted by Car.Step.
type EventKind string

const (
	// EventRunning is emitted for every frame that commits a new on-track
	// position.
	EventRunning EventKind = "vehicle_running"
	// EventExited is emitted once when the vehicle leaves the corridor.
	EventExited EventKind = "vehicle_exited"
	// EventCrashEnded is emitted once when an exit trajectory has run out of
	// speed.
	EventCrashEnded EventKind = "vehicle_crash_ended"
)

// Event is delivered in the order it was produced within a frame, and
// frames are delivered in order.
type Event struct {
	Kind       EventKind `json:"kind"`
	Frame      int       `json:"frame"`
	ScoreDelta int       `json:"score_delta,omitempty"` // EventRunning only
}

// Score returns the points earned by one running frame at speed v. It is
// negative for speeds that round to zero.
func Score(v float64) int {
	return int(math.Round(ScorePerSpeed*v)) - 1
}
