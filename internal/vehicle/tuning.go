package vehicle

const (
	Acceleration    = 0.8  // speed gained per throttled frame
	Friction        = 0.9  // per-frame coasting multiplier
	MaxSpeed        = 20.0 // arc length per frame
	SlidingFriction = 4.1  // grip used by the corridor test
	ExitRotation    = 60.0 // degrees of spin imparted when leaving the track
	StoppedSpeed    = 0.1  // below this the vehicle counts as stopped
	ExitLineScale   = 50.0 // exit line length per unit of speed
	ScorePerSpeed   = 5.0  // points per frame per unit of speed
)
