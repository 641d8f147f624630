// Package game holds the rules around the car: lives, points, the best
// score, and whether player input currently reaches the car.
package game

import "github.com/cxd309/racer-engine/internal/vehicle"

// StartingLives is the number of crashes that end a game.
const StartingLives = 5

// Status is a point-in-time snapshot of the session.
type Status struct {
	Lives        int  `json:"lives"`
	Points       int  `json:"points"`
	Best         int  `json:"best"`
	InputEnabled bool `json:"input_enabled"`
	Over         bool `json:"over"`
}

// Session drives one car and reacts to its events. Like the car, it is
// single-threaded: Tick, input and Restart must not run concurrently.
type Session struct {
	car    *vehicle.Car
	lives  int
	points int
	best   int
	input  bool
	over   bool
}

func NewSession(car *vehicle.Car) *Session {
	return &Session{car: car, lives: StartingLives, input: true}
}

// Car returns the session's car for read-only queries.
func (s *Session) Car() *vehicle.Car { return s.car }

// Accelerate presses the throttle if input is enabled.
func (s *Session) Accelerate() bool {
	return s.input && s.car.Accelerate()
}

// Brake releases the throttle if input is enabled.
func (s *Session) Brake() bool {
	return s.input && s.car.Brake()
}

// SetThrottle is Accelerate or Brake depending on on.
func (s *Session) SetThrottle(on bool) bool {
	if on {
		return s.Accelerate()
	}
	return s.Brake()
}

// Tick advances the car one frame and applies the game rules to the events
// it produced, which are returned in order.
func (s *Session) Tick() []vehicle.Event {
	events := s.car.Step()
	for _, e := range events {
		switch e.Kind {
		case vehicle.EventRunning:
			s.points += e.ScoreDelta
		case vehicle.EventExited:
			s.lives--
			s.input = false
		case vehicle.EventCrashEnded:
			s.crashEnded()
		}
	}
	return events
}

func (s *Session) crashEnded() {
	if s.lives > 0 {
		s.resume(true)
		s.input = true
		return
	}
	s.resume(false)
	s.over = true
	if s.points > s.best {
		s.best = s.points
	}
}

// resume ignores ErrNotCrashEnded: a Restart issued while the car was
// sliding has already put it back at the start.
func (s *Session) resume(inPlace bool) {
	_ = s.car.Resume(inPlace)
}

// Restart starts a new game on the same track, keeping the best score.
func (s *Session) Restart() {
	s.car.Reset()
	s.lives = StartingLives
	s.points = 0
	s.input = true
	s.over = false
}

func (s *Session) Status() Status {
	return Status{
		Lives:        s.lives,
		Points:       s.points,
		Best:         s.best,
		InputEnabled: s.input,
		Over:         s.over,
	}
}
