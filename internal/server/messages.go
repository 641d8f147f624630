package server

// Conn is the host's view of one subscriber.
type Conn interface {
	Send([]byte) error
	Close() error
}

// Join subscribes a connection to the frame stream. The host sends the
// welcome message on Conn before replying.
type Join struct {
	Conn  Conn
	Reply chan<- JoinResult
}

type JoinResult struct {
	ClientID int
}

// Leave is issued on disconnect.
type Leave struct {
	ClientID int
}

// Throttle sets the throttle level for the following frames.
type Throttle struct {
	On bool
}

// Restart starts a new game, keeping the best score.
type Restart struct{}
