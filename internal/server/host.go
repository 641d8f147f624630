// Package server runs a live racer session and streams it to viewers over
// websockets.
package server

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/cxd309/racer-engine/internal/game"
	"github.com/cxd309/racer-engine/internal/protocol"
	"github.com/cxd309/racer-engine/internal/track"
	"github.com/cxd309/racer-engine/internal/vehicle"
)

const DefaultTickHz = 60

type Options struct {
	TickHz   int
	Encoding protocol.Encoding
	Logger   *log.Logger // nil discards
}

// Host owns one game session. Only Run touches the session: commands sent
// to Inbox are applied between frames, never during one.
type Host struct {
	Inbox chan any

	id      string
	session *game.Session
	sampler *track.Sampler
	tickHz  int
	enc     protocol.Encoding
	logger  *log.Logger

	clients map[int]Conn
	nextID  int
	done    chan struct{}
}

// NewLogger returns the host's logger, writing where the standard logger
// writes.
func NewLogger() *log.Logger {
	return log.New(log.Writer(), "[racer] ", log.LstdFlags)
}

func NewHost(session *game.Session, sampler *track.Sampler, opts Options) *Host {
	if opts.TickHz <= 0 {
		opts.TickHz = DefaultTickHz
	}
	if opts.Encoding == "" {
		opts.Encoding = protocol.EncodingJSON
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	return &Host{
		Inbox:   make(chan any, 256),
		id:      uuid.NewString(),
		session: session,
		sampler: sampler,
		tickHz:  opts.TickHz,
		enc:     opts.Encoding,
		logger:  opts.Logger,
		clients: make(map[int]Conn),
		nextID:  1,
		done:    make(chan struct{}),
	}
}

func (h *Host) SessionID() string { return h.id }

func (h *Host) Encoding() protocol.Encoding { return h.enc }

// Submit queues a command for the run loop. It reports false once the
// loop has stopped.
func (h *Host) Submit(cmd any) bool {
	select {
	case h.Inbox <- cmd:
		return true
	case <-h.done:
		return false
	}
}

// Done is closed when Run returns.
func (h *Host) Done() <-chan struct{} { return h.done }

// Run ticks the session until ctx is cancelled, then closes every
// subscriber.
func (h *Host) Run(ctx context.Context) {
	defer close(h.done)
	ticker := time.NewTicker(time.Second / time.Duration(h.tickHz))
	defer ticker.Stop()

	h.logger.Printf("session %s running at %d Hz", h.id, h.tickHz)
	for {
		select {
		case <-ctx.Done():
			for id := range h.clients {
				h.drop(id)
			}
			h.logger.Printf("session %s stopped", h.id)
			return
		case cmd := <-h.Inbox:
			h.handleCommand(cmd)
		case <-ticker.C:
			h.tick()
		}
	}
}

func (h *Host) handleCommand(cmd any) {
	switch c := cmd.(type) {
	case Join:
		id := h.nextID
		h.nextID++
		if err := h.welcome(c.Conn); err != nil {
			h.logger.Printf("client %d: welcome failed: %v", id, err)
			_ = c.Conn.Close()
			id = 0
		} else {
			h.clients[id] = c.Conn
			h.logger.Printf("client %d joined (%d watching)", id, len(h.clients))
		}
		c.Reply <- JoinResult{ClientID: id}
	case Leave:
		if _, ok := h.clients[c.ClientID]; ok {
			h.drop(c.ClientID)
			h.logger.Printf("client %d left (%d watching)", c.ClientID, len(h.clients))
		}
	case Throttle:
		h.session.SetThrottle(c.On)
	case Restart:
		h.session.Restart()
		h.logger.Printf("session %s restarted", h.id)
	default:
		h.logger.Printf("ignoring unknown command %T", cmd)
	}
}

func (h *Host) welcome(c Conn) error {
	w := protocol.Welcome{
		SessionID:   h.id,
		TickHz:      h.tickHz,
		TrackLength: h.sampler.Length(),
		Outline:     h.sampler.Outline(),
	}
	b, err := h.enc.Encode(protocol.MsgWelcome, w)
	if err != nil {
		return err
	}
	return c.Send(b)
}

func (h *Host) tick() {
	events := h.session.Tick()
	h.logEvents(events)
	h.broadcast(h.frame(events))
}

func (h *Host) frame(events []vehicle.Event) protocol.Frame {
	car := h.session.Car()
	st := car.State()
	return protocol.Frame{
		Frame:    car.Frame(),
		Phase:    car.Phase(),
		Position: st.Position,
		Heading:  st.Heading,
		Speed:    st.Speed,
		Status:   h.session.Status(),
		Events:   events,
	}
}

func (h *Host) logEvents(events []vehicle.Event) {
	for _, e := range events {
		switch e.Kind {
		case vehicle.EventExited:
			p := h.session.Car().LastProbe()
			h.logger.Printf("frame %d: left the track at %.2f (limit %.2f)", e.Frame, h.session.Car().Speed(), p.MaxSpeed)
		case vehicle.EventCrashEnded:
			st := h.session.Status()
			if st.Over {
				h.logger.Printf("frame %d: game over with %d points (best %d)", e.Frame, st.Points, st.Best)
			} else {
				h.logger.Printf("frame %d: crash ended, %d lives left", e.Frame, st.Lives)
			}
		}
	}
}

func (h *Host) broadcast(f protocol.Frame) {
	if len(h.clients) == 0 {
		return
	}
	b, err := h.enc.Encode(protocol.MsgFrame, f)
	if err != nil {
		h.logger.Printf("frame %d: encode failed: %v", f.Frame, err)
		return
	}

	var failed []int
	for id, c := range h.clients {
		if err := c.Send(b); err != nil {
			h.logger.Printf("client %d: send failed: %v", id, err)
			failed = append(failed, id)
		}
	}
	for _, id := range failed {
		h.drop(id)
	}
}

func (h *Host) drop(id int) {
	if c, ok := h.clients[id]; ok {
		_ = c.Close()
	}
	delete(h.clients, id)
}
