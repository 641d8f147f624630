package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/cxd309/racer-engine/internal/geom"
	"github.com/cxd309/racer-engine/internal/protocol"
)

type trackResponse struct {
	Length   float64           `json:"length"`
	Outline  []geom.Point      `json:"outline"`
	// Encoding is what /ws speaks, so a viewer can check it before dialling.
	Encoding protocol.Encoding `json:"encoding"`
}

// NewHandler serves the host: /health, /track, /ws, and the static files
// in assetsDir at / when assetsDir is not empty.
func NewHandler(h *Host, assetsDir string) http.Handler {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/track", func(w http.ResponseWriter, r *http.Request) {
		data, err := json.Marshal(trackResponse{
			Length:   h.sampler.Length(),
			Outline:  h.sampler.Outline(),
			Encoding: h.enc,
		})
		if err != nil {
			http.Error(w, "failed to encode", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Printf("upgrade failed for %s: %v", r.RemoteAddr, err)
			return
		}
		serveConn(h, newWSConn(conn, h.enc.Binary()))
	})

	if assetsDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(assetsDir)))
	}
	return mux
}

// serveConn subscribes c and feeds its messages to the host until the
// connection fails or the host stops.
func serveConn(h *Host, c *wsConn) {
	defer c.Close()

	reply := make(chan JoinResult, 1)
	if !h.Submit(Join{Conn: c, Reply: reply}) {
		return
	}
	var id int
	select {
	case res := <-reply:
		id = res.ClientID
	case <-h.Done():
		return
	}
	if id == 0 {
		return
	}

	stop := make(chan struct{})
	defer close(stop)
	go c.pingLoop(stop)

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			h.Submit(Leave{ClientID: id})
			return
		}
		cmd, err := decodeCommand(h.enc, payload)
		if err != nil {
			h.logger.Printf("client %d: discarding message: %v", id, err)
			continue
		}
		if !h.Submit(cmd) {
			return
		}
	}
}

func decodeCommand(enc protocol.Encoding, payload []byte) (any, error) {
	env, err := enc.DecodeEnvelope(payload)
	if err != nil {
		return nil, err
	}
	switch env.T {
	case protocol.MsgInput:
		in, err := protocol.DecodePayload[protocol.Input](enc, env)
		if err != nil {
			return nil, err
		}
		return Throttle{On: in.Throttle}, nil
	case protocol.MsgRestart:
		if _, err := protocol.DecodePayload[protocol.Restart](enc, env); err != nil {
			return nil, err
		}
		return Restart{}, nil
	default:
		return nil, fmt.Errorf("unknown message type %q", env.T)
	}
}
