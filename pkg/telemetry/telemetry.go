// Package telemetry exposes the simulated robot state to display
// collaborators: a JSON poll endpoint and a WebSocket push stream.
package telemetry

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Rani367/CodLess-sub002/pkg/sim"
)

const writeTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // local display clients only
	},
}

// Frame is the wire form of one telemetry sample.
type Frame struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Heading   float64 `json:"heading"`
	Arm1Angle float64 `json:"arm1_angle"`
	Arm2Angle float64 `json:"arm2_angle"`
	Speed     float64 `json:"speed"`
	Turn      float64 `json:"turn"`
	Ticks     uint64  `json:"ticks"`
}

func frameOf(s sim.Snapshot) Frame {
	return Frame{
		X:         s.X,
		Y:         s.Y,
		Heading:   s.Heading,
		Arm1Angle: s.Arm1Angle,
		Arm2Angle: s.Arm2Angle,
		Speed:     s.Speed.Actual,
		Turn:      s.Turn.Actual,
		Ticks:     s.Ticks,
	}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Server fans published snapshots out to HTTP and WebSocket consumers.
type Server struct {
	mu      sync.RWMutex
	latest  Frame
	seen    bool
	clients map[*client]struct{}
}

// NewServer returns a server with no published state yet.
func NewServer() *Server {
	return &Server{clients: make(map[*client]struct{})}
}

// Handler returns the HTTP surface: /api/state and /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/state", s.handleState)
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

// Publish records the snapshot and pushes it to every connected
// WebSocket client. Clients that cannot keep up are dropped.
func (s *Server) Publish(snap sim.Snapshot) {
	frame := frameOf(snap)
	data, err := json.Marshal(frame)
	if err != nil {
		return
	}

	s.mu.Lock()
	s.latest = frame
	s.seen = true
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			delete(s.clients, c)
			close(c.send)
		}
	}
	s.mu.Unlock()
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	frame, seen := s.latest, s.seen
	s.mu.RUnlock()

	if !seen {
		http.Error(w, "no state published yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(frame)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("telemetry: upgrade error: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 64)}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()

	go c.writePump()
	c.readPump(s)
}

func (s *Server) remove(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}
}

// readPump discards client input; it exists to notice disconnects.
func (c *client) readPump(s *Server) {
	defer func() {
		s.remove(c)
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	defer c.conn.Close()
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
