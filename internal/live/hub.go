// Package live streams sweep progress to websocket clients and serves the
// latest results over HTTP.
package live

import (
	"encoding/json"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"ising/pkg/sims/ising"
)

// Event types sent to clients.
const (
	EventProgression = "progression"
	EventCurves      = "curves"
	EventScatter     = "scatter"
)

// CurvePoint is one temperature entry of the running curves.
type CurvePoint struct {
	Temperature float64 `json:"temperature"`
	Avg         float64 `json:"avg"`
	Final       float64 `json:"final"`
}

// Event is the JSON message broadcast for every sink record.
type Event struct {
	Type        string        `json:"type"`
	Temperature float64       `json:"temperature,omitempty"`
	Series      []float64     `json:"series,omitempty"`
	Curves      []CurvePoint  `json:"curves,omitempty"`
	Kind        string        `json:"kind,omitempty"`
	Points      []ising.Point `json:"points,omitempty"`
}

const (
	sendBuffer = 64
	writeWait  = 5 * time.Second
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans events out to connected websocket clients. Broadcasting never
// blocks: a client whose buffer is full is disconnected. Hub implements
// ising.Sink.
type Hub struct {
	log *slog.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
	curves  []CurvePoint
}

var _ ising.Sink = (*Hub)(nil)

// NewHub returns an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{log: logger, clients: make(map[*client]struct{})}
}

// Curves returns the most recent curve snapshot ordered by temperature.
func (h *Hub) Curves() []CurvePoint {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]CurvePoint(nil), h.curves...)
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) RecordProgression(temperature float64, series []float64) error {
	return h.broadcast(Event{Type: EventProgression, Temperature: temperature, Series: series})
}

func (h *Hub) RecordCurves(avg, final map[float64]float64) error {
	points := make([]CurvePoint, 0, len(avg))
	for t, a := range avg {
		points = append(points, CurvePoint{Temperature: t, Avg: a, Final: final[t]})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Temperature < points[j].Temperature })

	h.mu.Lock()
	h.curves = points
	h.mu.Unlock()
	return h.broadcast(Event{Type: EventCurves, Curves: points})
}

func (h *Hub) RecordScatter(kind ising.ScatterKind, points []ising.Point) error {
	return h.broadcast(Event{Type: EventScatter, Kind: string(kind), Points: points})
}

func (h *Hub) broadcast(ev Event) error {
	msg, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.log.Warn("dropping slow websocket client", "remote", c.conn.RemoteAddr().String())
			delete(h.clients, c)
			close(c.send)
		}
	}
	return nil
}

func (h *Hub) add(conn *websocket.Conn) *client {
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// CloseAll disconnects every client.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) serve(conn *websocket.Conn) {
	c := h.add(conn)
	go h.readLoop(c)
	defer conn.Close()
	for msg := range c.send {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.remove(c)
			return
		}
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}

// readLoop discards client messages and unregisters the client once the
// connection closes.
func (h *Hub) readLoop(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			h.remove(c)
			return
		}
	}
}
