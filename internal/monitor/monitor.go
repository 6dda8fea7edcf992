// Package monitor broadcasts a running simulation's snapshots to
// connected WebSocket clients, for live observation while a run is in
// progress.
package monitor

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"dumbbellgas/internal/sim"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Frame is the JSON payload pushed to every connected client: the
// simulation time, per-particle positions/directions, and the running
// population, mid-line current and gate-explosion counters.
type Frame struct {
	Type       string    `json:"type"`
	Time       float64   `json:"time"`
	X          []float64 `json:"x"`
	Y          []float64 `json:"y"`
	Dir        []float64 `json:"dir"`
	InLeft     int       `json:"in_left"`
	Counters   [4]int    `json:"counters"`
	Explosions [2]int    `json:"explosions"`
	Collision  uint64    `json:"num_collisions"`
}

func newFrame(t float64, particles []sim.Particle, inLeft int, counters [4]int, explosions [2]int, numCollisions uint64) Frame {
	f := Frame{
		Type:       "frame",
		Time:       t,
		X:          make([]float64, len(particles)),
		Y:          make([]float64, len(particles)),
		Dir:        make([]float64, len(particles)),
		InLeft:     inLeft,
		Counters:   counters,
		Explosions: explosions,
		Collision:  numCollisions,
	}
	for i, p := range particles {
		f.X[i] = p.Pos.X
		f.Y[i] = p.Pos.Y
		f.Dir[i] = p.Dir
	}
	return f
}

// Hub fans frames out to every subscriber connected over WebSocket. The
// zero value is not usable; construct with NewHub.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]chan Frame
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]chan Frame)}
}

// ServeHTTP upgrades the request to a WebSocket and streams frames to it
// until the client disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("monitor: upgrade:", err)
		return
	}

	ch := make(chan Frame, 8)
	h.mu.Lock()
	h.clients[conn] = ch
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		conn.Close()
	}()

	for frame := range ch {
		if err := conn.WriteJSON(frame); err != nil {
			return
		}
	}
}

// Broadcast pushes frame to every connected client, dropping it for any
// client whose outbound buffer is still full rather than blocking the
// simulation loop.
func (h *Hub) Broadcast(frame Frame) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, ch := range h.clients {
		select {
		case ch <- frame:
		default:
			log.Printf("monitor: dropping frame for slow client %s", conn.RemoteAddr())
		}
	}
}

// Close shuts down every client's send channel, ending their ServeHTTP
// loops.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, ch := range h.clients {
		close(ch)
		delete(h.clients, conn)
	}
}

// Snapshotter broadcasts a frame to hub, with counters read from a
// Simulation, at most once per minInterval of real (wall-clock) time.
type Snapshotter struct {
	hub          *Hub
	s            *sim.Simulation
	minInterval  time.Duration
	lastPushedAt time.Time
}

func NewSnapshotter(hub *Hub, s *sim.Simulation, minInterval time.Duration) *Snapshotter {
	return &Snapshotter{hub: hub, s: s, minInterval: minInterval}
}

// Snapshot is a sim.SnapshotFunc: pass it to Simulation.Update's snap
// argument, throttled so a fast-forwarding simulation doesn't flood
// slow WebSocket clients.
func (sn *Snapshotter) Snapshot(t float64, particles []sim.Particle) {
	now := time.Now()
	if now.Sub(sn.lastPushedAt) < sn.minInterval {
		return
	}
	sn.lastPushedAt = now
	sn.hub.Broadcast(newFrame(t, particles, sn.s.InLeft, sn.s.Counters(), sn.s.Explosions(), sn.s.NumCollisions))
}
