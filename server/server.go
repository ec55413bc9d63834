// Package server exposes a running simulation over HTTP: JSON snapshots of
// fleet and booking state, run metrics, and a websocket stream of transition
// records as they are emitted.
package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"

	"fleetsim/model"
	"fleetsim/sim"
)

// Options configures the server instance.
type Options struct {
	Addr         string
	DurationMins float64
	// TickDelay paces the simulation so live consumers can follow it.
	TickDelay time.Duration
}

// vehicleView is the wire shape of one vehicle in a state snapshot.
type vehicleView struct {
	ID    string  `json:"id"`
	State string  `json:"state"`
	Lon   float64 `json:"lon"`
	Lat   float64 `json:"lat"`
	ETA   int     `json:"eta"`
}

// stateView is the wire shape of a per-tick snapshot.
type stateView struct {
	ClockTime int           `json:"clock_time"`
	Vehicles  []vehicleView `json:"vehicles"`
	Pending   int           `json:"pending_bookings"`
	Running   bool          `json:"running"`
}

// Server runs one simulation and serves its live state. The kernel is
// single-threaded; handlers only read snapshots taken at tick boundaries.
type Server struct {
	ctx      sim.Context
	sim      *sim.Simulator
	demand   sim.Demand
	memory   *model.MemoryRecorder
	stream   Subscriber
	opt      Options
	upgrader websocket.Upgrader

	mu          sync.RWMutex
	state       stateView
	transitions []model.Transition
}

// Subscriber hands out channels of live transition records.
type Subscriber interface {
	Subscribe() chan model.Transition
	Unsubscribe(chan model.Transition)
}

// New creates a server around a prepared simulation.
func New(ctx sim.Context, simulator *sim.Simulator, demand sim.Demand, memory *model.MemoryRecorder, stream Subscriber, opt Options) *Server {
	return &Server{
		ctx:    ctx,
		sim:    simulator,
		demand: demand,
		memory: memory,
		stream: stream,
		opt:    opt,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Run starts the paced simulation in the background and serves HTTP until
// the listener fails.
func (s *Server) Run() error {
	s.sim.AfterTick = func(int) {
		s.snapshot(true)
		if s.opt.TickDelay > 0 {
			time.Sleep(s.opt.TickDelay)
		}
	}

	go func() {
		if err := s.sim.Simulate(s.demand, s.opt.DurationMins); err != nil {
			log.Printf("simulation failed: %v", err)
		}
		s.snapshot(false)
		log.Printf("simulation finished at tick %d", s.ctx.Clock.Now())
	}()

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/api/state", s.handleState)
	r.Get("/api/metrics", s.handleMetrics)
	r.Get("/ws", s.handleStream)

	log.Printf("listening on %s", s.opt.Addr)
	return http.ListenAndServe(s.opt.Addr, r)
}

// snapshot captures the fleet and booking state at a tick boundary, before
// the simulation loop continues.
func (s *Server) snapshot(running bool) {
	view := stateView{
		ClockTime: s.ctx.Clock.Now(),
		Pending:   len(s.ctx.Bookings.GetPendingBookings()),
		Running:   running,
	}
	for _, v := range s.ctx.Fleet.GetOnlineVehicles() {
		var lon, lat float64
		if pos := v.Position(); pos != nil {
			lon, lat = pos.Coords()
		}
		eta, _ := v.ETA()
		view.Vehicles = append(view.Vehicles, vehicleView{
			ID:    v.ID,
			State: string(v.State()),
			Lon:   lon,
			Lat:   lat,
			ETA:   eta,
		})
	}

	s.mu.Lock()
	s.state = view
	s.transitions = append(s.transitions[:0], s.memory.Transitions...)
	s.mu.Unlock()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	view := s.state
	s.mu.RUnlock()
	writeJSON(w, view)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	transitions := append([]model.Transition(nil), s.transitions...)
	s.mu.RUnlock()
	writeJSON(w, sim.BuildReport(transitions, s.ctx.Clock))
}

// handleStream upgrades to a websocket and forwards live transition records
// until the client goes away or the stream closes.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ch := s.stream.Subscribe()
	defer s.stream.Unsubscribe(ch)

	for t := range ch {
		if err := conn.WriteJSON(t); err != nil {
			return
		}
	}
	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "simulation finished"))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}
