// Package daemon provides the long-running fuel log monitor service.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/theirongolddev/fburn/internal/estimator"
	"github.com/theirongolddev/fburn/internal/logger"
	"github.com/theirongolddev/fburn/internal/model"
	"github.com/theirongolddev/fburn/internal/pipeline"
	"github.com/theirongolddev/fburn/internal/store"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Config controls the daemon runtime behavior.
type Config struct {
	DataDir         string
	VehicleFilter   string
	UseCache        bool
	Interval        time.Duration
	Addr            string
	EventsBuffer    int
	RateLimitPerMin int

	Params pipeline.ParamsFunc
	Fastag pipeline.Fastag

	// Registry receives the Prometheus collectors; nil uses a private registry.
	Registry *prometheus.Registry
	// Publisher, when set, receives every event (e.g. MQTT).
	Publisher Publisher
}

// VehicleSnapshot is the compact state of one vehicle.
type VehicleSnapshot struct {
	Vehicle         string  `json:"vehicle"`
	Entries         int     `json:"entries"`
	EfficiencyKmpl  float64 `json:"efficiency_kmpl"`
	FuelLevelL      float64 `json:"fuel_level_l"`
	TankCapacityL   float64 `json:"tank_capacity_l"`
	DistanceToEmpty float64 `json:"distance_to_empty_km"`
	Fallback        bool    `json:"fallback"`
	TotalCost       float64 `json:"total_cost"`
	CostPerKm       float64 `json:"cost_per_km,omitempty"`
}

// Snapshot is the state of every monitored vehicle at one poll.
type Snapshot struct {
	At       time.Time         `json:"at"`
	Vehicles []VehicleSnapshot `json:"vehicles"`
}

// Delta captures what changed for one vehicle between polls.
type Delta struct {
	Vehicle         string  `json:"vehicle"`
	Entries         int     `json:"entries"`
	FuelLevelL      float64 `json:"fuel_level_l"`
	DistanceToEmpty float64 `json:"distance_to_empty_km"`
	TotalCost       float64 `json:"total_cost"`
	Removed         bool    `json:"removed,omitempty"`
}

func (d Delta) isZero() bool {
	return d.Entries == 0 &&
		d.FuelLevelL == 0 &&
		d.DistanceToEmpty == 0 &&
		d.TotalCost == 0 &&
		!d.Removed
}

// Event is emitted whenever the fuel snapshot changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Deltas    []Delta   `json:"deltas,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	InstanceID      string    `json:"instance_id"`
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	DataDir         string    `json:"data_dir"`
	VehicleFilter   string    `json:"vehicle_filter,omitempty"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg        Config
	instanceID string
	log        zerolog.Logger
	metrics    *Metrics
	registry   *prometheus.Registry
	limiter    *RateLimiter

	// load returns the current entries; replaced in tests.
	load func() ([]model.Entry, error)

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service with the provided config.
func New(cfg Config) (*Service, error) {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 30 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8797"
	}
	if cfg.Params == nil {
		cfg.Params = func(string) estimator.Params { return estimator.DefaultParams() }
	}
	reg := cfg.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m, err := NewMetrics(reg)
	if err != nil {
		return nil, fmt.Errorf("registering metrics: %w", err)
	}

	s := &Service{
		cfg:        cfg,
		instanceID: uuid.NewString(),
		log:        logger.New("daemon"),
		metrics:    m,
		registry:   reg,
		startedAt:  time.Now(),
		subs:       make(map[int]chan Event),
	}
	if cfg.RateLimitPerMin > 0 {
		s.limiter = NewRateLimiter(cfg.RateLimitPerMin, max(cfg.RateLimitPerMin/6, 5))
	}
	s.load = s.loadEntries
	return s, nil
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/stream", s.handleStream)
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	if s.limiter == nil {
		return mux
	}
	return s.limiter.Middleware(mux)
}

// Run starts HTTP endpoints and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info().Str("addr", s.cfg.Addr).Str("instance", s.instanceID).Msg("daemon started")

	// Seed initial snapshot so status is useful immediately.
	s.pollOnce()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if s.cfg.Publisher != nil {
				s.cfg.Publisher.Close()
			}
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.pollOnce()
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

func (s *Service) pollOnce() {
	entries, err := s.load()
	now := time.Now()
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = now
		s.pollCount++
		s.mu.Unlock()
		s.metrics.polls.WithLabelValues("error").Inc()
		s.log.Error().Err(err).Msg("poll failed")
		return
	}
	s.metrics.polls.WithLabelValues("ok").Inc()

	if s.cfg.VehicleFilter != "" {
		entries = pipeline.FilterByVehicle(entries, s.cfg.VehicleFilter)
	}
	snap := snapshotFromSummaries(pipeline.AggregateVehicles(entries, s.cfg.Params, s.cfg.Fastag), now)
	s.metrics.observe(snap)

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""

	if !prevExists {
		s.nextEventID++
		ev = Event{ID: s.nextEventID, Type: "snapshot", Timestamp: now, Snapshot: snap}
		publish = true
	} else if deltas := diffSnapshots(prev, snap); len(deltas) > 0 {
		s.nextEventID++
		ev = Event{ID: s.nextEventID, Type: "fuel_delta", Timestamp: now, Snapshot: snap, Deltas: deltas}
		publish = true
	}
	s.mu.Unlock()

	if publish {
		s.publishEvent(ev)
	}
}

func (s *Service) loadEntries() ([]model.Entry, error) {
	if s.cfg.UseCache {
		cache, err := store.Open(pipeline.CachePath())
		if err == nil {
			defer func() { _ = cache.Close() }()
			cr, loadErr := pipeline.LoadWithCache(s.cfg.DataDir, cache, nil)
			if loadErr == nil {
				return cr.Entries, nil
			}
			s.log.Warn().Err(loadErr).Msg("cached load failed, reparsing")
		}
	}

	result, err := pipeline.Load(s.cfg.DataDir, nil)
	if err != nil {
		return nil, err
	}
	return result.Entries, nil
}

func snapshotFromSummaries(stats []model.SummaryStats, at time.Time) Snapshot {
	snap := Snapshot{At: at, Vehicles: make([]VehicleSnapshot, 0, len(stats))}
	for _, st := range stats {
		vs := VehicleSnapshot{
			Vehicle:         st.Vehicle,
			Entries:         st.Entries,
			EfficiencyKmpl:  st.Efficiency,
			FuelLevelL:      st.FuelLevel,
			TankCapacityL:   st.TankCapacity,
			DistanceToEmpty: st.DistanceToEmpty,
			Fallback:        st.Fallback,
			TotalCost:       st.TotalCost,
		}
		if st.HasCostPerKm {
			vs.CostPerKm = st.CostPerKm
		}
		snap.Vehicles = append(snap.Vehicles, vs)
	}
	return snap
}

// diffSnapshots returns one delta per vehicle that was added, changed or
// removed. Float noise below 1e-9 is ignored.
func diffSnapshots(prev, curr Snapshot) []Delta {
	before := make(map[string]VehicleSnapshot, len(prev.Vehicles))
	for _, v := range prev.Vehicles {
		before[v.Vehicle] = v
	}

	var deltas []Delta
	for _, v := range curr.Vehicles {
		p := before[v.Vehicle]
		delete(before, v.Vehicle)
		d := Delta{
			Vehicle:         v.Vehicle,
			Entries:         v.Entries - p.Entries,
			FuelLevelL:      round(v.FuelLevelL - p.FuelLevelL),
			DistanceToEmpty: round(v.DistanceToEmpty - p.DistanceToEmpty),
			TotalCost:       round(v.TotalCost - p.TotalCost),
		}
		if !d.isZero() {
			deltas = append(deltas, d)
		}
	}
	for _, p := range prev.Vehicles {
		if _, gone := before[p.Vehicle]; gone {
			deltas = append(deltas, Delta{
				Vehicle:         p.Vehicle,
				Entries:         -p.Entries,
				FuelLevelL:      -p.FuelLevelL,
				DistanceToEmpty: -p.DistanceToEmpty,
				TotalCost:       -p.TotalCost,
				Removed:         true,
			})
		}
	}
	return deltas
}

func round(f float64) float64 {
	if math.Abs(f) < 1e-9 {
		return 0
	}
	return f
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()

	if s.cfg.Publisher != nil {
		if err := s.cfg.Publisher.Publish(ev); err != nil {
			s.log.Warn().Err(err).Int64("event", ev.ID).Msg("publish failed")
		}
	}
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		InstanceID:      s.instanceID,
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		DataDir:         s.cfg.DataDir,
		VehicleFilter:   s.cfg.VehicleFilter,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.snapshotStatus())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	writeSSE(w, Event{Type: "snapshot", Timestamp: time.Now(), Snapshot: s.snapshotStatus().Summary})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
