// Package server exposes projection sessions over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/theirongolddev/lifesim/internal/cli"
	"github.com/theirongolddev/lifesim/internal/model"
	"github.com/theirongolddev/lifesim/internal/projection"
	"github.com/theirongolddev/lifesim/internal/scenario"
)

// Config controls the service runtime behavior.
type Config struct {
	Addr         string
	MaxSessions  int
	IdleTimeout  time.Duration // 0 keeps sessions until deleted
	EventsBuffer int
	Logger       *slog.Logger
}

// Event is emitted whenever a session changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id"`
	Detail    string    `json:"detail,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	Sessions        int       `json:"sessions"`
	MaxSessions     int       `json:"max_sessions"`
	IdleTimeoutSec  int       `json:"idle_timeout_sec"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// session guards one engine; engines are not safe for concurrent use.
type session struct {
	mu       sync.Mutex
	engine   *projection.Engine
	created  time.Time
	lastUsed time.Time
}

// Service provides the session store and HTTP API.
type Service struct {
	cfg     Config
	log     *slog.Logger
	reg     *prometheus.Registry
	metrics *metrics

	mu          sync.RWMutex
	startedAt   time.Time
	sessions    map[string]*session
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

var (
	errNotFound  = errors.New("session not found")
	errCapacity  = errors.New("session limit reached")
	requestCheck = validator.New()
)

// New returns a service with the provided config.
func New(cfg Config) *Service {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8788"
	}
	if cfg.MaxSessions < 1 {
		cfg.MaxSessions = 100
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	reg := prometheus.NewRegistry()
	return &Service{
		cfg:       cfg,
		log:       log,
		reg:       reg,
		metrics:   newMetrics(reg),
		startedAt: time.Now(),
		sessions:  make(map[string]*session),
		subs:      make(map[int]chan Event),
	}
}

// Handler returns the HTTP routes.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("GET /v1/events", s.handleEvents)
	mux.HandleFunc("GET /v1/stream", s.handleStream)
	mux.HandleFunc("GET /v1/sessions", s.handleListSessions)
	mux.HandleFunc("POST /v1/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /v1/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /v1/sessions/{id}", s.handleDeleteSession)
	mux.HandleFunc("POST /v1/sessions/{id}/expenses", s.handleAddItem(model.RoleExpense))
	mux.HandleFunc("POST /v1/sessions/{id}/incomes", s.handleAddItem(model.RoleIncome))
	mux.HandleFunc("GET /v1/sessions/{id}/balance", s.handleBalance)
	mux.HandleFunc("GET /v1/sessions/{id}/history", s.handleHistory)
	mux.HandleFunc("GET /v1/sessions/{id}/report", s.handleReport)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))
	return s.instrument(mux)
}

// Run serves HTTP until ctx is canceled, evicting idle sessions on a timer.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("listening", "addr", s.cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("lifesim http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	if s.cfg.IdleTimeout > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(max(s.cfg.IdleTimeout/4, time.Second))
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case now := <-ticker.C:
					s.evictIdle(now)
				}
			}
		})
	}
	return g.Wait()
}

// evictIdle drops sessions unused for longer than IdleTimeout.
func (s *Service) evictIdle(now time.Time) int {
	var evicted []string
	s.mu.Lock()
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := now.Sub(sess.lastUsed)
		sess.mu.Unlock()
		if idle > s.cfg.IdleTimeout {
			delete(s.sessions, id)
			evicted = append(evicted, id)
		}
	}
	s.metrics.sessions.Set(float64(len(s.sessions)))
	s.mu.Unlock()

	for _, id := range evicted {
		s.metrics.evicted.Inc()
		s.log.Debug("session evicted", "session", id)
		s.publishEvent("session_evicted", id, "")
	}
	return len(evicted)
}

func (s *Service) createSession(sc *scenario.Scenario, opts ...projection.Option) (string, *session, error) {
	engine, err := sc.Build(opts...)
	if err != nil {
		return "", nil, err
	}

	now := time.Now()
	sess := &session{engine: engine, created: now, lastUsed: now}
	id := uuid.NewString()

	s.mu.Lock()
	if len(s.sessions) >= s.cfg.MaxSessions {
		s.mu.Unlock()
		return "", nil, errCapacity
	}
	s.sessions[id] = sess
	s.metrics.sessions.Set(float64(len(s.sessions)))
	s.mu.Unlock()

	s.publishEvent("session_created", id, engine.Person().Name)
	return id, sess, nil
}

func (s *Service) lookup(id string) (*session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errNotFound
	}
	return sess, nil
}

func (s *Service) deleteSession(id string) bool {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.metrics.sessions.Set(float64(len(s.sessions)))
	s.mu.Unlock()
	if ok {
		s.publishEvent("session_deleted", id, "")
	}
	return ok
}

// withSession runs fn under the session lock and marks it used.
func (s *Service) withSession(w http.ResponseWriter, r *http.Request, fn func(id string, sess *session)) {
	id := r.PathValue("id")
	sess, err := s.lookup(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastUsed = time.Now()
	fn(id, sess)
}

func (s *Service) publishEvent(typ, sessionID, detail string) {
	s.mu.Lock()
	s.nextEventID++
	ev := Event{
		ID:        s.nextEventID,
		Type:      typ,
		Timestamp: time.Now(),
		SessionID: sessionID,
		Detail:    detail,
	}
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
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		Sessions:        len(s.sessions),
		MaxSessions:     s.cfg.MaxSessions,
		IdleTimeoutSec:  int(s.cfg.IdleTimeout.Seconds()),
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
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

// statusRecorder captures the response code for metrics.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (s *Service) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		s.metrics.requests.WithLabelValues(route, strconv.Itoa(rec.code)).Inc()
		s.metrics.latency.WithLabelValues(route).Observe(time.Since(start).Seconds())
		s.log.Debug("request", "method", r.Method, "path", r.URL.Path, "code", rec.code, "dur", time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

// requestedAge reads an age query parameter within cli.MaxAge.
func requestedAge(r *http.Request, key string) (int, bool, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, false, nil
	}
	age, err := cli.ParseAge(raw)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", key, err)
	}
	return age, true, nil
}
