package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/mbt/internal/logging"
	"github.com/aretw0/mbt/internal/presentation/graph"
	"github.com/aretw0/mbt/pkg/domain"
	"github.com/aretw0/mbt/pkg/machine"
	"github.com/aretw0/mbt/pkg/ports"
	"github.com/aretw0/mbt/pkg/runner"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// machineProvider is implemented by engines exposing their machine, which
// enables the coverage overlay on GET /graph.
type machineProvider interface {
	Machine() machine.Machine
}

// Server serves one engine to a remote test harness (online mode).
// Engine access is serialised: engines are not safe for concurrent use.
type Server struct {
	mu      sync.Mutex
	engine  ports.Engine
	streams *StreamManager
	logger  *slog.Logger
	version string
	metrics prometheus.Gatherer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithVersion sets the version reported by GET /info.
func WithVersion(version string) Option {
	return func(s *Server) { s.version = version }
}

// WithMetrics exposes the gatherer on GET /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) { s.metrics = g }
}

// NewServer creates a Server for the engine.
func NewServer(engine ports.Engine, opts ...Option) *Server {
	s := &Server{
		engine:  engine,
		streams: NewStreamManager(),
		logger:  logging.NewNop(),
		version: "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine ports.Engine, opts ...Option) http.Handler {
	return NewServer(engine, opts...).Routes()
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/has-next", s.HasNext)
	r.Post("/next", s.Next)
	r.Post("/backtrack", s.Backtrack)
	r.Get("/statistics", s.GetStatistics)
	r.Get("/data/{name}", s.GetData)
	r.Post("/exec", s.Exec)
	r.Get("/graph", s.GetGraph)
	r.Get("/events", s.SubscribeEvents)
	if s.metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.metrics, promhttp.HandlerOpts{}))
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// HasNextResponse is the body of GET /has-next.
type HasNextResponse struct {
	HasNext bool `json:"has_next"`
}

// StateResponse is the body of POST /backtrack.
type StateResponse struct {
	State string `json:"state"`
}

// DataResponse is the body of GET /data/{name}.
type DataResponse struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ExecRequest is the body of POST /exec.
type ExecRequest struct {
	Script string `json:"script"`
}

// ExecResponse is the body of POST /exec.
type ExecResponse struct {
	Value string `json:"value"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HasNext handles GET /has-next.
func (s *Server) HasNext(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := HasNextResponse{HasNext: s.engine.HasNextStep()}
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, resp)
}

// Next handles POST /next: one generated step, broadcast to /events subscribers.
func (s *Server) Next(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	if !s.engine.HasNextStep() {
		s.mu.Unlock()
		s.writeError(w, http.StatusConflict, errors.New("generation is finished"))
		return
	}
	step, err := s.engine.NextStep()
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, statusOf(err), err)
		return
	}

	if payload, err := json.Marshal(step); err == nil {
		s.streams.Broadcast(string(payload))
	}
	s.writeJSON(w, http.StatusOK, step)
}

// Backtrack handles POST /backtrack.
func (s *Server) Backtrack(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	err := s.engine.Backtrack()
	var state string
	if err == nil {
		state = currentState(s.engine)
	}
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, statusOf(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, StateResponse{State: state})
}

// GetStatistics handles GET /statistics?format=plain|compact|verbose.
func (s *Server) GetStatistics(w http.ResponseWriter, r *http.Request) {
	format, err := runner.ParseStatisticsFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.mu.Lock()
	stats := runner.Statistics(s.engine, format)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, stats)
}

// GetData handles GET /data/{name}.
func (s *Server) GetData(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	s.mu.Lock()
	value, err := s.engine.DataValue(name)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, statusOf(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, DataResponse{Name: name, Value: value})
}

// Exec handles POST /exec.
func (s *Server) Exec(w http.ResponseWriter, r *http.Request) {
	var body ExecRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.Script) == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("invalid request body: expected {\"script\": \"...\"}"))
		return
	}
	s.mu.Lock()
	value, err := s.engine.ExecAction(body.Script)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, statusOf(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, ExecResponse{Value: value})
}

// GetGraph handles GET /graph: the model as a Mermaid flowchart with the
// coverage overlay when the engine exposes its machine.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	var overlay *graph.GraphOverlay
	if mp, ok := s.engine.(machineProvider); ok {
		overlay = graph.OverlayFrom(mp.Machine())
	}
	chart := graph.GenerateMermaid(s.engine.Model(), overlay)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, chart)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := map[string]string{
		"app":       "mbt-http",
		"version":   s.version,
		"model":     s.engine.Model().Name,
		"generator": s.engine.GeneratorName(),
	}
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, resp)
}

// SubscribeEvents handles the GET /events request (SSE): one event per generated step.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, errors.New("streaming not supported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.streams.Subscribe()
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: step\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	} else {
		s.logger.Warn("request rejected", "err", err)
	}
	s.writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

// statusOf maps engine errors to HTTP status codes.
func statusOf(err error) int {
	var scriptErr *domain.ScriptError
	switch {
	case errors.As(err, &scriptErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidData):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDeadEnd), errors.Is(err, domain.ErrBacktrack), errors.Is(err, domain.ErrIllegalWalk):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func currentState(engine ports.Engine) string {
	if cs, ok := engine.(interface{ CurrentState() string }); ok {
		return cs.CurrentState()
	}
	return ""
}
