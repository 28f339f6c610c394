package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	humanoid "github.com/natsuneko-laboratory/constraint-by-humanoid"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/internal/logging"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/codec"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/observability"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/workspace"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MaxBodyBytes caps request bodies. Scene documents are small; anything larger is rejected.
const MaxBodyBytes = 4 << 20

// Server serves the JSON API over a workspace.
type Server struct {
	Scenes   *workspace.Manager
	Streams  *StreamManager
	Metrics  *observability.Metrics
	Gatherer prometheus.Gatherer
	Watcher  Watcher
	Logger   *slog.Logger
}

// Option configures the Server built by NewHandler.
type Option func(*Server)

// WithMetrics records apply and plan durations into m.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.Metrics = m
	}
}

// WithGatherer exposes g on GET /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.Gatherer = g
	}
}

// WithWatcher streams library changes on GET /events when no scene_id is given.
func WithWatcher(w Watcher) Option {
	return func(s *Server) {
		s.Watcher = w
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.Logger = logger
		}
	}
}

// NewServer creates a Server over a workspace.
func NewServer(scenes *workspace.Manager, opts ...Option) *Server {
	s := &Server{
		Scenes:  scenes,
		Streams: NewStreamManager(),
		Logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams.logger = s.Logger
	return s
}

// NewHandler creates the HTTP handler for a workspace.
func NewHandler(scenes *workspace.Manager, opts ...Option) http.Handler {
	return NewServer(scenes, opts...).Handler()
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/roles", s.GetRoles)
	r.Get("/kinds", s.GetKinds)
	r.Post("/validate", s.Validate)
	r.Post("/apply", s.Apply)
	r.Post("/plan", s.Plan)
	r.Get("/events", s.SubscribeEvents)

	r.Route("/scenes", func(r chi.Router) {
		r.Get("/", s.ListScenes)
		r.Post("/", s.CreateScene)
		r.Route("/{sceneID}", func(r chi.Router) {
			r.Get("/", s.GetScene)
			r.Put("/", s.PutScene)
			r.Delete("/", s.DeleteScene)
			r.Post("/apply", s.ApplyScene)
			r.Post("/plan", s.PlanScene)
		})
	})

	if s.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ApplyBody is the body of POST /scenes/{id}/apply and /plan.
type ApplyBody struct {
	Source      string   `json:"source"`
	Destination string   `json:"destination"`
	Exclude     []string `json:"exclude,omitempty"`
	Kind        string   `json:"kind"`
}

// SceneBody is the body of the stateless POST /validate, /apply and /plan.
// Scene is a scene document in JSON form.
type SceneBody struct {
	Scene json.RawMessage `json:"scene"`
	ApplyBody
}

// ValidateResponse lists the precondition messages. OK is true when there are none.
type ValidateResponse struct {
	OK       bool     `json:"ok"`
	Messages []string `json:"messages"`
}

// ApplyResponse carries the report and, for POST /apply, the updated scene document.
type ApplyResponse struct {
	Report *domain.Report  `json:"report"`
	Scene  *codec.Document `json:"scene,omitempty"`
}

// ErrorResponse is written for every failed request.
type ErrorResponse struct {
	Error    string   `json:"error"`
	Messages []string `json:"messages,omitempty"`
}

// KindInfo describes one constraint kind as the server's family writes it.
type KindInfo struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Display string `json:"display"`
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "cbh-http",
		"version": strings.TrimSpace(humanoid.Version),
		"family":  string(s.Scenes.Engine().Family()),
	})
}

// GetRoles handles the GET /roles request.
func (s *Server) GetRoles(w http.ResponseWriter, r *http.Request) {
	roles := s.Scenes.Engine().Roles()
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = role.String()
	}
	s.writeJSON(w, http.StatusOK, names)
}

// GetKinds handles the GET /kinds request.
func (s *Server) GetKinds(w http.ResponseWriter, r *http.Request) {
	family := s.Scenes.Engine().Family()
	kinds := domain.ConstraintKinds()
	out := make([]KindInfo, len(kinds))
	for i, k := range kinds {
		out[i] = KindInfo{Name: k.String(), Type: family.TypeName(k), Display: k.DisplayName()}
	}
	s.writeJSON(w, http.StatusOK, out)
}

// Validate handles the POST /validate request.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	var body SceneBody
	if !s.readJSON(w, r, &body) {
		return
	}
	scene, err := decodeScene(body.Scene)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	msgs := s.Scenes.Engine().Validate(scene, domain.NodeID(body.Source), domain.NodeID(body.Destination))
	if msgs == nil {
		msgs = []string{}
	}
	s.writeJSON(w, http.StatusOK, ValidateResponse{OK: len(msgs) == 0, Messages: msgs})
}

// Apply handles the POST /apply request. The scene comes from the body and is returned updated.
func (s *Server) Apply(w http.ResponseWriter, r *http.Request) {
	s.stateless(w, r, "apply")
}

// Plan handles the POST /plan request.
func (s *Server) Plan(w http.ResponseWriter, r *http.Request) {
	s.stateless(w, r, "plan")
}

func (s *Server) stateless(w http.ResponseWriter, r *http.Request, operation string) {
	started := time.Now()
	var body SceneBody
	if !s.readJSON(w, r, &body) {
		return
	}
	scene, err := decodeScene(body.Scene)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	req, err := humanoid.ParseApplyRequest(body.Source, body.Destination, body.Exclude, body.Kind)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	eng := s.Scenes.Engine()
	var report *domain.Report
	if operation == "apply" {
		report, err = eng.Apply(r.Context(), scene, req)
	} else {
		report, err = eng.Plan(r.Context(), scene, req)
	}
	s.observe(operation, started, err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := ApplyResponse{Report: report}
	if operation == "apply" {
		resp.Scene = codec.FromScene(scene)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) observe(operation string, started time.Time, err error) {
	if s.Metrics != nil {
		s.Metrics.ObservePass(operation, started, err)
	}
}

func decodeScene(raw json.RawMessage) (*domain.Scene, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, fmt.Errorf("%w: scene is required", domain.ErrInvalidScene)
	}
	return codec.Decode(raw)
}
