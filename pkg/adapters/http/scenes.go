package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	humanoid "github.com/natsuneko-laboratory/constraint-by-humanoid"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/codec"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"
)

// SceneList is the body of GET /scenes.
type SceneList struct {
	Scenes []string `json:"scenes"`
}

// ListScenes handles the GET /scenes request.
func (s *Server) ListScenes(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Scenes.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, SceneList{Scenes: ids})
}

// CreateScene handles the POST /scenes request. The body is a scene document;
// the scene is stored under a new ID.
func (s *Server) CreateScene(w http.ResponseWriter, r *http.Request) {
	data, ok := s.readBody(w, r)
	if !ok {
		return
	}
	scene, err := codec.Decode(data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id, err := s.Scenes.Create(r.Context(), scene)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/scenes/"+id)
	s.writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// GetScene handles the GET /scenes/{id} request. ?format=yaml returns YAML instead of JSON.
func (s *Server) GetScene(w http.ResponseWriter, r *http.Request) {
	scene, err := s.Scenes.Load(r.Context(), chi.URLParam(r, "sceneID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if r.URL.Query().Get("format") != string(codec.FormatYAML) {
		s.writeJSON(w, http.StatusOK, codec.FromScene(scene))
		return
	}
	data, err := codec.Encode(scene, codec.FormatYAML)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// PutScene handles the PUT /scenes/{id} request.
func (s *Server) PutScene(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sceneID")
	data, ok := s.readBody(w, r)
	if !ok {
		return
	}
	scene, err := codec.Decode(data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	scene.ID = id
	if err := s.Scenes.Save(r.Context(), id, scene); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.Streams.Publish(id, Event{Type: EventSaved, Scene: id})
	w.WriteHeader(http.StatusNoContent)
}

// DeleteScene handles the DELETE /scenes/{id} request.
func (s *Server) DeleteScene(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sceneID")
	if err := s.Scenes.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.Streams.Publish(id, Event{Type: EventDeleted, Scene: id})
	w.WriteHeader(http.StatusNoContent)
}

// ApplyScene handles the POST /scenes/{id}/apply request.
// The stored scene is updated and subscribers of the scene receive the report.
func (s *Server) ApplyScene(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sceneID")
	s.stored(w, r, "apply", func(req humanoid.ApplyRequest) (*domain.Report, error) {
		report, err := s.Scenes.Apply(r.Context(), id, req)
		if report != nil && len(report.Applied) > 0 {
			s.Streams.Publish(id, Event{Type: EventApplied, Scene: id, Report: report})
		}
		return report, err
	})
}

// PlanScene handles the POST /scenes/{id}/plan request.
func (s *Server) PlanScene(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sceneID")
	s.stored(w, r, "plan", func(req humanoid.ApplyRequest) (*domain.Report, error) {
		return s.Scenes.Plan(r.Context(), id, req)
	})
}

func (s *Server) stored(w http.ResponseWriter, r *http.Request, operation string, run func(humanoid.ApplyRequest) (*domain.Report, error)) {
	started := time.Now()
	var body ApplyBody
	if !s.readJSON(w, r, &body) {
		return
	}
	req, err := humanoid.ParseApplyRequest(body.Source, body.Destination, body.Exclude, body.Kind)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	report, err := run(req)
	s.observe(operation, started, err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ApplyResponse{Report: report})
}
