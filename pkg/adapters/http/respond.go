package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"
)

// StatusFor maps an error returned by the engine or the workspace to an HTTP status.
func StatusFor(err error) int {
	var pre *domain.PreconditionError
	switch {
	case errors.As(err, &pre):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrUnknownConstraintKind),
		errors.Is(err, domain.ErrUnknownBoneRole),
		errors.Is(err, domain.ErrInvalidScene):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSceneNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	resp := ErrorResponse{Error: err.Error()}

	var pre *domain.PreconditionError
	if errors.As(err, &pre) {
		resp.Messages = pre.Messages
	}

	if status >= http.StatusInternalServerError {
		s.Logger.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "err", err)
	} else {
		s.Logger.WarnContext(r.Context(), "Request rejected", "path", r.URL.Path, "status", status, "err", err)
	}
	s.writeJSON(w, status, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("Response encode failed", "err", err)
	}
}

func (s *Server) readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes)).Decode(v); err != nil {
		s.Logger.WarnContext(r.Context(), "Invalid request body", "path", r.URL.Path, "err", err)
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		s.writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: "request body too large"})
		return nil, false
	}
	return data, true
}
