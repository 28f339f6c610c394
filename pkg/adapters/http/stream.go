package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/natsuneko-laboratory/constraint-by-humanoid/internal/logging"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"
)

// Watcher reports changed scene IDs, e.g. a file-backed scene library.
type Watcher interface {
	Watch(ctx context.Context) (<-chan string, error)
}

// EventType names what happened to a stored scene.
type EventType string

const (
	EventSaved   EventType = "saved"
	EventDeleted EventType = "deleted"
	EventApplied EventType = "applied"
)

// Event is one message on a scene stream.
type Event struct {
	Type   EventType      `json:"type"`
	Scene  string         `json:"scene"`
	Report *domain.Report `json:"report,omitempty"`
}

// StreamManager handles active SSE connections
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // SceneID -> Set of Channels
	logger      *slog.Logger
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
		logger:      logging.NewNop(),
	}
}

func (sm *StreamManager) Subscribe(sceneID string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[sceneID]; !ok {
		sm.subscribers[sceneID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[sceneID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[sceneID]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, sceneID)
			}
		}
	}
}

// Subscribers returns how many clients follow sceneID.
func (sm *StreamManager) Subscribers(sceneID string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[sceneID])
}

// Publish encodes evt and broadcasts it to the scene's subscribers.
func (sm *StreamManager) Publish(sceneID string, evt Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		sm.logger.Error("StreamManager: event encode failed", "scene_id", sceneID, "err", err)
		return
	}
	sm.Broadcast(sceneID, string(data))
}

func (sm *StreamManager) Broadcast(sceneID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	sm.logger.Debug("StreamManager: Broadcasting", "scene_id", sceneID, "payload_size", len(msg))

	for ch := range sm.subscribers[sceneID] {
		select {
		case ch <- msg:
		default:
			// Drop message if channel is full (slow client)
			sm.logger.Warn("SSE: Client buffer full, dropping message", "scene_id", sceneID)
		}
	}
}

// SubscribeEvents handles the GET /events request (SSE).
// With ?scene_id it streams events of that stored scene; without it, library changes.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "streaming not supported"})
		return
	}

	sceneID := r.URL.Query().Get("scene_id")
	var (
		messages <-chan string
		format   = "data: %s\n\n"
	)
	if sceneID != "" {
		ch, cancel := s.Streams.Subscribe(sceneID)
		defer cancel()
		messages = ch
		s.Logger.Info("SSE: Subscribing to scene updates", "scene_id", sceneID)
	} else {
		if s.Watcher == nil {
			s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "scene_id is required"})
			return
		}
		events, err := s.Watcher.Watch(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		messages = events
		format = "event: reload\ndata: %s\n\n"
		s.Logger.Info("SSE: Subscribing to library changes")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Info("SSE Client Disconnected")
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			fmt.Fprintf(w, format, msg)
			flusher.Flush()
		}
	}
}
