package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"
)

// Store implements ports.SceneStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Scene
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Scene),
	}
}

// Save persists the scene in memory.
func (s *Store) Save(ctx context.Context, sceneID string, scene *domain.Scene) error {
	// Deep copy to ensure isolation, similar to serialization
	copied := scene.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sceneID] = copied
	return nil
}

// Load retrieves the scene from memory.
func (s *Store) Load(ctx context.Context, sceneID string) (*domain.Scene, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	scene, ok := s.data[sceneID]
	if !ok {
		return nil, domain.ErrSceneNotFound
	}

	// Copy on read so callers can't mutate store state directly by pointer
	return scene.Clone(), nil
}

// Delete removes the scene.
func (s *Store) Delete(ctx context.Context, sceneID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sceneID)
	return nil
}

// List returns stored scene IDs in sorted order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
