package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"
)

// Library implements ports.SceneSource over a fixed set of scenes.
// It is immutable after construction.
type Library struct {
	scenes map[string]*domain.Scene
}

// NewLibrary creates a library from scenes. Every scene needs a unique, non-empty ID.
func NewLibrary(scenes ...*domain.Scene) (*Library, error) {
	data := make(map[string]*domain.Scene, len(scenes))
	for _, s := range scenes {
		if s == nil || s.ID == "" {
			return nil, fmt.Errorf("%w: scene missing ID", domain.ErrInvalidScene)
		}
		if _, dup := data[s.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate scene %s", domain.ErrInvalidScene, s.ID)
		}
		data[s.ID] = s.Clone()
	}
	return &Library{scenes: data}, nil
}

// Get returns a copy of the scene with the given ID.
func (l *Library) Get(ctx context.Context, sceneID string) (*domain.Scene, error) {
	s, ok := l.scenes[sceneID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSceneNotFound, sceneID)
	}
	return s.Clone(), nil
}

// List returns all scene IDs.
func (l *Library) List(ctx context.Context) ([]string, error) {
	keys := make([]string, 0, len(l.scenes))
	for k := range l.scenes {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys, nil
}
