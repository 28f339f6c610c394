package ports

import (
	"context"

	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"
)

// SceneStore defines the interface for persisting scenes between apply operations.
// Persisting the constraints that were attached is what makes repeated applies idempotent.
type SceneStore interface {
	// Save persists the scene under the given ID.
	Save(ctx context.Context, sceneID string, scene *domain.Scene) error

	// Load retrieves the scene for a given ID.
	// Returns domain.ErrSceneNotFound if the scene does not exist.
	Load(ctx context.Context, sceneID string) (*domain.Scene, error)

	// Delete removes the scene for a given ID.
	Delete(ctx context.Context, sceneID string) error

	// List returns the IDs of all stored scenes.
	List(ctx context.Context) ([]string, error)
}

// SceneSource is a read-only catalogue of scenes.
type SceneSource interface {
	// Get loads the scene with the given ID.
	// Returns domain.ErrSceneNotFound if the scene does not exist.
	Get(ctx context.Context, sceneID string) (*domain.Scene, error)

	// List returns the IDs of all available scenes in a deterministic order.
	List(ctx context.Context) ([]string, error)
}
