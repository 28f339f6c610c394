package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/ports"
)

// SceneSourceContractTest is a reusable test suite that verifies if an adapter complies with ports.SceneSource.
// expected maps each scene ID the source must serve to the root IDs that scene must contain.
func SceneSourceContractTest(t *testing.T, source ports.SceneSource, expected map[string][]domain.NodeID) {
	t.Helper()
	ctx := context.Background()

	t.Run("Get_Success", func(t *testing.T) {
		for id, roots := range expected {
			scene, err := source.Get(ctx, id)
			if err != nil {
				t.Fatalf("unexpected error getting scene %s: %v", id, err)
			}
			for _, root := range roots {
				if _, ok := scene.Node(root); !ok {
					t.Errorf("scene %s is missing root %s", id, root)
				}
			}
		}
	})

	t.Run("Get_NotFound", func(t *testing.T) {
		_, err := source.Get(ctx, "non-existent-scene")
		if !errors.Is(err, domain.ErrSceneNotFound) {
			t.Errorf("expected ErrSceneNotFound for non-existent scene, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		ids, err := source.List(ctx)
		if err != nil {
			t.Fatalf("unexpected error listing scenes: %v", err)
		}

		if len(ids) != len(expected) {
			t.Errorf("expected %d scenes, got %d", len(expected), len(ids))
		}

		lookup := make(map[string]bool)
		for _, id := range ids {
			lookup[id] = true
		}
		for id := range expected {
			if !lookup[id] {
				t.Errorf("scene %s missing from list", id)
			}
		}
	})
}
