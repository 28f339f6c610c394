package ports

import (
	"context"
	"testing"
	"time"

	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractScene(id string) *domain.Scene {
	s := domain.NewScene(id)
	_, _ = s.Add("", domain.Node{
		ID:         "avatar",
		Name:       "Avatar",
		Components: []string{domain.ComponentAnimator},
		Animator: &domain.Animator{Humanoid: map[domain.BoneRole]domain.NodeID{
			domain.RoleHips: "hips",
		}},
	})
	_, _ = s.Add("avatar", domain.Node{ID: "armature", Name: "Armature"})
	_, _ = s.Add("armature", domain.Node{
		ID:        "hips",
		Name:      "Hips",
		Transform: domain.IdentityTransform(),
		Constraints: []domain.Constraint{{
			Type:    "VRCRotationConstraint",
			Kind:    domain.KindRotation,
			Sources: []domain.ConstraintSource{{Node: "src-hips", Weight: domain.DefaultWeight}},
			Active:  true,
		}},
	})
	return s
}

// RunSceneStoreContract runs a suite of tests to verify that a SceneStore implementation
// adheres to the defined interface contract.
func RunSceneStoreContract(t *testing.T, store SceneStore) {
	ctx := context.Background()
	sceneID := "contract-test-scene-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		scene := contractScene(sceneID)

		err := store.Save(ctx, sceneID, scene)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sceneID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, scene.Roots, loaded.Roots)

		hips, ok := loaded.Node("hips")
		require.True(t, ok)
		assert.Equal(t, domain.NodeID("armature"), hips.Parent)
		require.Len(t, hips.Constraints, 1)
		assert.Equal(t, domain.KindRotation, hips.Constraints[0].Kind)
		assert.Equal(t, domain.NodeID("src-hips"), hips.Constraints[0].Sources[0].Node)
		assert.True(t, hips.Constraints[0].Active)

		avatar, ok := loaded.Node("avatar")
		require.True(t, ok)
		require.NotNil(t, avatar.Animator)
		assert.Equal(t, domain.NodeID("hips"), avatar.Animator.Humanoid[domain.RoleHips])
	})

	t.Run("Load returns a copy", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sceneID, contractScene(sceneID)))

		first, err := store.Load(ctx, sceneID)
		require.NoError(t, err)
		hips, _ := first.Node("hips")
		hips.Constraints = nil

		second, err := store.Load(ctx, sceneID)
		require.NoError(t, err)
		hips, _ = second.Node("hips")
		assert.Len(t, hips.Constraints, 1, "mutating a loaded scene must not change the store")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sceneID)
		assert.ErrorIs(t, err, domain.ErrSceneNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sceneID, contractScene(sceneID)))

		err := store.Delete(ctx, sceneID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sceneID)
		assert.ErrorIs(t, err, domain.ErrSceneNotFound, "Load after Delete should return ErrSceneNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sceneID + "-1"
		id2 := sceneID + "-2"
		_ = store.Save(ctx, id1, contractScene(id1))
		_ = store.Save(ctx, id2, contractScene(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		scenes, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, scenes, id1)
		assert.Contains(t, scenes, id2)
	})
}
