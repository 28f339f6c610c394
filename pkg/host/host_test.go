package host_test

import (
	"testing"

	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFamily(t *testing.T) {
	tests := map[string]host.Family{
		"":       host.VRChat,
		"VRChat": host.VRChat,
		" vrc ":  host.VRChat,
		"unity":  host.Unity,
		"UNITY":  host.Unity,
	}
	for in, want := range tests {
		got, err := host.ParseFamily(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := host.ParseFamily("unreal")
	assert.Error(t, err)
}

func TestFamily_TypeName(t *testing.T) {
	assert.Equal(t, "VRCLookAtConstraint", host.VRChat.TypeName(domain.KindLookAt))
	assert.Equal(t, "VRCScaleConstraint", host.VRChat.TypeName(domain.KindScale))
	assert.Equal(t, "AimConstraint", host.Unity.TypeName(domain.KindAim))
	assert.Equal(t, "ParentConstraint", host.Unity.TypeName(domain.KindParent))
	assert.Empty(t, host.Unity.TypeName(domain.ConstraintKind(-1)))
}

func TestCapabilities(t *testing.T) {
	scene := domain.NewScene("host")
	_, err := scene.Add("", domain.Node{ID: "src", Name: "Source"})
	require.NoError(t, err)
	_, err = scene.Add("", domain.Node{ID: "dst", Name: "Destination"})
	require.NoError(t, err)

	caps := host.Capabilities(scene, host.VRChat)
	require.Len(t, caps, len(domain.ConstraintKinds()))

	rot, ok := caps.Lookup(domain.KindRotation)
	require.True(t, ok)
	assert.Equal(t, "VRCRotationConstraint", rot.TypeName)
	assert.Equal(t, "Destination", rot.Name("dst"))

	assert.False(t, rot.Has("dst"))
	require.NoError(t, rot.Attach("dst", "src", domain.DefaultWeight))
	assert.True(t, rot.Has("dst"))

	dst, _ := scene.Node("dst")
	require.Len(t, dst.Constraints, 1)
	assert.Equal(t, domain.Constraint{
		Type:    "VRCRotationConstraint",
		Kind:    domain.KindRotation,
		Sources: []domain.ConstraintSource{{Node: "src", Weight: 1.0}},
		Active:  true,
	}, dst.Constraints[0])

	t.Run("Families are independent", func(t *testing.T) {
		unity, _ := host.Capabilities(scene, host.Unity).Lookup(domain.KindRotation)
		assert.False(t, unity.Has("dst"))
	})

	t.Run("Untyped constraints match every family", func(t *testing.T) {
		src, _ := scene.Node("src")
		src.Constraints = append(src.Constraints, domain.Constraint{Kind: domain.KindAim, Active: true})
		for _, family := range host.Families() {
			aim, _ := host.Capabilities(scene, family).Lookup(domain.KindAim)
			assert.True(t, aim.Has("src"), family)
			scale, _ := host.Capabilities(scene, family).Lookup(domain.KindScale)
			assert.False(t, scale.Has("src"), family)
		}
	})

	t.Run("Kinds are independent", func(t *testing.T) {
		pos, _ := caps.Lookup(domain.KindPosition)
		assert.False(t, pos.Has("dst"))
	})

	t.Run("Unknown nodes", func(t *testing.T) {
		assert.ErrorIs(t, rot.Attach("ghost", "src", 1), domain.ErrNodeNotFound)
		assert.ErrorIs(t, rot.Attach("dst", "ghost", 1), domain.ErrNodeNotFound)
		assert.False(t, rot.Has("ghost"))
	})
}
