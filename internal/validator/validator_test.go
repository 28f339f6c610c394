package validator_test

import (
	"errors"
	"testing"

	"github.com/natsuneko-laboratory/constraint-by-humanoid/internal/validator"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScene(t *testing.T) *domain.Scene {
	t.Helper()
	s := domain.NewScene("validator")
	add := func(parent domain.NodeID, n domain.Node) {
		_, err := s.Add(parent, n)
		require.NoError(t, err)
	}
	add("", domain.Node{ID: "a", Name: "AvatarA", Components: []string{domain.ComponentAnimator}})
	add("a", domain.Node{ID: "a/arm", Name: "Armature"})
	add("", domain.Node{ID: "b", Name: "AvatarB", Animator: &domain.Animator{}})
	add("b", domain.Node{ID: "b/body", Name: "Body"})
	add("b/body", domain.Node{ID: "b/arm", Name: "ARMATURE"})
	add("", domain.Node{ID: "bare", Name: "Bare"})
	add("", domain.Node{ID: "armature", Name: "armature"})
	return s
}

func TestCheckSkeleton(t *testing.T) {
	scene := newScene(t)

	assert.Empty(t, validator.CheckSkeleton(scene, "a"))
	assert.Empty(t, validator.CheckSkeleton(scene, "b"), "armature match is case-insensitive and may be nested")

	assert.Equal(t, []string{
		"`Bare` must have an Animator Component",
		"`Bare` must have an Armature GameObject as a child",
	}, validator.CheckSkeleton(scene, "bare"))

	assert.Equal(t, []string{"`armature` must have an Animator Component"},
		validator.CheckSkeleton(scene, "armature"), "the root itself counts as the armature")

	assert.Equal(t, []string{"`ghost` does not exist in the scene"}, validator.CheckSkeleton(scene, "ghost"))
}

func TestPreconditions(t *testing.T) {
	scene := newScene(t)

	tests := []struct {
		name     string
		src, dst domain.NodeID
		want     []string
	}{
		{"valid", "a", "b", []string{}},
		{"nothing set", "", "", []string{validator.MsgSourceUnset, validator.MsgDestinationUnset}},
		{"source unset", "", "b", []string{validator.MsgSourceUnset}},
		{"destination unset", "a", "", []string{validator.MsgDestinationUnset}},
		{"same root", "a", "a", []string{validator.MsgSameRoot}},
		{
			"same invalid root is reported once",
			"bare", "bare",
			[]string{
				"`Bare` must have an Animator Component",
				"`Bare` must have an Armature GameObject as a child",
				validator.MsgSameRoot,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validator.Preconditions(scene, tt.src, tt.dst))
		})
	}
}

func TestCheck(t *testing.T) {
	scene := newScene(t)
	require.NoError(t, validator.Check(scene, "a", "b"))

	err := validator.Check(scene, "a", "a")
	var pe *domain.PreconditionError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, []string{validator.MsgSameRoot}, pe.Messages)
}

func TestPreconditions_NilScene(t *testing.T) {
	assert.Equal(t, []string{validator.MsgNoScene}, validator.Preconditions(nil, "a", "b"))

	var pe *domain.PreconditionError
	require.True(t, errors.As(validator.Check(nil, "a", "b"), &pe))
	assert.Equal(t, []string{validator.MsgNoScene}, pe.Messages)
}
