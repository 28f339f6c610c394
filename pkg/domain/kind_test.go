package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConstraintKind(t *testing.T) {
	tests := []struct {
		in   string
		want domain.ConstraintKind
	}{
		{"aim", domain.KindAim},
		{"LookAt", domain.KindLookAt},
		{"Look At Constraint", domain.KindLookAt},
		{"ParentConstraint", domain.KindParent},
		{"position", domain.KindPosition},
		{"ROTATION", domain.KindRotation},
		{"scale_constraint", domain.KindScale},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := domain.ParseConstraintKind(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "constraint", "twist", "rotations"} {
		_, err := domain.ParseConstraintKind(bad)
		assert.ErrorIs(t, err, domain.ErrUnknownConstraintKind, bad)
	}
}

func TestConstraintKind_Names(t *testing.T) {
	assert.Equal(t, "lookat", domain.KindLookAt.String())
	assert.Equal(t, "LookAtConstraint", domain.KindLookAt.TypeName())
	assert.Equal(t, "Look At Constraint", domain.KindLookAt.DisplayName())
	assert.Equal(t, "Aim Constraint", domain.KindAim.DisplayName())
	assert.Len(t, domain.ConstraintKinds(), 6)
	assert.False(t, domain.ConstraintKind(6).Valid())
}

func TestConstraintKind_JSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Kind domain.ConstraintKind `json:"kind"`
	}{domain.KindRotation})
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"rotation"}`, string(data))

	_, err = json.Marshal(domain.ConstraintKind(42))
	assert.Error(t, err)

	var k domain.ConstraintKind
	err = json.Unmarshal([]byte(`"wobble"`), &k)
	assert.ErrorIs(t, err, domain.ErrUnknownConstraintKind)
}
