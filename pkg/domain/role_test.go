package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalRoles_Order(t *testing.T) {
	roles := domain.CanonicalRoles()
	require.Len(t, roles, 54)

	assert.Equal(t, domain.RoleHips, roles[0])
	assert.Equal(t, domain.RoleUpperChest, roles[3])
	assert.Equal(t, domain.RoleLeftShoulder, roles[4])
	assert.Equal(t, domain.RoleRightEye, roles[23])
	assert.Equal(t, domain.RoleLeftThumbProximal, roles[24])
	assert.Equal(t, domain.RoleRightThumbProximal, roles[39])
	assert.Equal(t, domain.RoleRightLittleDistal, roles[53])

	// Returned slice is a copy.
	roles[0] = domain.RoleHead
	assert.Equal(t, domain.RoleHips, domain.CanonicalRoles()[0])
}

func TestParseBoneRole(t *testing.T) {
	tests := []struct {
		in   string
		want domain.BoneRole
	}{
		{"Hips", domain.RoleHips},
		{"hips", domain.RoleHips},
		{"left_upper_arm", domain.RoleLeftUpperArm},
		{"Left Upper Arm", domain.RoleLeftUpperArm},
		{"RIGHT-LITTLE-DISTAL", domain.RoleRightLittleDistal},
		{"upperchest", domain.RoleUpperChest},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := domain.ParseBoneRole(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := domain.ParseBoneRole("Jaw")
	assert.ErrorIs(t, err, domain.ErrUnknownBoneRole)
}

func TestBoneRole_TextRoundTrip(t *testing.T) {
	data, err := json.Marshal(map[domain.BoneRole]string{domain.RoleLeftFoot: "x"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"LeftFoot":"x"}`, string(data))

	var back map[domain.BoneRole]string
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, "x", back[domain.RoleLeftFoot])

	assert.Equal(t, "BoneRole(99)", domain.BoneRole(99).String())
	assert.False(t, domain.BoneRole(-1).Valid())
}
