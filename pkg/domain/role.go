package domain

import (
	"fmt"
	"strings"
)

// BoneRole identifies a canonical humanoid bone.
// The numeric order of the constants is the canonical iteration order.
type BoneRole int

const (
	RoleHips BoneRole = iota
	RoleSpine
	RoleChest
	RoleUpperChest

	RoleLeftShoulder
	RoleLeftUpperArm
	RoleLeftLowerArm
	RoleLeftHand

	RoleRightShoulder
	RoleRightUpperArm
	RoleRightLowerArm
	RoleRightHand

	RoleLeftUpperLeg
	RoleLeftLowerLeg
	RoleLeftFoot
	RoleLeftToes

	RoleRightUpperLeg
	RoleRightLowerLeg
	RoleRightFoot
	RoleRightToes

	RoleNeck
	RoleHead
	RoleLeftEye
	RoleRightEye

	RoleLeftThumbProximal
	RoleLeftThumbIntermediate
	RoleLeftThumbDistal
	RoleLeftIndexProximal
	RoleLeftIndexIntermediate
	RoleLeftIndexDistal
	RoleLeftMiddleProximal
	RoleLeftMiddleIntermediate
	RoleLeftMiddleDistal
	RoleLeftRingProximal
	RoleLeftRingIntermediate
	RoleLeftRingDistal
	RoleLeftLittleProximal
	RoleLeftLittleIntermediate
	RoleLeftLittleDistal

	RoleRightThumbProximal
	RoleRightThumbIntermediate
	RoleRightThumbDistal
	RoleRightIndexProximal
	RoleRightIndexIntermediate
	RoleRightIndexDistal
	RoleRightMiddleProximal
	RoleRightMiddleIntermediate
	RoleRightMiddleDistal
	RoleRightRingProximal
	RoleRightRingIntermediate
	RoleRightRingDistal
	RoleRightLittleProximal
	RoleRightLittleIntermediate
	RoleRightLittleDistal

	roleCount
)

var roleNames = [roleCount]string{
	"Hips", "Spine", "Chest", "UpperChest",
	"LeftShoulder", "LeftUpperArm", "LeftLowerArm", "LeftHand",
	"RightShoulder", "RightUpperArm", "RightLowerArm", "RightHand",
	"LeftUpperLeg", "LeftLowerLeg", "LeftFoot", "LeftToes",
	"RightUpperLeg", "RightLowerLeg", "RightFoot", "RightToes",
	"Neck", "Head", "LeftEye", "RightEye",
	"LeftThumbProximal", "LeftThumbIntermediate", "LeftThumbDistal",
	"LeftIndexProximal", "LeftIndexIntermediate", "LeftIndexDistal",
	"LeftMiddleProximal", "LeftMiddleIntermediate", "LeftMiddleDistal",
	"LeftRingProximal", "LeftRingIntermediate", "LeftRingDistal",
	"LeftLittleProximal", "LeftLittleIntermediate", "LeftLittleDistal",
	"RightThumbProximal", "RightThumbIntermediate", "RightThumbDistal",
	"RightIndexProximal", "RightIndexIntermediate", "RightIndexDistal",
	"RightMiddleProximal", "RightMiddleIntermediate", "RightMiddleDistal",
	"RightRingProximal", "RightRingIntermediate", "RightRingDistal",
	"RightLittleProximal", "RightLittleIntermediate", "RightLittleDistal",
}

var rolesByKey = func() map[string]BoneRole {
	m := make(map[string]BoneRole, roleCount)
	for i, name := range roleNames {
		m[NormalizeName(name)] = BoneRole(i)
	}
	return m
}()

// CanonicalRoles returns every bone role in canonical iteration order.
// The returned slice is a fresh copy.
func CanonicalRoles() []BoneRole {
	roles := make([]BoneRole, roleCount)
	for i := range roles {
		roles[i] = BoneRole(i)
	}
	return roles
}

// Valid reports whether r is one of the canonical roles.
func (r BoneRole) Valid() bool {
	return r >= 0 && r < roleCount
}

func (r BoneRole) String() string {
	if !r.Valid() {
		return fmt.Sprintf("BoneRole(%d)", int(r))
	}
	return roleNames[r]
}

// MarshalText implements encoding.TextMarshaler so roles serialize by name.
func (r BoneRole) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownBoneRole, int(r))
	}
	return []byte(roleNames[r]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *BoneRole) UnmarshalText(text []byte) error {
	role, err := ParseBoneRole(string(text))
	if err != nil {
		return err
	}
	*r = role
	return nil
}

// ParseBoneRole resolves a role name. Matching ignores case and the separators
// accepted by NormalizeName, so "left_upper_arm" and "LeftUpperArm" are the same role.
func ParseBoneRole(name string) (BoneRole, error) {
	if role, ok := rolesByKey[NormalizeName(name)]; ok {
		return role, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBoneRole, name)
}

// NormalizeName lower-cases s and drops spaces, underscores, dashes and dots.
func NormalizeName(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch r {
		case ' ', '_', '-', '.':
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
