package domain

import (
	"fmt"
	"strings"
)

// ConstraintKind selects which constraint behavior is synthesized.
type ConstraintKind int

const (
	KindAim ConstraintKind = iota
	KindLookAt
	KindParent
	KindPosition
	KindRotation
	KindScale

	kindCount
)

var kindNames = [kindCount]string{"aim", "lookat", "parent", "position", "rotation", "scale"}

var kindTitles = [kindCount]string{"Aim", "LookAt", "Parent", "Position", "Rotation", "Scale"}

// ConstraintKinds returns all kinds in declaration order.
func ConstraintKinds() []ConstraintKind {
	kinds := make([]ConstraintKind, kindCount)
	for i := range kinds {
		kinds[i] = ConstraintKind(i)
	}
	return kinds
}

// Valid reports whether k is inside the fixed enumeration.
func (k ConstraintKind) Valid() bool {
	return k >= 0 && k < kindCount
}

// String returns the lower-case wire form, e.g. "lookat".
func (k ConstraintKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("ConstraintKind(%d)", int(k))
	}
	return kindNames[k]
}

// TypeName returns the enum-style name, e.g. "LookAtConstraint".
func (k ConstraintKind) TypeName() string {
	if !k.Valid() {
		return k.String()
	}
	return kindTitles[k] + "Constraint"
}

// DisplayName returns the menu label, e.g. "Look At Constraint".
func (k ConstraintKind) DisplayName() string {
	if !k.Valid() {
		return k.String()
	}
	var sb strings.Builder
	for i, r := range k.TypeName() {
		if i > 0 && r >= 'A' && r <= 'Z' {
			sb.WriteByte(' ')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// MarshalText implements encoding.TextMarshaler.
func (k ConstraintKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownConstraintKind, int(k))
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ConstraintKind) UnmarshalText(text []byte) error {
	kind, err := ParseConstraintKind(string(text))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// ParseConstraintKind accepts the wire form ("rotation"), the enum form
// ("RotationConstraint") and the display form ("Rotation Constraint"), ignoring case.
func ParseConstraintKind(s string) (ConstraintKind, error) {
	key := NormalizeName(s)
	key = strings.TrimSuffix(key, "constraint")
	for i, name := range kindNames {
		if key == name {
			return ConstraintKind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownConstraintKind, s)
}
