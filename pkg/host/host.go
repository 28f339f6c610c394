// Package host binds the constraint core to a live domain.Scene.
//
// A Family names the constraint components a host ecosystem uses for each
// ConstraintKind. Capabilities turns a family and a scene into the attach/has
// table the binder consumes, so the binder never sees component types.
package host

import (
	"fmt"
	"strings"

	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/ports"
)

// Family is a set of constraint component types.
type Family string

const (
	// VRChat targets the VRC*Constraint components of the avatar SDK.
	VRChat Family = "vrchat"
	// Unity targets the engine's built-in *Constraint components.
	Unity Family = "unity"

	DefaultFamily = VRChat
)

// Families returns every supported family.
func Families() []Family {
	return []Family{VRChat, Unity}
}

// ParseFamily resolves a family name case-insensitively. An empty name is the default family.
func ParseFamily(name string) (Family, error) {
	switch Family(strings.ToLower(strings.TrimSpace(name))) {
	case "":
		return DefaultFamily, nil
	case VRChat, "vrc":
		return VRChat, nil
	case Unity:
		return Unity, nil
	}
	return "", fmt.Errorf("unknown constraint family %q", name)
}

// TypeName returns the component type this family uses for kind.
func (f Family) TypeName(kind domain.ConstraintKind) string {
	if !kind.Valid() {
		return ""
	}
	if f == VRChat {
		return "VRC" + kind.TypeName()
	}
	return kind.TypeName()
}

// Capabilities builds the capability table for every kind of the family over scene.
// Attach appends an active constraint with one source to the target node; Has looks
// for a component of the family's type or an untyped one of the same kind.
func Capabilities(scene *domain.Scene, family Family) ports.Capabilities {
	caps := make(ports.Capabilities, len(domain.ConstraintKinds()))
	name := func(id domain.NodeID) string { return scene.DisplayName(id) }

	for _, kind := range domain.ConstraintKinds() {
		typeName := family.TypeName(kind)
		caps[kind] = ports.Capability{
			TypeName: typeName,
			Name:     name,
			Has: func(target domain.NodeID) bool {
				n, ok := scene.Node(target)
				return ok && n.HasConstraint(kind, typeName)
			},
			Attach: func(target, source domain.NodeID, weight float64) error {
				n, ok := scene.Node(target)
				if !ok {
					return fmt.Errorf("%w: %s", domain.ErrNodeNotFound, target)
				}
				if _, ok := scene.Node(source); !ok {
					return fmt.Errorf("%w: %s", domain.ErrNodeNotFound, source)
				}
				n.Constraints = append(n.Constraints, domain.Constraint{
					Type:    typeName,
					Kind:    kind,
					Sources: []domain.ConstraintSource{{Node: source, Weight: weight}},
					Active:  true,
				})
				return nil
			},
		}
	}
	return caps
}
