package resolver

import (
	"strings"

	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"
)

// NameLocator finds bones by naming convention when a skeleton carries no humanoid
// description. Matching ignores case, separators and namespace prefixes such as
// "mixamorig:". The first matching node below the root in depth-first pre-order wins.
type NameLocator struct {
	lookup map[string]domain.BoneRole
}

// NameOption configures a NameLocator.
type NameOption func(*NameLocator)

// WithAliases registers extra names for role. Aliases registered later do not
// override a name that already maps to another role.
func WithAliases(role domain.BoneRole, names ...string) NameOption {
	return func(l *NameLocator) {
		for _, name := range names {
			l.register(name, role)
		}
	}
}

// NewNameLocator creates a locator seeded with the Unity, VRoid, Mixamo and Blender conventions.
func NewNameLocator(opts ...NameOption) *NameLocator {
	l := &NameLocator{lookup: make(map[string]domain.BoneRole)}
	defaults := defaultNames()
	for _, role := range domain.CanonicalRoles() {
		for _, name := range defaults[role] {
			l.register(name, role)
		}
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *NameLocator) register(name string, role domain.BoneRole) {
	key := nameKey(name)
	if key == "" {
		return
	}
	if _, taken := l.lookup[key]; !taken {
		l.lookup[key] = role
	}
}

// RoleOf returns the role a node name stands for, if the name is known.
func (l *NameLocator) RoleOf(name string) (domain.BoneRole, bool) {
	role, ok := l.lookup[nameKey(name)]
	return role, ok
}

// Locate implements ports.BoneLocator.
func (l *NameLocator) Locate(scene *domain.Scene, root domain.NodeID, role domain.BoneRole) (domain.NodeID, bool) {
	var found domain.NodeID
	scene.Walk(root, func(n *domain.Node) bool {
		if n.ID == root {
			return true
		}
		if r, ok := l.RoleOf(n.Name); ok && r == role {
			found = n.ID
			return false
		}
		return true
	})
	return found, found != ""
}

func nameKey(name string) string {
	if i := strings.LastIndexByte(name, ':'); i >= 0 {
		name = name[i+1:]
	}
	return domain.NormalizeName(name)
}
