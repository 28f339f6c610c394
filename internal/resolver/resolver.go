package resolver

import (
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/ports"
)

// Resolve asks locator for every role in roles and collects the answers into a binding
// for the skeleton at root. A nil roles slice means the canonical list.
func Resolve(scene *domain.Scene, root domain.NodeID, locator ports.BoneLocator, roles []domain.BoneRole) domain.RoleBinding {
	if roles == nil {
		roles = domain.CanonicalRoles()
	}
	nodes := make(map[domain.BoneRole]domain.NodeID, len(roles))
	if scene == nil || locator == nil {
		return domain.NewRoleBinding(root, nodes)
	}
	for _, role := range roles {
		if id, ok := locator.Locate(scene, root, role); ok && id != "" {
			nodes[role] = id
		}
	}
	return domain.NewRoleBinding(root, nodes)
}

// Default returns the locator used when callers do not pick one: the humanoid
// description for described roots, the naming conventions for the rest.
func Default() ports.BoneLocator {
	return Described(NewNameLocator())
}

// Described trusts a root's humanoid description whenever it has one, so a role the
// description leaves out stays unbound. fallback is asked only for roots without any
// description.
func Described(fallback ports.BoneLocator) ports.BoneLocator {
	avatar := AvatarLocator{}
	return ports.BoneLocatorFunc(func(scene *domain.Scene, root domain.NodeID, role domain.BoneRole) (domain.NodeID, bool) {
		if HasDescription(scene, root) {
			return avatar.Locate(scene, root, role)
		}
		if fallback == nil {
			return "", false
		}
		return fallback.Locate(scene, root, role)
	})
}

// HasDescription reports whether root carries a non-empty humanoid description.
func HasDescription(scene *domain.Scene, root domain.NodeID) bool {
	n, ok := scene.Node(root)
	return ok && n.Animator != nil && len(n.Animator.Humanoid) > 0
}

// Chain returns a locator that asks each locator in turn; the first hit wins.
func Chain(locators ...ports.BoneLocator) ports.BoneLocator {
	return ports.BoneLocatorFunc(func(scene *domain.Scene, root domain.NodeID, role domain.BoneRole) (domain.NodeID, bool) {
		for _, l := range locators {
			if l == nil {
				continue
			}
			if id, ok := l.Locate(scene, root, role); ok {
				return id, true
			}
		}
		return "", false
	})
}

// AvatarLocator reads the humanoid description attached to the root's Animator.
// Entries that point at unknown nodes or outside the root's subtree are ignored.
type AvatarLocator struct{}

// Locate implements ports.BoneLocator.
func (AvatarLocator) Locate(scene *domain.Scene, root domain.NodeID, role domain.BoneRole) (domain.NodeID, bool) {
	n, ok := scene.Node(root)
	if !ok || n.Animator == nil {
		return "", false
	}
	id, ok := n.Animator.Humanoid[role]
	if !ok || id == "" {
		return "", false
	}
	if _, exists := scene.Node(id); !exists || !scene.Contains(root, id) {
		return "", false
	}
	return id, true
}
