package ports

import "github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"

// BoneLocator finds the node that fulfills a bone role within the skeleton at root.
// Implementations must be pure: no side effects on the scene.
type BoneLocator interface {
	Locate(scene *domain.Scene, root domain.NodeID, role domain.BoneRole) (domain.NodeID, bool)
}

// BoneLocatorFunc adapts a function to BoneLocator.
type BoneLocatorFunc func(scene *domain.Scene, root domain.NodeID, role domain.BoneRole) (domain.NodeID, bool)

// Locate calls f.
func (f BoneLocatorFunc) Locate(scene *domain.Scene, root domain.NodeID, role domain.BoneRole) (domain.NodeID, bool) {
	return f(scene, root, role)
}
