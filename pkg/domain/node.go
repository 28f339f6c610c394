package domain

// NodeID is the opaque identity of a node. It is stable for the lifetime of a scene.
type NodeID string

// Transform is the local transform of a node.
// The binder never reads or modifies it; it is carried through documents untouched.
type Transform struct {
	Position [3]float64 `json:"position" yaml:"position"`
	Rotation [4]float64 `json:"rotation" yaml:"rotation"`
	Scale    [3]float64 `json:"scale" yaml:"scale"`
}

// IdentityTransform returns a transform at the origin with no rotation and unit scale.
func IdentityTransform() Transform {
	return Transform{
		Rotation: [4]float64{0, 0, 0, 1},
		Scale:    [3]float64{1, 1, 1},
	}
}

// Animator marks a node as an animation root.
// Humanoid is the host rig description: which node fulfills each bone role.
// It may be empty, in which case bones are found by naming convention.
type Animator struct {
	Humanoid map[BoneRole]NodeID `json:"humanoid,omitempty" yaml:"humanoid,omitempty"`
}

// ConstraintSource is one weighted source of a constraint component.
type ConstraintSource struct {
	Node   NodeID  `json:"node" yaml:"node"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// Constraint is a constraint component attached to a node.
// Type is the host component type (e.g. "VRCRotationConstraint"); two components
// of the same Kind but different families are distinct components. An empty Type
// stands for the Kind under whichever family reads the scene.
type Constraint struct {
	Type    string             `json:"type" yaml:"type"`
	Kind    ConstraintKind     `json:"kind" yaml:"kind"`
	Sources []ConstraintSource `json:"sources" yaml:"sources"`
	Active  bool               `json:"active" yaml:"active"`
}

// Node represents a transform in the scene hierarchy.
type Node struct {
	ID        NodeID    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Parent    NodeID    `json:"parent,omitempty" yaml:"parent,omitempty"`
	Children  []NodeID  `json:"children,omitempty" yaml:"children,omitempty"`
	Transform Transform `json:"transform" yaml:"transform"`

	// Components lists plain component names (e.g. "Animator") as authored.
	Components []string `json:"components,omitempty" yaml:"components,omitempty"`

	Animator    *Animator    `json:"animator,omitempty" yaml:"animator,omitempty"`
	Constraints []Constraint `json:"constraints,omitempty" yaml:"constraints,omitempty"`
}

// HasAnimator reports whether the node carries the animation-root marker.
func (n *Node) HasAnimator() bool {
	return n.Animator != nil || n.HasComponent(ComponentAnimator)
}

// HasComponent reports whether a component of the given type is listed on the node.
func (n *Node) HasComponent(typeName string) bool {
	for _, c := range n.Components {
		if c == typeName {
			return true
		}
	}
	return false
}

// HasConstraint reports whether a constraint of kind is attached as typeName or
// with no type at all.
func (n *Node) HasConstraint(kind ConstraintKind, typeName string) bool {
	for _, c := range n.Constraints {
		if c.Type == typeName || (c.Type == "" && c.Kind == kind) {
			return true
		}
	}
	return false
}

// HasConstraintType reports whether a constraint component of the given host type is attached.
func (n *Node) HasConstraintType(typeName string) bool {
	for _, c := range n.Constraints {
		if c.Type == typeName {
			return true
		}
	}
	return false
}

func (n *Node) clone() *Node {
	cp := *n
	cp.Children = append([]NodeID(nil), n.Children...)
	cp.Components = append([]string(nil), n.Components...)
	if n.Animator != nil {
		a := &Animator{}
		if n.Animator.Humanoid != nil {
			a.Humanoid = make(map[BoneRole]NodeID, len(n.Animator.Humanoid))
			for k, v := range n.Animator.Humanoid {
				a.Humanoid[k] = v
			}
		}
		cp.Animator = a
	}
	if n.Constraints != nil {
		cp.Constraints = make([]Constraint, len(n.Constraints))
		for i, c := range n.Constraints {
			c.Sources = append([]ConstraintSource(nil), c.Sources...)
			cp.Constraints[i] = c
		}
	}
	return &cp
}
