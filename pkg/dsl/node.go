package dsl

import "github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	node    domain.Node
	parent  *NodeBuilder
	role    *domain.BoneRole
	builder *Builder
}

// ID returns the node ID, the slash path of names from its root.
func (n *NodeBuilder) ID() domain.NodeID {
	return n.node.ID
}

// Child adds (or returns) the child named name.
func (n *NodeBuilder) Child(name string) *NodeBuilder {
	return n.builder.add(n, name)
}

// Parent returns the parent builder, or nil for a root.
func (n *NodeBuilder) Parent() *NodeBuilder {
	return n.parent
}

// Animator marks the node as an animation root.
func (n *NodeBuilder) Animator() *NodeBuilder {
	if n.node.Animator == nil {
		n.node.Animator = &domain.Animator{}
	}
	n.Component(domain.ComponentAnimator)
	return n
}

// Component adds a host component by type name.
func (n *NodeBuilder) Component(typeName string) *NodeBuilder {
	if n.node.HasComponent(typeName) {
		return n
	}
	n.node.Components = append(n.node.Components, typeName)
	return n
}

// Bone registers the node as role in the humanoid description of its nearest Animator ancestor.
func (n *NodeBuilder) Bone(role domain.BoneRole) *NodeBuilder {
	n.role = &role
	return n
}

// Constraint attaches an existing constraint component with a single full-weight source.
func (n *NodeBuilder) Constraint(typeName string, kind domain.ConstraintKind, source domain.NodeID) *NodeBuilder {
	n.node.Constraints = append(n.node.Constraints, domain.Constraint{
		Type:    typeName,
		Kind:    kind,
		Sources: []domain.ConstraintSource{{Node: source, Weight: domain.DefaultWeight}},
		Active:  true,
	})
	return n
}

// Transform sets the local transform.
func (n *NodeBuilder) Transform(t domain.Transform) *NodeBuilder {
	n.node.Transform = t
	return n
}

// Build returns the underlying domain.Node.
// This is primarily used by the Builder, but exposed for advanced usage.
func (n *NodeBuilder) Build() domain.Node {
	return n.node
}

func (n *NodeBuilder) animatorAncestor() *NodeBuilder {
	for cur := n.parent; cur != nil; cur = cur.parent {
		if cur.node.Animator != nil {
			return cur
		}
	}
	return nil
}
