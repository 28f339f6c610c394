package dsl

import (
	"fmt"

	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"
)

// Builder manages the scene construction.
type Builder struct {
	id    string
	order []*NodeBuilder
	nodes map[domain.NodeID]*NodeBuilder
}

// New creates a new scene builder.
func New(sceneID string) *Builder {
	return &Builder{
		id:    sceneID,
		nodes: make(map[domain.NodeID]*NodeBuilder),
	}
}

// Root adds a top-level node whose ID is its name.
// If the node already exists, it returns the existing builder.
func (b *Builder) Root(name string) *NodeBuilder {
	return b.add(nil, name)
}

// Avatar adds a root with an Animator and an "Armature" child holding one bone per role.
// Bones are named after their roles and registered in the humanoid description.
func (b *Builder) Avatar(name string, roles ...domain.BoneRole) *NodeBuilder {
	root := b.Root(name).Animator()
	armature := root.Child("Armature")
	for _, role := range roles {
		armature.Child(role.String()).Bone(role)
	}
	return root
}

func (b *Builder) add(parent *NodeBuilder, name string) *NodeBuilder {
	id := domain.NodeID(name)
	if parent != nil {
		id = parent.node.ID + "/" + id
	}
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	nb := &NodeBuilder{
		node:    domain.Node{ID: id, Name: name, Transform: domain.IdentityTransform()},
		parent:  parent,
		builder: b,
	}
	b.nodes[id] = nb
	b.order = append(b.order, nb)
	return nb
}

// Node returns the builder of an existing node.
func (b *Builder) Node(id domain.NodeID) (*NodeBuilder, bool) {
	nb, ok := b.nodes[id]
	return nb, ok
}

// Build compiles the nodes into a domain.Scene.
func (b *Builder) Build() (*domain.Scene, error) {
	scene := domain.NewScene(b.id)

	for _, nb := range b.order {
		var parent domain.NodeID
		if nb.parent != nil {
			parent = nb.parent.node.ID
		}
		if _, err := scene.Add(parent, nb.node); err != nil {
			return nil, fmt.Errorf("failed to add node %s: %w", nb.node.ID, err)
		}
	}

	for _, nb := range b.order {
		if nb.role == nil {
			continue
		}
		owner := nb.animatorAncestor()
		if owner == nil {
			return nil, fmt.Errorf("bone %s (%s) has no Animator ancestor: %w", nb.node.ID, *nb.role, domain.ErrInvalidScene)
		}
		n, _ := scene.Node(owner.node.ID)
		if n.Animator == nil {
			n.Animator = &domain.Animator{}
		}
		if n.Animator.Humanoid == nil {
			n.Animator.Humanoid = make(map[domain.BoneRole]domain.NodeID)
		}
		n.Animator.Humanoid[*nb.role] = nb.node.ID
	}

	return scene, nil
}

// MustBuild is like Build but panics on error. Intended for tests and examples.
func (b *Builder) MustBuild() *domain.Scene {
	scene, err := b.Build()
	if err != nil {
		panic(err)
	}
	return scene
}
