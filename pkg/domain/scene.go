package domain

import (
	"fmt"
	"strings"
)

// Scene is a forest of nodes. Each root, together with everything below it,
// is one hierarchy; a skeleton is the hierarchy below an avatar root.
type Scene struct {
	ID    string           `json:"id" yaml:"id"`
	Roots []NodeID         `json:"roots" yaml:"roots"`
	Nodes map[NodeID]*Node `json:"nodes" yaml:"nodes"`
}

// NewScene creates an empty scene.
func NewScene(id string) *Scene {
	return &Scene{
		ID:    id,
		Nodes: make(map[NodeID]*Node),
	}
}

// Add inserts node under parent. An empty parent adds a new root.
// The node's Parent and Children fields are managed by the scene.
func (s *Scene) Add(parent NodeID, node Node) (*Node, error) {
	if node.ID == "" {
		return nil, fmt.Errorf("%w: node %q has no id", ErrInvalidScene, node.Name)
	}
	if _, exists := s.Nodes[node.ID]; exists {
		return nil, fmt.Errorf("%w: duplicate node id %q", ErrInvalidScene, node.ID)
	}

	n := node.clone()
	n.Parent = parent
	n.Children = nil

	if parent == "" {
		s.Roots = append(s.Roots, n.ID)
	} else {
		p, ok := s.Nodes[parent]
		if !ok {
			return nil, fmt.Errorf("%w: parent %q of %q", ErrNodeNotFound, parent, node.ID)
		}
		p.Children = append(p.Children, n.ID)
	}

	if s.Nodes == nil {
		s.Nodes = make(map[NodeID]*Node)
	}
	s.Nodes[n.ID] = n
	return n, nil
}

// Node returns the node with the given ID.
func (s *Scene) Node(id NodeID) (*Node, bool) {
	n, ok := s.Nodes[id]
	return n, ok
}

// Walk visits root and its descendants depth-first in pre-order, following
// child order. Returning false from fn stops the walk.
func (s *Scene) Walk(root NodeID, fn func(*Node) bool) {
	var visit func(id NodeID) bool
	visit = func(id NodeID) bool {
		n, ok := s.Nodes[id]
		if !ok {
			return true
		}
		if !fn(n) {
			return false
		}
		for _, child := range n.Children {
			if !visit(child) {
				return false
			}
		}
		return true
	}
	visit(root)
}

// Contains reports whether id is root or one of its descendants.
func (s *Scene) Contains(root, id NodeID) bool {
	seen := make(map[NodeID]bool)
	for cur := id; cur != ""; {
		if cur == root {
			return true
		}
		if seen[cur] {
			return false
		}
		seen[cur] = true
		n, ok := s.Nodes[cur]
		if !ok {
			return false
		}
		cur = n.Parent
	}
	return false
}

// Path returns the slash-separated names from the node's root down to the node.
func (s *Scene) Path(id NodeID) string {
	var parts []string
	seen := make(map[NodeID]bool)
	for cur := id; cur != "" && !seen[cur]; {
		seen[cur] = true
		n, ok := s.Nodes[cur]
		if !ok {
			break
		}
		parts = append(parts, n.Name)
		cur = n.Parent
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}

// DisplayName returns the node's name, falling back to its ID.
func (s *Scene) DisplayName(id NodeID) string {
	if n, ok := s.Nodes[id]; ok && n.Name != "" {
		return n.Name
	}
	return string(id)
}

// Clone returns a deep copy of the scene.
func (s *Scene) Clone() *Scene {
	cp := &Scene{
		ID:    s.ID,
		Roots: append([]NodeID(nil), s.Roots...),
		Nodes: make(map[NodeID]*Node, len(s.Nodes)),
	}
	for id, n := range s.Nodes {
		cp.Nodes[id] = n.clone()
	}
	return cp
}
