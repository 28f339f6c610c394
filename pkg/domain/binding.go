package domain

// RoleBinding maps canonical roles to the nodes of one skeleton.
// It is immutable once built; roles the skeleton lacks are simply absent.
type RoleBinding struct {
	root  NodeID
	nodes map[BoneRole]NodeID
}

// NewRoleBinding copies nodes into a new binding for the skeleton at root.
func NewRoleBinding(root NodeID, nodes map[BoneRole]NodeID) RoleBinding {
	cp := make(map[BoneRole]NodeID, len(nodes))
	for role, id := range nodes {
		if id != "" {
			cp[role] = id
		}
	}
	return RoleBinding{root: root, nodes: cp}
}

// Root returns the skeleton root the binding was resolved from.
func (b RoleBinding) Root() NodeID {
	return b.root
}

// Get returns the node bound to role, if any.
func (b RoleBinding) Get(role BoneRole) (NodeID, bool) {
	id, ok := b.nodes[role]
	return id, ok
}

// Len returns how many roles are bound.
func (b RoleBinding) Len() int {
	return len(b.nodes)
}

// Map returns a copy of the underlying role -> node mapping.
func (b RoleBinding) Map() map[BoneRole]NodeID {
	cp := make(map[BoneRole]NodeID, len(b.nodes))
	for k, v := range b.nodes {
		cp[k] = v
	}
	return cp
}

// ExclusionSet holds node identities that must never take part in a binding.
type ExclusionSet map[NodeID]struct{}

// NewExclusionSet builds a set from ids, ignoring empty IDs.
func NewExclusionSet(ids ...NodeID) ExclusionSet {
	set := make(ExclusionSet, len(ids))
	for _, id := range ids {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}

// Has reports whether id is excluded. A nil set excludes nothing.
func (s ExclusionSet) Has(id NodeID) bool {
	_, ok := s[id]
	return ok
}
