package ports

import "github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"

// AttachFunc attaches a new, active constraint to target with a single source at weight.
type AttachFunc func(target, source domain.NodeID, weight float64) error

// HasFunc reports whether target already carries a constraint of the capability's kind.
type HasFunc func(target domain.NodeID) bool

// NameFunc returns the display name of a node.
type NameFunc func(id domain.NodeID) string

// Capability is what the host can do for one constraint kind.
type Capability struct {
	// TypeName is the host component type, used in diagnostics.
	TypeName string
	Attach   AttachFunc
	Has      HasFunc
	// Name is optional; diagnostics fall back to the node ID.
	Name NameFunc
}

// Capabilities maps each supported kind to its host capability.
type Capabilities map[domain.ConstraintKind]Capability

// Lookup returns the capability for kind. Kinds outside the enumeration and
// incomplete entries are reported as missing.
func (c Capabilities) Lookup(kind domain.ConstraintKind) (Capability, bool) {
	if !kind.Valid() {
		return Capability{}, false
	}
	capability, ok := c[kind]
	if !ok || capability.Attach == nil || capability.Has == nil {
		return Capability{}, false
	}
	return capability, true
}
