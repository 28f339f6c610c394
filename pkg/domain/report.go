package domain

import "fmt"

// WarningDuplicateConstraint is the code of the warning emitted when the destination
// already carries a constraint of the requested kind.
const WarningDuplicateConstraint = "duplicate_constraint"

// SkipReason explains a silent per-role skip.
type SkipReason string

const (
	SkipAbsentInSource      SkipReason = "absent_in_source"
	SkipAbsentInDestination SkipReason = "absent_in_destination"
	SkipExcluded            SkipReason = "excluded"
)

// ConstraintSpec describes one constraint the binder attached.
type ConstraintSpec struct {
	Role   BoneRole       `json:"role" yaml:"role"`
	Target NodeID         `json:"target" yaml:"target"`
	Source NodeID         `json:"source" yaml:"source"`
	Kind   ConstraintKind `json:"kind" yaml:"kind"`
	Weight float64        `json:"weight" yaml:"weight"`
	Active bool           `json:"active" yaml:"active"`
}

// Warning is a non-fatal diagnostic raised for a single role.
type Warning struct {
	Role     BoneRole       `json:"role" yaml:"role"`
	Node     NodeID         `json:"node" yaml:"node"`
	NodeName string         `json:"node_name" yaml:"node_name"`
	Kind     ConstraintKind `json:"kind" yaml:"kind"`
	Code     string         `json:"code" yaml:"code"`
	Message  string         `json:"message" yaml:"message"`
}

// NewDuplicateWarning builds the warning for a destination that already has a constraint of kind.
// The message names the Unity type for the kind whatever family the host attaches.
func NewDuplicateWarning(role BoneRole, node NodeID, nodeName string, kind ConstraintKind) Warning {
	return Warning{
		Role:     role,
		Node:     node,
		NodeName: nodeName,
		Kind:     kind,
		Code:     WarningDuplicateConstraint,
		Message:  fmt.Sprintf("The GameObject `%s` has been skipped because it already has %s.", nodeName, kind.TypeName()),
	}
}

// Skip records a role that was silently passed over.
type Skip struct {
	Role   BoneRole   `json:"role" yaml:"role"`
	Reason SkipReason `json:"reason" yaml:"reason"`
}

// Report is the outcome of one binding pass.
type Report struct {
	Source      NodeID           `json:"source" yaml:"source"`
	Destination NodeID           `json:"destination" yaml:"destination"`
	Kind        ConstraintKind   `json:"kind" yaml:"kind"`
	Family      string           `json:"family,omitempty" yaml:"family,omitempty"`
	Applied     []ConstraintSpec `json:"applied" yaml:"applied"`
	Warnings    []Warning        `json:"warnings" yaml:"warnings"`
	Skips       []Skip           `json:"skips" yaml:"skips"`
}

// SkipCount returns how many roles were skipped for reason.
func (r *Report) SkipCount(reason SkipReason) int {
	n := 0
	for _, s := range r.Skips {
		if s.Reason == reason {
			n++
		}
	}
	return n
}
