package domain

const (
	// ComponentAnimator is the component name that marks a node as an animation root.
	ComponentAnimator = "Animator"

	// ArmatureName is the node name (compared case-insensitively) a usable skeleton must contain.
	ArmatureName = "armature"

	// DefaultWeight is the only source weight the binder ever assigns.
	DefaultWeight = 1.0
)
