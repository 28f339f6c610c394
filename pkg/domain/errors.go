package domain

import (
	"errors"
	"strings"
)

// ErrUnknownConstraintKind is returned when a constraint kind is outside the fixed enumeration
// or has no host capability registered for it.
var ErrUnknownConstraintKind = errors.New("unknown constraint kind")

// ErrUnknownBoneRole is returned when a bone role name cannot be parsed.
var ErrUnknownBoneRole = errors.New("unknown bone role")

// ErrNodeNotFound is returned when a node ID does not exist in the scene.
var ErrNodeNotFound = errors.New("node not found")

// ErrSceneNotFound is returned when a scene ID cannot be found in the store.
var ErrSceneNotFound = errors.New("scene not found")

// ErrInvalidScene is returned when a scene document is structurally invalid.
var ErrInvalidScene = errors.New("invalid scene")

// PreconditionError reports why an apply request was refused before any binding ran.
// Messages are distinct and human readable, in the order they were detected.
type PreconditionError struct {
	Messages []string
}

func (e *PreconditionError) Error() string {
	if len(e.Messages) == 1 {
		return "precondition failed: " + e.Messages[0]
	}
	return "preconditions failed:\n- " + strings.Join(e.Messages, "\n- ")
}
