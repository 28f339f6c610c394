// Package validator gates a binding pass on the shape of the two skeletons.
package validator

import (
	"fmt"
	"strings"

	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"
)

const (
	MsgSourceUnset      = "Set the Source GameObject"
	MsgDestinationUnset = "Set the Destination GameObject"
	MsgSameRoot         = "Could not set the same GameObject as the Source and Destination"
	MsgNoScene          = "Load a scene first"
)

// CheckSkeleton reports what keeps root from acting as a skeleton root:
// the animation-root marker and a node named "armature" (any case) in its subtree.
func CheckSkeleton(scene *domain.Scene, root domain.NodeID) []string {
	n, ok := scene.Node(root)
	if !ok {
		return []string{fmt.Sprintf("`%s` does not exist in the scene", root)}
	}

	var msgs []string
	if !n.HasAnimator() {
		msgs = append(msgs, fmt.Sprintf("`%s` must have an Animator Component", n.Name))
	}

	hasArmature := false
	scene.Walk(root, func(c *domain.Node) bool {
		if strings.EqualFold(c.Name, domain.ArmatureName) {
			hasArmature = true
			return false
		}
		return true
	})
	if !hasArmature {
		msgs = append(msgs, fmt.Sprintf("`%s` must have an Armature GameObject as a child", n.Name))
	}
	return msgs
}

// Preconditions collects every message that disables a binding pass between src and dst.
// An empty ID means the root was not set. Messages are deduplicated in order.
func Preconditions(scene *domain.Scene, src, dst domain.NodeID) []string {
	if scene == nil {
		return []string{MsgNoScene}
	}

	var msgs []string

	if src == "" {
		msgs = append(msgs, MsgSourceUnset)
	} else {
		msgs = append(msgs, CheckSkeleton(scene, src)...)
	}

	if dst == "" {
		msgs = append(msgs, MsgDestinationUnset)
	} else {
		msgs = append(msgs, CheckSkeleton(scene, dst)...)
	}

	if src != "" && src == dst {
		msgs = append(msgs, MsgSameRoot)
	}

	return dedupe(msgs)
}

// Check returns a *domain.PreconditionError when Preconditions reports anything.
func Check(scene *domain.Scene, src, dst domain.NodeID) error {
	if msgs := Preconditions(scene, src, dst); len(msgs) > 0 {
		return &domain.PreconditionError{Messages: msgs}
	}
	return nil
}

func dedupe(msgs []string) []string {
	seen := make(map[string]bool, len(msgs))
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		if seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}
