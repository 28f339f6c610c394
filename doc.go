/*
Package humanoid configures rig constraints between two humanoid avatars.

Given a source and a destination skeleton inside one scene, the engine walks a
fixed list of canonical bone roles (Hips, Spine, ... RightLittleDistal), resolves
each role on both sides and attaches a single-source, full-weight, active
constraint of the selected kind from the source bone to the destination bone.

# Rules

  - Roles missing on either side are skipped silently.
  - Roles whose source or destination node is excluded are skipped silently.
  - A destination that already has a constraint of the selected kind is skipped
    with a warning, so applying twice is harmless.
  - Nothing runs unless both roots are set, distinct, carry an Animator and
    contain an Armature node.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/natsuneko-laboratory/constraint-by-humanoid"
		"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/codec"
		"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"
	)

	func main() {
		scene, err := codec.DecodeFile("scene.yaml")
		if err != nil {
			log.Fatal(err)
		}

		eng := humanoid.New()
		report, err := eng.Apply(context.Background(), scene, humanoid.ApplyRequest{
			Source:      "Source",
			Destination: "Destination",
			Kind:        domain.KindRotation,
		})
		if err != nil {
			log.Fatal(err)
		}

		for _, w := range report.Warnings {
			fmt.Println(w.Message)
		}
	}

The scene itself is a plain domain.Scene, so hosts can also build it in memory
(see pkg/dsl) and persist it with any ports.SceneStore.
*/
package humanoid
