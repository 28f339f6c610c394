package humanoid_test

import (
	"context"
	"fmt"
	"log"

	humanoid "github.com/natsuneko-laboratory/constraint-by-humanoid"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/dsl"
)

// ExampleEngine_Apply binds two avatars built in memory and applies twice
// to show that the second pass only warns.
func ExampleEngine_Apply() {
	b := dsl.New("example")
	b.Avatar("Source", domain.RoleHips, domain.RoleSpine, domain.RoleLeftHand)
	b.Avatar("Destination", domain.RoleHips, domain.RoleSpine)
	scene, err := b.Build()
	if err != nil {
		log.Fatal(err)
	}

	eng := humanoid.New()
	req := humanoid.ApplyRequest{Source: "Source", Destination: "Destination", Kind: domain.KindRotation}

	report, err := eng.Apply(context.Background(), scene, req)
	if err != nil {
		log.Fatal(err)
	}
	for _, c := range report.Applied {
		fmt.Printf("%s: %s -> %s\n", c.Role, c.Source, c.Target)
	}

	report, err = eng.Apply(context.Background(), scene, req)
	if err != nil {
		log.Fatal(err)
	}
	for _, w := range report.Warnings {
		fmt.Println(w.Message)
	}

	// Output:
	// Hips: Source/Armature/Hips -> Destination/Armature/Hips
	// Spine: Source/Armature/Spine -> Destination/Armature/Spine
	// The GameObject `Hips` has been skipped because it already has RotationConstraint.
	// The GameObject `Spine` has been skipped because it already has RotationConstraint.
}

// ExampleEngine_Validate shows the messages that keep Apply from running.
func ExampleEngine_Validate() {
	b := dsl.New("example")
	b.Avatar("Avatar", domain.RoleHips)
	b.Root("Prop").Child("Mesh")
	scene := b.MustBuild()

	eng := humanoid.New()
	for _, msg := range eng.Validate(scene, "Prop", "") {
		fmt.Println(msg)
	}

	// Output:
	// `Prop` must have an Animator Component
	// `Prop` must have an Armature GameObject as a child
	// Set the Destination GameObject
}
