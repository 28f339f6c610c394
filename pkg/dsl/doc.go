/*
Package dsl provides a fluent builder for constructing scenes in Go.

It is the quickest way to describe avatars for tests, examples and embedded
hosts without writing scene documents. Node IDs are the slash path of names
from the root, the same default the scene document decoder uses.

Example usage:

	b := dsl.New("demo")

	// Two avatars with an Animator, an Armature and a few humanoid bones.
	b.Avatar("Source", domain.RoleHips, domain.RoleSpine, domain.RoleHead)
	dst := b.Avatar("Destination", domain.RoleHips, domain.RoleSpine)

	// Extra nodes are attached with Child; Bone registers them as a role.
	dst.Child("Armature").Child("Head").Bone(domain.RoleHead)

	scene, err := b.Build()
*/
package dsl
