/*
Package domain contains the core domain models of Constraint by Humanoid.

It defines the scene graph the binder operates on, the canonical humanoid bone
roles, the constraint kinds and the results of a binding pass. This package is
kept pure and free of external dependencies like I/O or persistence, following
Hexagonal Architecture principles.

# Key Entities

  - Node: A transform in the scene hierarchy (a GameObject in host terms).
  - Scene: A forest of Nodes. A skeleton is the subtree below one root Node.
  - BoneRole: One of the canonical humanoid bones, iterated in a fixed order.
  - RoleBinding: The resolved role -> Node mapping of one skeleton.
  - ConstraintKind: Aim, LookAt, Parent, Position, Rotation or Scale.
  - Report: What a binding pass applied, warned about and skipped.
*/
package domain
