/*
Package ports defines the driven ports (interfaces) of Constraint by Humanoid.

These interfaces decouple the binding core from the host it runs in, allowing
the same resolver and binder to work against any scene representation,
storage backend or rig description.

# Key Interfaces

  - BoneLocator: Resolves a canonical bone role to a node of one skeleton (the host rig description).
  - Capabilities: The ConstraintKind -> (attach, has) table supplied by the host integration layer.
  - SceneStore: Persists and loads scenes.
  - SceneSource: Read-only catalogue of scenes (e.g. a directory of scene documents).
  - DistributedLocker: Serializes apply operations on one scene across replicas.
*/
package ports
