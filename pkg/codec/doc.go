// Package codec reads and writes scene documents.
//
// A scene document is YAML (or JSON, which the YAML decoder also accepts)
// describing a tree of objects:
//
//	scene: demo
//	objects:
//	  - name: Source
//	    components: [Animator]
//	    humanoid:
//	      Hips: Armature/Hips
//	    children:
//	      - name: Armature
//	        children:
//	          - name: Hips
//
// Objects without an explicit id get the slash path of names from their root.
// Humanoid entries and constraint sources may reference a node by id, by
// absolute path, or by path relative to the object that declares them.
package codec
