// Package resolver maps canonical bone roles onto the nodes of one skeleton.
//
// Resolution never fails: a role the skeleton does not provide is simply
// absent from the resulting domain.RoleBinding. Precondition checks such as
// the animation-root marker live in the validator package.
package resolver
