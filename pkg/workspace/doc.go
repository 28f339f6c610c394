/*
Package workspace serializes edits to stored scenes.

A Manager wraps a ports.SceneStore and a humanoid.Engine. Every operation on a
scene runs under a per-scene lock, optionally backed by a distributed locker, so
that load, apply and save behave as one step even when several clients (HTTP,
MCP) share the same store. Locks are reference counted and dropped once idle.
*/
package workspace
