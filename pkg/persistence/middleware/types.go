// Package middleware decorates a ports.SceneStore with cross-cutting behaviour.
package middleware

import "github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/ports"

// Middleware allows wrapping a SceneStore to add behavior.
type Middleware func(ports.SceneStore) ports.SceneStore

// Chain wraps store so that the first middleware is the outermost.
func Chain(store ports.SceneStore, mws ...Middleware) ports.SceneStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
