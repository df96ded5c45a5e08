package middleware

import "github.com/aretw0/flowmap/pkg/ports"

// Middleware allows wrapping a LayoutStore to add behavior.
type Middleware func(ports.LayoutStore) ports.LayoutStore

// Chain wraps store with mws. The first middleware is the outermost.
func Chain(store ports.LayoutStore, mws ...Middleware) ports.LayoutStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
