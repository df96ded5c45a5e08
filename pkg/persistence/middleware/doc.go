// Package middleware decorates a ports.LayoutStore with cross-cutting behavior.
//
//	store := middleware.Chain(redisStore,
//		middleware.NewLoggingMiddleware(logger),
//		middleware.NewGridMiddleware(10),
//	)
package middleware
