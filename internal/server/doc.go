// Package server provides the HTTP server for the killboard dashboard.
//
// The server uses the Gin web framework with structured request logging
// and panic recovery backed by zap.
//
// # Architecture Overview
//
//	┌───────────────────────────────────────────────────────────────┐
//	│                         HTTP Server                           │
//	├───────────────────────────────────────────────────────────────┤
//	│                       Middleware Stack                        │
//	│  ┌─────────────────────────────────────────────────────────┐  │
//	│  │  Ginzap (request/response logging)                      │  │
//	│  │  RecoveryWithZap (panic recovery with stack trace)      │  │
//	│  └─────────────────────────────────────────────────────────┘  │
//	├───────────────────────────────────────────────────────────────┤
//	│  /metrics          Prometheus exposition                      │
//	│  /api/v1/*         Handlers (registered via callback)         │
//	└───────────────────────────────────────────────────────────────┘
//
// # Server Modes
//
// Development Mode (Mode = "dev"):
//   - Gin runs in debug mode with verbose route logging
//
// Production Mode (Mode = "prod"):
//   - Gin runs in release mode
//
// # Server Lifecycle
//
// Creation:
//
//	srv := server.NewServer(cfg, registry, func(router *gin.RouterGroup) {
//	    handler.Register(router)
//	    router.GET("/stats/ws", hub.Handle)
//	})
//
// Starting blocks until error or shutdown:
//
//	err := srv.Start()
//
// Stopping performs graceful shutdown, waiting for in-flight requests:
//
//	srv.Stop(ctx)
package server
