// Package handlers implements the HTTP API layer of the killboard dashboard.
//
// Handlers delegate business logic to the services layer and focus on
// request validation, response formatting, and HTTP semantics.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                     HTTP Request (Gin)                          │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Handler (this package)                     │
//	│  - Request validation                                           │
//	│  - Parameter parsing                                            │
//	│  - Error mapping to HTTP status codes                           │
//	│  - Model-to-API conversion                                      │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Services Layer                             │
//	│  KillmailService │ Analyzer │ StatsService                      │
//	└─────────────────────────────────────────────────────────────────┘
//
// # API Endpoints
//
//	┌────────┬────────────────────────────┬──────────────────────────────────┐
//	│ Method │ Endpoint                   │ Description                      │
//	├────────┼────────────────────────────┼──────────────────────────────────┤
//	│ GET    │ /health                    │ Liveness check                   │
//	│ GET    │ /killmails                 │ List killmails (filters, paging) │
//	│ GET    │ /killmails/{id}            │ Get one killmail                 │
//	│ POST   │ /analysis                  │ Run analysis, wait for report    │
//	│ POST   │ /analysis/refresh          │ Queue background re-analysis     │
//	│ GET    │ /analysis/{kind}/{subject} │ Get last persisted report        │
//	│ GET    │ /stats                     │ Dashboard snapshot               │
//	│ GET    │ /pool/stats                │ Worker pool occupancy            │
//	│ PUT    │ /pool/size                 │ Resize the worker pool           │
//	│ DELETE │ /pool/queue                │ Discard queued analysis jobs     │
//	└────────┴────────────────────────────┴──────────────────────────────────┘
//
// # Killmail Filters
//
// GET /killmails accepts repeatable id filters (character, corporation,
// system, shipType), a value window (minValue, maxValue), a time window
// (since, until as RFC3339) and pagination (page, pageSize, max 100).
// Character filters match either side of the kill.
//
// # Error Handling
//
// Handlers use a consistent error response format:
//
//	{ "error": "error message" }
//
// HTTP Status Code Mapping:
//
//	┌─────────────────────────────┬────────┬──────────────────────────────┐
//	│ Error Type                  │ Status │ When                         │
//	├─────────────────────────────┼────────┼──────────────────────────────┤
//	│ Validation error            │ 400    │ Invalid request params       │
//	│ pool.ErrInvalidSize         │ 400    │ Scale target out of bounds   │
//	│ ResourceNotFoundError       │ 404    │ Resource doesn't exist       │
//	│ NoActivityError             │ 404    │ Subject has no killmails     │
//	│ Internal error              │ 500    │ Unexpected service errors    │
//	│ pool.ErrQueueFull           │ 503    │ Analysis queue saturated     │
//	│ pool.ErrClosed              │ 503    │ Engine shut down             │
//	│ pool.DeadlineError          │ 504    │ Analysis deadline exceeded   │
//	└─────────────────────────────┴────────┴──────────────────────────────┘
//
// Queue saturation responses carry a Retry-After header so well-behaved
// clients back off instead of hammering a full queue.
package handlers
