// Package services implements the business logic layer between the HTTP
// handlers and the storage/pool infrastructure.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Handlers (HTTP layer)                      │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                     Services (this package)                     │
//	│  Analyzer │ KillmailService │ StatsService                      │
//	└─────────────────────────────────────────────────────────────────┘
//	                    │                     │
//	                    ▼                     ▼
//	┌──────────────────────────┐  ┌──────────────────────────────────┐
//	│   Worker Pool (pkg/pool) │  │   Store (internal/store)         │
//	└──────────────────────────┘  └──────────────────────────────────┘
//
// # Services
//
// Analyzer runs threat and activity scoring. Synchronous analysis goes
// through the worker pool and its result cache; refreshes are submitted
// fire-and-forget at low priority so the ingest path never blocks on a
// full queue.
//
// KillmailService lists killmails with filtering and pagination on top of
// the store's functional list options.
//
// StatsService assembles the dashboard snapshot: live pool occupancy plus
// board-wide killmail totals.
package services
