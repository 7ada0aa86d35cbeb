// Package config defines the configuration structure for the killboard
// dashboard.
//
// Configuration is organized into logical sections (Server, Database, Pool,
// Ingest, Cache) and is loaded from an optional YAML file, INTELBOARD_*
// environment variables, and struct-tag defaults, in that order of
// precedence.
//
// # Configuration Structure
//
//	Configuration
//	├── Server         - HTTP server settings
//	├── Database       - SQLite storage location
//	├── Pool           - Analysis worker pool sizing
//	├── Ingest         - Killmail feed polling
//	├── Cache          - Result cache housekeeping
//	├── LogFormat      - Logging format
//	└── LogLevel       - Logging verbosity
//
// # Server Configuration
//
//	┌────────────────┬─────────┬────────────────────────────────────────┐
//	│ Field          │ Default │ Description                            │
//	├────────────────┼─────────┼────────────────────────────────────────┤
//	│ Mode           │ "dev"   │ Server mode: "prod" or "dev"           │
//	│ HTTPPort       │ 8000    │ HTTP server listen port                │
//	│ StatsInterval  │ 2s      │ Websocket stats push interval          │
//	└────────────────┴─────────┴────────────────────────────────────────┘
//
// # Pool Configuration
//
//	┌─────────────────────────┬─────────┬──────────────────────────────────┐
//	│ Field                   │ Default │ Description                      │
//	├─────────────────────────┼─────────┼──────────────────────────────────┤
//	│ DefaultSize             │ 4       │ Workers spawned at startup       │
//	│ MinSize                 │ 1       │ Lower autoscale bound            │
//	│ MaxSize                 │ 8       │ Upper autoscale bound            │
//	│ QueueLimit              │ 64      │ Max jobs waiting for a worker    │
//	│ DefaultDeadline         │ 30s     │ Per-job execution budget         │
//	│ ResultTTL               │ 5m      │ TTL for cached reports           │
//	│ ScaleUpQueueThreshold   │ 2       │ Queue depth that triggers growth │
//	│ ScaleDownIdleThreshold  │ 2       │ Idle count that triggers shrink  │
//	│ AutoscalePeriod         │ 30s     │ Autoscale tick interval          │
//	└─────────────────────────┴─────────┴──────────────────────────────────┘
//
// # Ingest Configuration
//
//	┌──────────────┬──────────────────────────────────────┬────────────────────────┐
//	│ Field        │ Default                              │ Description            │
//	├──────────────┼──────────────────────────────────────┼────────────────────────┤
//	│ Enabled      │ true                                 │ Run the feed poller    │
//	│ FeedURL      │ https://zkillredisq.stream/listen.php│ Long-poll feed URL     │
//	│ PollInterval │ 2s                                   │ Wait between idle polls│
//	└──────────────┴──────────────────────────────────────┴────────────────────────┘
//
// # Usage Example
//
//	cfg, err := config.Load("") // implicit ./intelboard.yaml
//	if err != nil {
//	    return err
//	}
//	p, err := pool.New(cfg.PoolConfig())
//
// Environment overrides use underscores for nesting:
//
//	INTELBOARD_SERVER_HTTP_PORT=9000
//	INTELBOARD_POOL_MAX_SIZE=16
package config
