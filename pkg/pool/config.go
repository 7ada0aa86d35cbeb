package pool

import (
	"fmt"
	"time"
)

// Config holds the pool sizing and scheduling knobs.
type Config struct {
	DefaultSize int // workers spawned at startup
	MinSize     int // lower autoscale bound
	MaxSize     int // upper autoscale bound
	QueueLimit  int // max jobs waiting for a worker

	DefaultDeadline time.Duration // per-job execution budget when Request.Deadline is zero
	ResultTTL       time.Duration // TTL for cached results

	ScaleUpQueueThreshold  int           // queue depth above which the pool grows
	ScaleDownIdleThreshold int           // idle count above which the pool shrinks
	AutoscalePeriod        time.Duration // autoscale tick interval
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		DefaultSize:            4,
		MinSize:                1,
		MaxSize:                8,
		QueueLimit:             64,
		DefaultDeadline:        30 * time.Second,
		ResultTTL:              5 * time.Minute,
		ScaleUpQueueThreshold:  2,
		ScaleDownIdleThreshold: 2,
		AutoscalePeriod:        30 * time.Second,
	}
}

func (c Config) validate() error {
	if c.MinSize < 1 {
		return fmt.Errorf("pool: MinSize must be >= 1, got %d", c.MinSize)
	}
	if c.MaxSize < c.MinSize {
		return fmt.Errorf("pool: MaxSize %d < MinSize %d", c.MaxSize, c.MinSize)
	}
	if c.DefaultSize < c.MinSize || c.DefaultSize > c.MaxSize {
		return fmt.Errorf("pool: DefaultSize %d outside [%d, %d]", c.DefaultSize, c.MinSize, c.MaxSize)
	}
	if c.QueueLimit < 1 {
		return fmt.Errorf("pool: QueueLimit must be >= 1, got %d", c.QueueLimit)
	}
	if c.DefaultDeadline <= 0 {
		return fmt.Errorf("pool: DefaultDeadline must be positive")
	}
	if c.AutoscalePeriod <= 0 {
		return fmt.Errorf("pool: AutoscalePeriod must be positive")
	}
	return nil
}

// Cache is the external result cache consulted before synchronous admission
// and written on success. Writes are best-effort; the pool never reads back
// what it wrote.
type Cache interface {
	Get(namespace, key string) (any, bool)
	Put(namespace, key string, value any, ttl time.Duration)
}

// Sink receives one observation per job outcome. Delivery is best-effort;
// the pool does not depend on it.
type Sink interface {
	Observe(event string, duration time.Duration, tags map[string]string)
}
