package pool

// Stats is a point-in-time snapshot of pool occupancy, computed on demand
// from live state inside the dispatcher loop.
type Stats struct {
	PoolSize       int     `json:"pool_size"`
	TargetSize     int     `json:"target_size"`
	Idle           int     `json:"idle"`
	Busy           int     `json:"busy"`
	QueueLength    int     `json:"queue_length"`
	TotalProcessed uint64  `json:"total_processed"`
	Utilization    float64 `json:"utilization"`
}
