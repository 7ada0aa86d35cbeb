package services

import (
	"context"

	"github.com/veldspar/intelboard/internal/store"
	"github.com/veldspar/intelboard/pkg/pool"
)

// StatsService assembles the dashboard snapshot pushed over the stats
// websocket and served on the stats endpoint.
type StatsService struct {
	pool  *pool.Pool
	store *store.Store
}

func NewStatsService(p *pool.Pool, st *store.Store) *StatsService {
	return &StatsService{pool: p, store: st}
}

type DashboardStats struct {
	Pool         pool.Stats `json:"pool"`
	Killmails    int        `json:"killmails"`
	ISKDestroyed float64    `json:"iskDestroyed"`
}

func (s *StatsService) Pool() pool.Stats {
	return s.pool.Stats()
}

func (s *StatsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	count, value, err := s.store.Killmails().Totals(ctx)
	if err != nil {
		return nil, err
	}
	return &DashboardStats{
		Pool:         s.pool.Stats(),
		Killmails:    count,
		ISKDestroyed: value,
	}, nil
}
