package services

import (
	"context"
	"time"

	"github.com/veldspar/intelboard/internal/models"
	"github.com/veldspar/intelboard/internal/store"
)

type KillmailService struct {
	store *store.Store
}

func NewKillmailService(st *store.Store) *KillmailService {
	return &KillmailService{store: st}
}

type KillmailListParams struct {
	Characters   []int64
	Corporations []int64
	SolarSystems []int64
	ShipTypes    []int64
	MinValue     float64
	MaxValue     float64
	Since        time.Time
	Until        time.Time
	Limit        uint64
	Offset       uint64
}

type KillmailListResult struct {
	Killmails []models.Killmail
	Total     int
}

func (s *KillmailService) Get(ctx context.Context, id int64) (*models.Killmail, error) {
	return s.store.Killmails().Get(ctx, id)
}

func (s *KillmailService) List(ctx context.Context, params KillmailListParams) (*KillmailListResult, error) {
	opts := s.buildListOptions(params)
	opts = append(opts, store.WithDefaultSort())
	if params.Limit > 0 {
		opts = append(opts, store.WithLimit(params.Limit))
	}
	if params.Offset > 0 {
		opts = append(opts, store.WithOffset(params.Offset))
	}

	kms, err := s.store.Killmails().List(ctx, opts...)
	if err != nil {
		return nil, err
	}

	// Count with the same filters but no pagination
	total, err := s.store.Killmails().Count(ctx, s.buildListOptions(params)...)
	if err != nil {
		return nil, err
	}

	return &KillmailListResult{
		Killmails: kms,
		Total:     total,
	}, nil
}

func (s *KillmailService) buildListOptions(params KillmailListParams) []store.ListOption {
	var opts []store.ListOption

	if len(params.Characters) > 0 {
		opts = append(opts, store.ByCharacters(params.Characters...))
	}
	if len(params.Corporations) > 0 {
		opts = append(opts, store.ByCorporations(params.Corporations...))
	}
	if len(params.SolarSystems) > 0 {
		opts = append(opts, store.BySolarSystems(params.SolarSystems...))
	}
	if len(params.ShipTypes) > 0 {
		opts = append(opts, store.ByShipTypes(params.ShipTypes...))
	}
	if params.MinValue > 0 || params.MaxValue > 0 {
		opts = append(opts, store.ByValueRange(params.MinValue, params.MaxValue))
	}
	if !params.Since.IsZero() {
		opts = append(opts, store.Since(params.Since))
	}
	if !params.Until.IsZero() {
		opts = append(opts, store.Until(params.Until))
	}

	return opts
}
