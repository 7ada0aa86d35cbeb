package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/veldspar/intelboard/internal/models"
	srvErrors "github.com/veldspar/intelboard/pkg/errors"
)

// KillmailStore persists ingested killmails.
type KillmailStore struct {
	db *sql.DB
}

func NewKillmailStore(db *sql.DB) *KillmailStore {
	return &KillmailStore{db: db}
}

// Insert stores a killmail. Re-inserting an already known id is a no-op, so
// feed replays are harmless.
func (s *KillmailStore) Insert(ctx context.Context, km *models.Killmail) error {
	_, err := s.db.ExecContext(ctx, queryInsertKillmail,
		km.ID, km.Hash, km.VictimCharacterID, km.VictimCorporationID,
		km.FinalBlowCharacterID, km.ShipTypeID, km.SolarSystemID,
		km.AttackerCount, km.Value, km.OccurredAt.UTC(),
	)
	return err
}

// Get retrieves one killmail by id.
func (s *KillmailStore) Get(ctx context.Context, id int64) (*models.Killmail, error) {
	row := s.db.QueryRowContext(ctx, queryGetKillmail, id)
	km, err := scanKillmail(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, srvErrors.NewKillmailNotFoundError(id)
	}
	if err != nil {
		return nil, err
	}
	return km, nil
}

func (s *KillmailStore) List(ctx context.Context, opts ...ListOption) ([]models.Killmail, error) {
	builder := sq.Select(
		"id", "hash", "victim_character_id", "victim_corporation_id",
		"final_blow_character_id", "ship_type_id", "solar_system_id",
		"attacker_count", "value", "occurred_at",
	).From("killmails")

	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var kms []models.Killmail
	for rows.Next() {
		km, err := scanKillmail(rows)
		if err != nil {
			return nil, err
		}
		kms = append(kms, *km)
	}
	return kms, rows.Err()
}

func (s *KillmailStore) Count(ctx context.Context, opts ...ListOption) (int, error) {
	builder := sq.Select("COUNT(*)").From("killmails")

	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

// SubjectStats aggregates kills, losses and ISK flow for one character.
func (s *KillmailStore) SubjectStats(ctx context.Context, characterID int64) (*models.SubjectStats, error) {
	var stats models.SubjectStats
	err := s.db.QueryRowContext(ctx, querySubjectStats, characterID).Scan(
		&stats.Kills, &stats.Losses, &stats.ISKDestroyed, &stats.ISKLost,
	)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// Totals returns the killmail count and total ISK destroyed across the whole
// board.
func (s *KillmailStore) Totals(ctx context.Context) (int, float64, error) {
	var count int
	var value float64
	err := s.db.QueryRowContext(ctx, queryKillboardTotals).Scan(&count, &value)
	return count, value, err
}

// CorporationLosses aggregates loss count and ISK lost for one corporation.
// The feed only attributes victims to corporations, so kills are not tracked
// at this level.
func (s *KillmailStore) CorporationLosses(ctx context.Context, corporationID int64) (int, float64, error) {
	var losses int
	var isk float64
	err := s.db.QueryRowContext(ctx, queryCorporationLosses, corporationID).Scan(&losses, &isk)
	return losses, isk, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanKillmail(row scanner) (*models.Killmail, error) {
	var km models.Killmail
	err := row.Scan(
		&km.ID, &km.Hash, &km.VictimCharacterID, &km.VictimCorporationID,
		&km.FinalBlowCharacterID, &km.ShipTypeID, &km.SolarSystemID,
		&km.AttackerCount, &km.Value, &km.OccurredAt,
	)
	if err != nil {
		return nil, err
	}
	return &km, nil
}

type ListOption func(sq.SelectBuilder) sq.SelectBuilder

func ByCharacters(characterIDs ...int64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(characterIDs) == 0 {
			return b
		}
		return b.Where(sq.Or{
			sq.Eq{"victim_character_id": characterIDs},
			sq.Eq{"final_blow_character_id": characterIDs},
		})
	}
}

func ByCorporations(corporationIDs ...int64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(corporationIDs) == 0 {
			return b
		}
		return b.Where(sq.Eq{"victim_corporation_id": corporationIDs})
	}
}

func BySolarSystems(systemIDs ...int64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(systemIDs) == 0 {
			return b
		}
		return b.Where(sq.Eq{"solar_system_id": systemIDs})
	}
}

func ByShipTypes(shipTypeIDs ...int64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(shipTypeIDs) == 0 {
			return b
		}
		return b.Where(sq.Eq{"ship_type_id": shipTypeIDs})
	}
}

func ByValueRange(min, max float64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		b = b.Where(sq.GtOrEq{"value": min})
		if max > 0 {
			b = b.Where(sq.Lt{"value": max})
		}
		return b
	}
}

func Since(t time.Time) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Where(sq.GtOrEq{"occurred_at": t.UTC()})
	}
}

func Until(t time.Time) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Where(sq.Lt{"occurred_at": t.UTC()})
	}
}

func WithLimit(limit uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Limit(limit)
	}
}

func WithOffset(offset uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Offset(offset)
	}
}

// WithDefaultSort orders newest kills first.
func WithDefaultSort() ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.OrderBy("occurred_at DESC", "id DESC")
	}
}
