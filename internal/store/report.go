package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/veldspar/intelboard/internal/models"
	srvErrors "github.com/veldspar/intelboard/pkg/errors"
)

// ReportStore persists the latest analysis report per subject and kind.
type ReportStore struct {
	db *sql.DB
}

func NewReportStore(db *sql.DB) *ReportStore {
	return &ReportStore{db: db}
}

// Save stores or updates the report for its subject and kind.
func (s *ReportStore) Save(ctx context.Context, r *models.AnalysisReport) error {
	_, err := s.db.ExecContext(ctx, queryUpsertReport,
		r.SubjectID, r.Kind, r.Score, r.Kills, r.Losses,
		r.ISKDestroyed, r.ISKLost, r.Efficiency, r.DangerRatio,
		r.GeneratedAt.UTC(),
	)
	return err
}

// Get retrieves the latest report for a subject and kind.
func (s *ReportStore) Get(ctx context.Context, subjectID int64, kind string) (*models.AnalysisReport, error) {
	row := s.db.QueryRowContext(ctx, queryGetReport, subjectID, kind)

	var r models.AnalysisReport
	err := row.Scan(
		&r.SubjectID, &r.Kind, &r.Score, &r.Kills, &r.Losses,
		&r.ISKDestroyed, &r.ISKLost, &r.Efficiency, &r.DangerRatio,
		&r.GeneratedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, srvErrors.NewReportNotFoundError(subjectID, kind)
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}
