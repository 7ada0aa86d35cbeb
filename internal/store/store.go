package store

import "database/sql"

// Store provides access to all storage repositories.
type Store struct {
	db        *sql.DB
	killmails *KillmailStore
	reports   *ReportStore
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:        db,
		killmails: NewKillmailStore(db),
		reports:   NewReportStore(db),
	}
}

func (s *Store) Killmails() *KillmailStore {
	return s.killmails
}

func (s *Store) Reports() *ReportStore {
	return s.reports
}

func (s *Store) Close() error {
	return s.db.Close()
}
