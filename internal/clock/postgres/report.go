package postgres

import (
	"context"

	"github.com/frahmantamala/employee-dashboard/internal/clock"
	"github.com/jmoiron/sqlx"
)

const listReportQuery = `
SELECT e.id, e.owner_email, COALESCE(p.full_name, '') AS full_name, e.clock_in, e.clock_out
FROM clock_entries e
LEFT JOIN principals p ON p.email = e.owner_email
ORDER BY e.clock_in DESC`

const listReportByOwnerQuery = `
SELECT e.id, e.owner_email, COALESCE(p.full_name, '') AS full_name, e.clock_in, e.clock_out
FROM clock_entries e
LEFT JOIN principals p ON p.email = e.owner_email
WHERE e.owner_email = ?
ORDER BY e.clock_in DESC`

// ReportStore reads the admin clock report straight from SQL.
type ReportStore struct {
	db *sqlx.DB
}

func NewReportStore(db *sqlx.DB) *ReportStore {
	return &ReportStore{db: db}
}

func (s *ReportStore) ListAll(ctx context.Context) ([]*clock.ReportRow, error) {
	rows := []*clock.ReportRow{}
	if err := s.db.SelectContext(ctx, &rows, listReportQuery); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *ReportStore) ListByEmail(ctx context.Context, email string) ([]*clock.ReportRow, error) {
	rows := []*clock.ReportRow{}
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(listReportByOwnerQuery), email); err != nil {
		return nil, err
	}
	return rows, nil
}
