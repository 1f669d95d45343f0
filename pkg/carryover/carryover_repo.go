package carryover

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/revloop/revloop/internal/utils"
)

var ErrNoLedgerEntry = errors.New("no carryover ledger entry")

type LedgerRepo interface {
	// Upsert stores the entry, replacing any existing row for the same
	// (project, source month) key.
	Upsert(ctx context.Context, entry LedgerEntry) error
	// Delete removes the row for the key; deleting a missing row is not an error.
	Delete(ctx context.Context, projectId int, sourceMonth utils.Month) error
	// FindLatestBefore returns the entry with the greatest source month
	// strictly before targetMonth, or ErrNoLedgerEntry.
	FindLatestBefore(ctx context.Context, projectId int, targetMonth utils.Month) (LedgerEntry, error)
	GetAllForProject(ctx context.Context, projectId int) ([]LedgerEntry, error)
}

type LedgerRepoImpl struct {
	db *sql.DB
}

func NewLedgerRepo(db *sql.DB) *LedgerRepoImpl {
	return &LedgerRepoImpl{db: db}
}

func (r *LedgerRepoImpl) Upsert(ctx context.Context, entry LedgerEntry) error {
	query := `INSERT INTO carryover_ledger (project_id, source_month, carryover_hours, actual_hours_worked, maximum_applied)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (project_id, source_month) DO UPDATE SET
					carryover_hours = excluded.carryover_hours,
					actual_hours_worked = excluded.actual_hours_worked,
					maximum_applied = excluded.maximum_applied`

	maximumApplied := 0
	if entry.MaximumApplied {
		maximumApplied = 1
	}
	_, err := r.db.ExecContext(ctx, query,
		entry.ProjectID,
		entry.SourceMonth.String(),
		entry.CarryoverHours.String(),
		entry.ActualHoursWorked.String(),
		maximumApplied,
	)
	if err != nil {
		err := fmt.Errorf("could not upsert carryover ledger entry: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *LedgerRepoImpl) Delete(ctx context.Context, projectId int, sourceMonth utils.Month) error {
	query := "DELETE FROM carryover_ledger WHERE project_id = $1 AND source_month = $2"
	_, err := r.db.ExecContext(ctx, query, projectId, sourceMonth.String())
	if err != nil {
		err := fmt.Errorf("could not delete carryover ledger entry: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *LedgerRepoImpl) FindLatestBefore(ctx context.Context, projectId int, targetMonth utils.Month) (LedgerEntry, error) {
	query := `SELECT project_id, source_month, carryover_hours, actual_hours_worked, maximum_applied
				FROM carryover_ledger
				WHERE project_id = $1 AND source_month < $2
				ORDER BY source_month DESC
				LIMIT 1`

	row := r.db.QueryRowContext(ctx, query, projectId, targetMonth.String())
	entry, err := scanLedgerEntry(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return LedgerEntry{}, ErrNoLedgerEntry
		}
		err := fmt.Errorf("could not load carryover ledger entry: %w", err)
		log.Error(err)
		return LedgerEntry{}, err
	}
	return entry, nil
}

func (r *LedgerRepoImpl) GetAllForProject(ctx context.Context, projectId int) ([]LedgerEntry, error) {
	query := `SELECT project_id, source_month, carryover_hours, actual_hours_worked, maximum_applied
				FROM carryover_ledger
				WHERE project_id = $1
				ORDER BY source_month`

	rows, err := r.db.QueryContext(ctx, query, projectId)
	if err != nil {
		err := fmt.Errorf("could not query carryover ledger: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var entries []LedgerEntry
	for rows.Next() {
		entry, err := scanLedgerEntry(rows.Scan)
		if err != nil {
			err := fmt.Errorf("could not scan carryover ledger entry: %w", err)
			log.Error(err)
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}

	return entries, nil
}

func scanLedgerEntry(scan func(dest ...any) error) (LedgerEntry, error) {
	var entry LedgerEntry
	var sourceMonth, carryoverHours, actualHours string
	var maximumApplied int

	if err := scan(&entry.ProjectID, &sourceMonth, &carryoverHours, &actualHours, &maximumApplied); err != nil {
		return LedgerEntry{}, err
	}

	var err error
	entry.SourceMonth, err = utils.ParseMonth(sourceMonth)
	if err != nil {
		return LedgerEntry{}, fmt.Errorf("could not parse source month from database: %w", err)
	}
	entry.CarryoverHours, err = decimal.NewFromString(carryoverHours)
	if err != nil {
		return LedgerEntry{}, fmt.Errorf("could not parse carryover hours from database: %w", err)
	}
	entry.ActualHoursWorked, err = decimal.NewFromString(actualHours)
	if err != nil {
		return LedgerEntry{}, fmt.Errorf("could not parse actual hours from database: %w", err)
	}
	entry.MaximumApplied = maximumApplied == 1
	return entry, nil
}
