package entry

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/revloop/revloop/internal/utils"
)

const dateFormat = "2006-01-02"

type EntryRepo interface {
	// Store persists an ingested entry. Used by the ingestion glue, not by
	// the billing computation itself.
	Store(ctx context.Context, entry TimesheetEntry) (int, error)
	// GetForMonth returns all entries whose work date falls within the month.
	GetForMonth(ctx context.Context, month utils.Month) ([]TimesheetEntry, error)
}

type EntryRepoImpl struct {
	db *sql.DB
}

func NewEntryRepo(db *sql.DB) *EntryRepoImpl {
	return &EntryRepoImpl{db: db}
}

func (r *EntryRepoImpl) Store(ctx context.Context, entry TimesheetEntry) (int, error) {
	query := `INSERT INTO timesheet_entry (work_date, project_ref, client_ref, user_ref, task_name, total_minutes)
				VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`

	var id int
	err := r.db.QueryRowContext(ctx, query,
		entry.WorkDate.Format(dateFormat),
		entry.ProjectRef,
		entry.ClientRef,
		entry.UserRef,
		entry.TaskName,
		entry.TotalMinutes,
	).Scan(&id)
	if err != nil {
		err := fmt.Errorf("could not store timesheet entry: %w", err)
		log.Error(err)
		return 0, err
	}
	return id, nil
}

func (r *EntryRepoImpl) GetForMonth(ctx context.Context, month utils.Month) ([]TimesheetEntry, error) {
	query := `SELECT id, work_date, project_ref, client_ref, user_ref, task_name, total_minutes
				FROM timesheet_entry
				WHERE work_date >= $1 AND work_date < $2
				ORDER BY work_date, id`

	from := month.Start().Format(dateFormat)
	to := month.End().Format(dateFormat)

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		err := fmt.Errorf("could not query timesheet entries: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var entries []TimesheetEntry
	for rows.Next() {
		var e TimesheetEntry
		var workDateString string
		if err := rows.Scan(
			&e.ID,
			&workDateString,
			&e.ProjectRef,
			&e.ClientRef,
			&e.UserRef,
			&e.TaskName,
			&e.TotalMinutes,
		); err != nil {
			err := fmt.Errorf("could not scan timesheet entry: %w", err)
			log.Error(err)
			return nil, err
		}
		e.WorkDate, err = time.Parse(dateFormat, workDateString)
		if err != nil {
			err := fmt.Errorf("could not parse work date from database: %w", err)
			log.Error(err)
			return nil, err
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}

	return entries, nil
}
