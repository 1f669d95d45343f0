package billing_config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/revloop/revloop/internal/utils"
)

var ErrOverrideNotFound = errors.New("configuration override not found")

type OverrideRepo interface {
	Store(ctx context.Context, override Override) (int, error)
	GetAllForProject(ctx context.Context, projectId int) ([]Override, error)
	Update(ctx context.Context, override Override) error
	Delete(ctx context.Context, id int) error
}

type OverrideRepoImpl struct {
	db *sql.DB
}

func NewOverrideRepo(db *sql.DB) *OverrideRepoImpl {
	return &OverrideRepoImpl{db: db}
}

func (r *OverrideRepoImpl) Store(ctx context.Context, override Override) (int, error) {
	query := `INSERT INTO project_config_override (project_id, attribute, effective_month, value)
				VALUES ($1, $2, $3, $4) RETURNING id`

	var id int
	err := r.db.QueryRowContext(ctx, query,
		override.ProjectID,
		string(override.Attribute),
		override.EffectiveMonth.String(),
		override.Value,
	).Scan(&id)
	if err != nil {
		err := fmt.Errorf("could not store configuration override: %w", err)
		log.Error(err)
		return 0, err
	}
	return id, nil
}

func (r *OverrideRepoImpl) GetAllForProject(ctx context.Context, projectId int) ([]Override, error) {
	query := `SELECT id, project_id, attribute, effective_month, value
				FROM project_config_override
				WHERE project_id = $1
				ORDER BY attribute, effective_month`
	rows, err := r.db.QueryContext(ctx, query, projectId)
	if err != nil {
		err := fmt.Errorf("could not query configuration overrides: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var overrides []Override
	for rows.Next() {
		var override Override
		var attribute, effectiveMonth string
		if err := rows.Scan(&override.ID, &override.ProjectID, &attribute, &effectiveMonth, &override.Value); err != nil {
			err := fmt.Errorf("could not scan configuration override: %w", err)
			log.Error(err)
			return nil, err
		}
		override.Attribute = Attribute(attribute)
		override.EffectiveMonth, err = utils.ParseMonth(effectiveMonth)
		if err != nil {
			err := fmt.Errorf("could not parse effective month from database: %w", err)
			log.Error(err)
			return nil, err
		}
		overrides = append(overrides, override)
	}

	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}

	return overrides, nil
}

func (r *OverrideRepoImpl) Update(ctx context.Context, override Override) error {
	query := `UPDATE project_config_override
				SET attribute = $1, effective_month = $2, value = $3
				WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query,
		string(override.Attribute),
		override.EffectiveMonth.String(),
		override.Value,
		override.ID,
	)
	if err != nil {
		err := fmt.Errorf("could not update configuration override: %w", err)
		log.Error(err)
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not get rows affected: %w", err)
		log.Error(err)
		return err
	}
	if rowsAffected == 0 {
		return ErrOverrideNotFound
	}
	return nil
}

func (r *OverrideRepoImpl) Delete(ctx context.Context, id int) error {
	query := "DELETE FROM project_config_override WHERE id = $1"
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		err := fmt.Errorf("could not delete configuration override: %w", err)
		log.Error(err)
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not get rows affected: %w", err)
		log.Error(err)
		return err
	}
	if rowsAffected == 0 {
		return ErrOverrideNotFound
	}
	return nil
}
