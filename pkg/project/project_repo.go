package project

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

var ErrProjectNotFound = errors.New("project not found")

type ProjectRepo interface {
	Store(ctx context.Context, project Project) (int, error)
	GetAll(ctx context.Context) ([]Project, error)
	FindByID(ctx context.Context, id int) (Project, error)
	Update(ctx context.Context, project Project) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type ProjectRepoImpl struct {
	db *sql.DB
}

func NewProjectRepo(db *sql.DB) *ProjectRepoImpl {
	return &ProjectRepoImpl{db: db}
}

func (r *ProjectRepoImpl) Store(ctx context.Context, project Project) (int, error) {
	query := `INSERT INTO project (uid, name, client_id, external_ref)
				VALUES ($1, $2, $3, $4) RETURNING id`

	var id int
	err := r.db.QueryRowContext(ctx, query,
		project.Uid,
		project.Name,
		project.ClientID,
		project.ExternalRef,
	).Scan(&id)
	if err != nil {
		err := fmt.Errorf("could not store project: %w", err)
		log.Error(err)
		return 0, err
	}
	return id, nil
}

func (r *ProjectRepoImpl) GetAll(ctx context.Context) ([]Project, error) {
	query := "SELECT id, uid, name, client_id, external_ref FROM project ORDER BY name"
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not query projects: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Uid, &p.Name, &p.ClientID, &p.ExternalRef); err != nil {
			err := fmt.Errorf("could not scan project: %w", err)
			log.Error(err)
			return nil, err
		}
		projects = append(projects, p)
	}

	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}

	return projects, nil
}

func (r *ProjectRepoImpl) FindByID(ctx context.Context, id int) (Project, error) {
	query := "SELECT id, uid, name, client_id, external_ref FROM project WHERE id = $1"
	row := r.db.QueryRowContext(ctx, query, id)

	var p Project
	if err := row.Scan(&p.ID, &p.Uid, &p.Name, &p.ClientID, &p.ExternalRef); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Project{}, ErrProjectNotFound
		}
		err := fmt.Errorf("could not scan project: %w", err)
		log.Error(err)
		return Project{}, err
	}
	return p, nil
}

func (r *ProjectRepoImpl) Update(ctx context.Context, project Project) (bool, error) {
	query := "UPDATE project SET name = $1, client_id = $2, external_ref = $3 WHERE id = $4"
	result, err := r.db.ExecContext(ctx, query,
		project.Name,
		project.ClientID,
		project.ExternalRef,
		project.ID,
	)
	if err != nil {
		err := fmt.Errorf("could not update project: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not get rows affected: %w", err)
		log.Error(err)
		return false, err
	}
	return rowsAffected == 1, nil
}

func (r *ProjectRepoImpl) Delete(ctx context.Context, id int) (bool, error) {
	query := "DELETE FROM project WHERE id = $1"
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		err := fmt.Errorf("could not delete project: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not get rows affected: %w", err)
		log.Error(err)
		return false, err
	}
	return rowsAffected == 1, nil
}
