package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

var ErrClientNotFound = errors.New("client not found")

type ClientRepo interface {
	Store(ctx context.Context, client Client) (int, error)
	GetAll(ctx context.Context) ([]Client, error)
	FindByID(ctx context.Context, id int) (Client, error)
}

type ClientRepoImpl struct {
	db *sql.DB
}

func NewClientRepo(db *sql.DB) *ClientRepoImpl {
	return &ClientRepoImpl{db: db}
}

func (r *ClientRepoImpl) Store(ctx context.Context, client Client) (int, error) {
	query := "INSERT INTO client (uid, name) VALUES ($1, $2) RETURNING id"

	var id int
	err := r.db.QueryRowContext(ctx, query, client.Uid, client.Name).Scan(&id)
	if err != nil {
		err := fmt.Errorf("could not store client: %w", err)
		log.Error(err)
		return 0, err
	}
	return id, nil
}

func (r *ClientRepoImpl) GetAll(ctx context.Context) ([]Client, error) {
	query := "SELECT id, uid, name FROM client ORDER BY name"
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not query clients: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var clients []Client
	for rows.Next() {
		var client Client
		if err := rows.Scan(&client.ID, &client.Uid, &client.Name); err != nil {
			err := fmt.Errorf("could not scan client: %w", err)
			log.Error(err)
			return nil, err
		}
		clients = append(clients, client)
	}

	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}

	return clients, nil
}

func (r *ClientRepoImpl) FindByID(ctx context.Context, id int) (Client, error) {
	query := "SELECT id, uid, name FROM client WHERE id = $1"
	row := r.db.QueryRowContext(ctx, query, id)

	var client Client
	if err := row.Scan(&client.ID, &client.Uid, &client.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Client{}, ErrClientNotFound
		}
		err := fmt.Errorf("could not scan client: %w", err)
		log.Error(err)
		return Client{}, err
	}
	return client, nil
}
