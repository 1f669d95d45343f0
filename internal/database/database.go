package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/revloop/revloop/internal/config"
	_ "modernc.org/sqlite"
)

// Open opens the configured SQL database. SQLite is the default backend and
// needs no external service; Postgres is used when cfg.Driver is "postgres".
func Open(cfg config.Database) (*sql.DB, error) {
	switch cfg.Driver {
	case "", "sqlite":
		db, err := sql.Open("sqlite", cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		return db, nil
	case "postgres":
		escapedPassword := strings.ReplaceAll(cfg.Pass, "'", "\\'")
		psqlInfo := fmt.Sprintf("host=%s port=%d user=%s password='%s' dbname=%s sslmode=disable",
			cfg.Host, cfg.Port, cfg.User, escapedPassword, cfg.Name)
		db, err := sql.Open("pgx", psqlInfo)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres database: %w", err)
		}
		if err := db.Ping(); err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}
}

// Migrate applies all pending migrations from the migrations directory to the
// already-opened database.
func Migrate(db *sql.DB, cfg config.Database) error {
	migrationsPath, err := findMigrationsPath()
	if err != nil {
		return fmt.Errorf("failed to locate migrations directory: %w", err)
	}

	var m *migrate.Migrate
	switch cfg.Driver {
	case "", "sqlite":
		driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
		if err != nil {
			return fmt.Errorf("failed to create sqlite migration driver: %w", err)
		}
		m, err = migrate.NewWithDatabaseInstance("file://"+filepath.Join(migrationsPath, "sqlite"), "sqlite", driver)
		if err != nil {
			return fmt.Errorf("failed to create migrate instance: %w", err)
		}
	case "postgres":
		driver, err := migratepgx.WithInstance(db, &migratepgx.Config{})
		if err != nil {
			return fmt.Errorf("failed to create postgres migration driver: %w", err)
		}
		m, err = migrate.NewWithDatabaseInstance("file://"+filepath.Join(migrationsPath, "postgres"), "pgx", driver)
		if err != nil {
			return fmt.Errorf("failed to create migrate instance: %w", err)
		}
	default:
		return fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// findMigrationsPath searches upward from the current working directory for a
// "migrations" directory and returns its absolute path. This makes migrations
// resolution robust in tests where the working directory can be different from
// the project root.
func findMigrationsPath() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(dir, "migrations")
		info, err := os.Stat(candidate)
		if err == nil && info.IsDir() {
			abs, err := filepath.Abs(candidate)
			if err != nil {
				return "", err
			}
			return abs, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("migrations directory not found")
}
