package journal

import (
	"embed"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNoDSN is returned by Migrate when the journal is not configured.
var ErrNoDSN = errors.New("journal: dsn is empty")

// Migrate applies the embedded schema to the database at dsn. Being up to date
// is not an error.
func Migrate(dsn string) error {
	databaseURL, err := migrationURL(dsn)
	if err != nil {
		return err
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("journal: migration source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		return fmt.Errorf("journal: create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("journal: run migrations: %w", err)
	}
	return nil
}

// migrationURL rewrites a postgres URL to the pgx5 scheme the migrate driver
// registers under.
func migrationURL(dsn string) (string, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return "", ErrNoDSN
	}
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("journal: parse dsn: %w", err)
	}
	switch u.Scheme {
	case "postgres", "postgresql", "pgx5":
		u.Scheme = "pgx5"
	default:
		return "", fmt.Errorf("journal: dsn must be a postgres:// URL, got scheme %q", u.Scheme)
	}
	return u.String(), nil
}
