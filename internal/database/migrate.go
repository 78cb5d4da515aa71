package database

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

// MigrateUp applies every pending migration for the dialect selected by
// rawURL.
func MigrateUp(ctx context.Context, rawURL string) (err error) {
	m, err := newMigrator(ctx, rawURL)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, closeMigrator(m)) }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// MigrateDown rolls back the given number of migrations.
func MigrateDown(ctx context.Context, rawURL string, steps int) (err error) {
	if steps <= 0 {
		return fmt.Errorf("migrate down: steps must be > 0")
	}
	m, err := newMigrator(ctx, rawURL)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, closeMigrator(m)) }()

	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}

// newMigrator opens a dedicated connection for the migration run.  The
// migrate database drivers take ownership of the pool they are given and
// close it together with the migrator.
func newMigrator(ctx context.Context, rawURL string) (*migrate.Migrate, error) {
	db, err := Open(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	var driver migratedb.Driver
	switch db.Dialect {
	case SQLite:
		driver, err = migratesqlite.WithInstance(db.DB, &migratesqlite.Config{})
	case MySQL:
		driver, err = migratemysql.WithInstance(db.DB, &migratemysql.Config{})
	case Postgres:
		driver, err = migratepgx.WithInstance(db.DB, &migratepgx.Config{})
	default:
		err = fmt.Errorf("no migration driver for %s", db.Dialect)
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init migration driver: %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations/"+string(db.Dialect))
	if err != nil {
		_ = driver.Close()
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, string(db.Dialect), driver)
	if err != nil {
		_ = src.Close()
		_ = driver.Close()
		return nil, fmt.Errorf("init migrator: %w", err)
	}
	return m, nil
}

// closeMigrator releases the migration source and the dedicated database
// connection, reporting both failures.
func closeMigrator(m *migrate.Migrate) error {
	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		sourceErr = fmt.Errorf("close migration source: %w", sourceErr)
	}
	if dbErr != nil {
		dbErr = fmt.Errorf("close migration database: %w", dbErr)
	}
	return errors.Join(sourceErr, dbErr)
}
