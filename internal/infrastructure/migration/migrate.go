// Package migration applies the SQL schema migrations to PostgreSQL.
//
// Migrations are read either from the binary (migrations.FS) or from a
// directory on disk, so operators can run a newer schema without a rebuild.
package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

// Source tells the Migrator where to read migrations from
type Source struct {
	// FS is used when set; Path is ignored then.
	FS   fs.FS
	Path string
}

// DirSource reads migrations from a directory on disk
func DirSource(path string) Source {
	return Source{Path: path}
}

// EmbeddedSource reads migrations from an embedded file system
func EmbeddedSource(fsys fs.FS) Source {
	return Source{FS: fsys}
}

// Migrator runs schema migrations with golang-migrate
type Migrator struct {
	m      *migrate.Migrate
	logger *zap.Logger
}

// New creates a Migrator on an open PostgreSQL connection
func New(db *sql.DB, src Source, logger *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{MigrationsTable: "schema_migrations"})
	if err != nil {
		return nil, fmt.Errorf("create postgres driver: %w", err)
	}

	var m *migrate.Migrate
	if src.FS != nil {
		d, err := iofs.New(src.FS, ".")
		if err != nil {
			return nil, fmt.Errorf("open embedded migrations: %w", err)
		}
		m, err = migrate.NewWithInstance("iofs", d, "postgres", driver)
		if err != nil {
			return nil, fmt.Errorf("create migrate instance: %w", err)
		}
	} else {
		m, err = migrate.NewWithDatabaseInstance("file://"+src.Path, "postgres", driver)
		if err != nil {
			return nil, fmt.Errorf("create migrate instance: %w", err)
		}
	}
	return newMigrator(m, logger), nil
}

func newMigrator(m *migrate.Migrate, logger *zap.Logger) *Migrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Migrator{m: m, logger: logger.Named("migration")}
}

// run executes one golang-migrate step, treating ErrNoChange as success,
// and logs the resulting schema version.
func (m *Migrator) run(op string, step func() error) error {
	m.logger.Info("Running migration", zap.String("op", op))
	err := step()
	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.Info("Schema already up to date", zap.String("op", op))
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration %s: %w", op, err)
	}
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	m.logger.Info("Migration finished",
		zap.String("op", op),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty))
	return nil
}

// Up applies every pending migration
func (m *Migrator) Up() error {
	return m.run("up", m.m.Up)
}

// Down rolls back every migration
func (m *Migrator) Down() error {
	return m.run("down", m.m.Down)
}

// Steps applies n migrations; negative n rolls back
func (m *Migrator) Steps(n int) error {
	return m.run(fmt.Sprintf("steps(%d)", n), func() error { return m.m.Steps(n) })
}

// GoTo migrates up or down to version
func (m *Migrator) GoTo(version uint) error {
	return m.run(fmt.Sprintf("goto(%d)", version), func() error { return m.m.Migrate(version) })
}

// Version returns the current schema version. A fresh database reports 0.
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read schema version: %w", err)
	}
	return version, dirty, nil
}

// Force marks version as applied without running it. Used to clear a dirty state.
func (m *Migrator) Force(version int) error {
	m.logger.Warn("Forcing schema version", zap.Int("version", version))
	if err := m.m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	return nil
}

// Drop removes every table, the ledger and audit trail included
func (m *Migrator) Drop() error {
	m.logger.Warn("Dropping every table in the database")
	if err := m.m.Drop(); err != nil {
		return fmt.Errorf("drop database: %w", err)
	}
	return nil
}

// Close releases the source and database handles
func (m *Migrator) Close() error {
	sourceErr, dbErr := m.m.Close()
	return errors.Join(sourceErr, dbErr)
}
