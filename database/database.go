// Package database opens the relational store, applies the embedded
// migrations with golang-migrate and classifies driver errors.
package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type Config struct {
	Driver string
	DSN    string
}

// DriverFor picks the driver from the DSN scheme: postgres URLs and
// key=value strings go to lib/pq, everything else to sqlite.
func DriverFor(dsn string) string {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return DriverPostgres
	case strings.Contains(dsn, "host=") && strings.Contains(dsn, "dbname="):
		return DriverPostgres
	default:
		return DriverSQLite
	}
}

// New connects, checks the connection and brings the schema up to date.
func New(cfg Config, log *logrus.Logger) (*sqlx.DB, error) {
	if cfg.Driver == "" {
		cfg.Driver = DriverFor(cfg.DSN)
	}

	db, err := sqlx.Connect(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Driver, err)
	}

	if cfg.Driver == DriverPostgres {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	log.WithFields(logrus.Fields{
		"driver": cfg.Driver,
	}).Info("Database connection established")

	if err := Migrate(cfg, log); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate applies every pending migration. It uses its own connection so
// closing the migrator never closes the application pool; for a shared
// in-memory sqlite database the caller must keep another connection open.
func Migrate(cfg Config, log *logrus.Logger) error {
	if cfg.Driver == "" {
		cfg.Driver = DriverFor(cfg.DSN)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("open migrations source: %w", err)
	}

	conn, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		_ = source.Close()
		return fmt.Errorf("open migrations connection: %w", err)
	}

	var driver migratedb.Driver
	switch cfg.Driver {
	case DriverPostgres:
		driver, err = migratepg.WithInstance(conn, &migratepg.Config{})
	case DriverSQLite:
		driver, err = migratesqlite.WithInstance(conn, &migratesqlite.Config{})
	default:
		err = fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
	if err != nil {
		_ = source.Close()
		_ = conn.Close()
		return fmt.Errorf("init migrations driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, cfg.Driver, driver)
	if err != nil {
		_ = source.Close()
		_ = driver.Close()
		return fmt.Errorf("init migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	log.WithFields(logrus.Fields{
		"version": version,
		"dirty":   dirty,
	}).Info("Migrations applied")

	return nil
}

// IsUniqueViolation reports whether err comes from a UNIQUE or PRIMARY KEY
// constraint on either driver.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	return false
}

func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqForeignKeyViolation
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}

	return false
}

// ReadinessChecker backs the /health/ready endpoint.
type ReadinessChecker struct {
	db *sqlx.DB
}

func NewReadinessChecker(db *sqlx.DB) *ReadinessChecker {
	return &ReadinessChecker{db: db}
}

func (c *ReadinessChecker) CheckReady(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return c.db.PingContext(ctx)
}
