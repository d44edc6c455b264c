// Package db opens the application database and ensures the schema exists.
// Two drivers are supported: embedded sqlite (the default, a single-file
// database like the original deployments) and postgres via the pgx stdlib
// adapter for shared installs.
package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Open opens a database, verifies connectivity, and applies the schema.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite"
		if dsn == "" {
			dsn = "file:rangelog.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx"
		if dsn == "" {
			dsn = "postgres://localhost:5432/rangelog?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	if err := EnsureSchema(ctx, db, driver); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the tables if they do not exist. Safe to run on a
// database that already has them.
func EnsureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	var schema string
	switch driver {
	case DriverSQLite:
		schema = schemaSQLite
	case DriverPostgres:
		schema = schemaPostgres
	default:
		return fmt.Errorf("unsupported driver: %s", driver)
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS users (
  id INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL,
  username TEXT NOT NULL UNIQUE,
  hash TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS clubs (
  id INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL,
  user_id INTEGER NOT NULL REFERENCES users(id),
  name TEXT NOT NULL,
  loft REAL,
  notes TEXT,
  bag_order INTEGER
);

CREATE TABLE IF NOT EXISTS shots (
  id INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL,
  club_id INTEGER NOT NULL REFERENCES clubs(id),
  date TEXT NOT NULL,
  distance REAL NOT NULL,
  result TEXT,
  context TEXT
);

CREATE INDEX IF NOT EXISTS idx_clubs_user ON clubs(user_id);
CREATE INDEX IF NOT EXISTS idx_shots_club ON shots(club_id);
CREATE INDEX IF NOT EXISTS idx_shots_date ON shots(date);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS users (
  id BIGSERIAL PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  hash TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS clubs (
  id BIGSERIAL PRIMARY KEY,
  user_id BIGINT NOT NULL REFERENCES users(id),
  name TEXT NOT NULL,
  loft DOUBLE PRECISION,
  notes TEXT,
  bag_order INTEGER
);

CREATE TABLE IF NOT EXISTS shots (
  id BIGSERIAL PRIMARY KEY,
  club_id BIGINT NOT NULL REFERENCES clubs(id),
  date TEXT NOT NULL,
  distance DOUBLE PRECISION NOT NULL,
  result TEXT,
  context TEXT
);

CREATE INDEX IF NOT EXISTS idx_clubs_user ON clubs(user_id);
CREATE INDEX IF NOT EXISTS idx_shots_club ON shots(club_id);
CREATE INDEX IF NOT EXISTS idx_shots_date ON shots(date);
`
