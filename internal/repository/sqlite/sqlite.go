// Package sqlite implements the repository interfaces on SQLite.
//
// SQLite is the local-development and test backend: no server to run, and
// ":memory:" gives every test its own empty database. Production deployments
// point DATABASE_URL at Postgres instead (see package postgres).
//
// modernc.org/sqlite is a pure Go translation of SQLite, so the binary builds
// without a C toolchain.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"

	"github.com/sakif/travel-tracker/internal/repository"
	"github.com/sakif/travel-tracker/internal/repository/seed"
)

//go:embed migrations/*.sql
var migrations embed.FS

// compile-time check that *DB satisfies every repository interface
var _ repository.Store = (*DB)(nil)

// DB wraps a sql.DB limited to a single connection.
//
// ONE CONNECTION:
// The tracker was designed around one shared database connection. For SQLite
// this also matters for ":memory:" databases: every new connection in the pool
// would otherwise open its own, empty, in-memory database.
type DB struct {
	conn *sql.DB
}

// New opens the database at dbPath, applies migrations and seeds the
// countries table if it is empty.
//
// dbPath examples:
//   - "data/travel.db" → file-based database (persistent)
//   - ":memory:"       → in-memory database (tests)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets readers proceed during a write. In-memory databases report
	// "memory" and ignore it.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Off by default in SQLite. visited_countries references both other tables.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	if err := db.seedCountries(context.Background()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: seeding countries: %w", err)
	}

	return db, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping reports whether the database is reachable. Used by /healthz.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// migrate runs every embedded migration in file-name order.
//
// The statements are all CREATE ... IF NOT EXISTS, so re-running them on an
// existing database is a no-op and no version table is needed.
func (db *DB) migrate() error {
	names, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)

	for _, name := range names {
		body, err := migrations.ReadFile(name)
		if err != nil {
			return fmt.Errorf("reading %s: %w", name, err)
		}
		if _, err := db.conn.Exec(string(body)); err != nil {
			return fmt.Errorf("applying %s: %w", name, err)
		}
	}
	return nil
}

// seedCountries loads the reference list into an empty countries table.
// A table that already has rows is left untouched.
func (db *DB) seedCountries(ctx context.Context) error {
	var count int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM countries`).Scan(&count); err != nil {
		return fmt.Errorf("counting countries: %w", err)
	}
	if count > 0 {
		return nil
	}

	countries, err := seed.Countries()
	if err != nil {
		return err
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO countries (country_code, country) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing seed insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range countries {
		if _, err := stmt.ExecContext(ctx, c.Code, c.Name); err != nil {
			return fmt.Errorf("inserting country %s: %w", c.Code, err)
		}
	}

	return tx.Commit()
}
