// Package postgres implements the repository interfaces on PostgreSQL
// using a pgx connection pool.
package postgres

import (
	"context"
	"crypto/tls"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sakif/travel-tracker/internal/repository"
	"github.com/sakif/travel-tracker/internal/repository/seed"
)

//go:embed migrations/*.sql
var migrations embed.FS

var _ repository.Store = (*Store)(nil)

// Options configures the pool.
type Options struct {
	DSN string
	// MaxConns caps the pool. 1 reproduces a single shared connection.
	MaxConns int32
	// InsecureSkipVerify accepts any server certificate, for hosted databases
	// with self-signed certs. It only applies when the DSN enables TLS.
	InsecureSkipVerify bool
}

// Store handles tracker queries against PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New builds the pool. pgxpool connects lazily, so New succeeds even when
// the server is down. Call Ping to find out.
func New(ctx context.Context, opts Options) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres: parsing DSN: %w", err)
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}
	if opts.InsecureSkipVerify {
		skipVerify(cfg.ConnConfig)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: creating pool: %w", err)
	}
	return &Store{pool: pool}, nil
}

// skipVerify turns off certificate verification on every TLS config the DSN
// produced, including sslmode=prefer fallbacks.
func skipVerify(cc *pgx.ConnConfig) {
	set := func(t *tls.Config) {
		if t != nil {
			t.InsecureSkipVerify = true
			t.VerifyPeerCertificate = nil
			t.VerifyConnection = nil
		}
	}
	set(cc.TLSConfig)
	for _, fb := range cc.Fallbacks {
		set(fb.TLSConfig)
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases every pooled connection. It always returns nil; the error
// result satisfies repository.Store.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// Migrate creates the tables if they don't exist and seeds an empty
// countries table. Safe to run against a pre-provisioned schema.
func (s *Store) Migrate(ctx context.Context) error {
	names, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)

	for _, name := range names {
		body, err := migrations.ReadFile(name)
		if err != nil {
			return fmt.Errorf("postgres: reading %s: %w", name, err)
		}
		if _, err := s.pool.Exec(ctx, string(body)); err != nil {
			return fmt.Errorf("postgres: applying %s: %w", name, err)
		}
	}

	return s.seedCountries(ctx)
}

func (s *Store) seedCountries(ctx context.Context) error {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM countries`).Scan(&count); err != nil {
		return fmt.Errorf("postgres: counting countries: %w", err)
	}
	if count > 0 {
		return nil
	}

	countries, err := seed.Countries()
	if err != nil {
		return err
	}

	rows := make([][]any, len(countries))
	for i, c := range countries {
		rows[i] = []any{c.Code, c.Name}
	}

	_, err = s.pool.CopyFrom(ctx,
		pgx.Identifier{"countries"},
		[]string{"country_code", "country"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("postgres: seeding countries: %w", err)
	}
	return nil
}
