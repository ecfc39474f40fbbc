package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

func (s *Store) ListCodes(ctx context.Context, userID int64) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT country_code FROM visited_countries WHERE user_id = $1 ORDER BY country_code`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing visits for user %d: %w", userID, err)
	}

	codes, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("postgres: scanning visits: %w", err)
	}
	if codes == nil {
		codes = []string{}
	}
	return codes, nil
}

func (s *Store) Exists(ctx context.Context, userID int64, code string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM visited_countries WHERE user_id = $1 AND country_code = $2)`,
		userID, code,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("postgres: checking visit (%d, %s): %w", userID, code, err)
	}
	return exists, nil
}

func (s *Store) Add(ctx context.Context, userID int64, code string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO visited_countries (country_code, user_id) VALUES ($1, $2)`,
		code, userID,
	)
	if err != nil {
		return fmt.Errorf("postgres: adding visit (%d, %s): %w", userID, code, err)
	}
	return nil
}
