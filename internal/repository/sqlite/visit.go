package sqlite

import (
	"context"
	"fmt"
)

// ListCodes returns the country codes a user has visited, sorted by code.
// A user with no visits gets an empty, non-nil slice.
func (db *DB) ListCodes(ctx context.Context, userID int64) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT country_code FROM visited_countries WHERE user_id = ? ORDER BY country_code`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing visits for user %d: %w", userID, err)
	}
	defer rows.Close()

	codes := []string{}
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("sqlite: scanning visit: %w", err)
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating visits: %w", err)
	}
	return codes, nil
}

func (db *DB) Exists(ctx context.Context, userID int64, code string) (bool, error) {
	var exists bool
	err := db.conn.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM visited_countries WHERE user_id = ? AND country_code = ?)`,
		userID, code,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking visit (%d, %s): %w", userID, code, err)
	}
	return exists, nil
}

// Add records a visit. There is no unique constraint on the pair; callers
// check Exists first.
func (db *DB) Add(ctx context.Context, userID int64, code string) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO visited_countries (country_code, user_id) VALUES (?, ?)`,
		code, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: adding visit (%d, %s): %w", userID, code, err)
	}
	return nil
}
