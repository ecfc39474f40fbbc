package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sakif/travel-tracker/internal/apperror"
	"github.com/sakif/travel-tracker/internal/model"
)

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

func (s *Store) List(ctx context.Context) ([]model.User, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, COALESCE(color, '') FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing users: %w", err)
	}

	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.User, error) {
		var u model.User
		err := row.Scan(&u.ID, &u.Name, &u.Color)
		return u, err
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: scanning users: %w", err)
	}
	if users == nil {
		users = []model.User{}
	}
	return users, nil
}

// Create inserts the user and reads the SERIAL id back with RETURNING.
func (s *Store) Create(ctx context.Context, user *model.User) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (name, color) VALUES ($1, $2) RETURNING id`,
		user.Name, user.Color,
	).Scan(&user.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperror.Conflict("user", "name", user.Name)
		}
		return fmt.Errorf("postgres: inserting user %q: %w", user.Name, err)
	}
	return nil
}
