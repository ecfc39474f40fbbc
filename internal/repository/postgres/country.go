package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sakif/travel-tracker/internal/apperror"
	"github.com/sakif/travel-tracker/internal/model"
)

func (s *Store) FindExact(ctx context.Context, name string) (*model.Country, error) {
	return s.findCountry(ctx, "exact",
		`SELECT country_code, country FROM countries
		 WHERE LOWER(country) = LOWER($1)
		 ORDER BY country_code
		 LIMIT 1`,
		name,
	)
}

// FindContaining uses strpos so user input is never treated as a LIKE pattern.
func (s *Store) FindContaining(ctx context.Context, name string) (*model.Country, error) {
	return s.findCountry(ctx, "containing",
		`SELECT country_code, country FROM countries
		 WHERE strpos(LOWER(country), LOWER($1)) > 0
		 ORDER BY length(country), country_code
		 LIMIT 1`,
		name,
	)
}

func (s *Store) findCountry(ctx context.Context, kind, query, name string) (*model.Country, error) {
	var c model.Country
	err := s.pool.QueryRow(ctx, query, name).Scan(&c.Code, &c.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("country", name)
		}
		return nil, fmt.Errorf("postgres: finding country (%s) %q: %w", kind, name, err)
	}
	return &c, nil
}
