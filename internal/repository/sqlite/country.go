package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sakif/travel-tracker/internal/apperror"
	"github.com/sakif/travel-tracker/internal/model"
)

// FindExact looks a country up by its full name, ignoring case.
// SQLite's LOWER only folds ASCII, which covers the seeded names.
func (db *DB) FindExact(ctx context.Context, name string) (*model.Country, error) {
	return db.findCountry(ctx, "exact",
		`SELECT country_code, country FROM countries
		 WHERE LOWER(country) = LOWER(?)
		 ORDER BY country_code
		 LIMIT 1`,
		name,
	)
}

// FindContaining returns the best country whose name contains name.
//
// instr is used instead of LIKE so that "%" and "_" in user input are
// matched literally. Shorter names are preferred: "niger" picks Niger over
// Nigeria.
func (db *DB) FindContaining(ctx context.Context, name string) (*model.Country, error) {
	return db.findCountry(ctx, "containing",
		`SELECT country_code, country FROM countries
		 WHERE instr(LOWER(country), LOWER(?)) > 0
		 ORDER BY length(country), country_code
		 LIMIT 1`,
		name,
	)
}

func (db *DB) findCountry(ctx context.Context, kind, query, name string) (*model.Country, error) {
	var c model.Country
	err := db.conn.QueryRowContext(ctx, query, name).Scan(&c.Code, &c.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("country", name)
		}
		return nil, fmt.Errorf("sqlite: finding country (%s) %q: %w", kind, name, err)
	}
	return &c, nil
}
