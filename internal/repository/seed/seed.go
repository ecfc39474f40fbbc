// Package seed holds the reference data loaded into an empty countries table.
package seed

import (
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/sakif/travel-tracker/internal/model"
)

// countriesCSV is ISO 3166-1 alpha-2 codes with short English names.
// The header row is country_code,country to match the table columns.
//
//go:embed countries.csv
var countriesCSV string

// Countries parses the embedded CSV. The result is freshly allocated on every
// call, so callers may modify it.
func Countries() ([]model.Country, error) {
	r := csv.NewReader(strings.NewReader(countriesCSV))
	r.FieldsPerRecord = 2

	if _, err := r.Read(); err != nil {
		return nil, fmt.Errorf("seed: reading header: %w", err)
	}

	var countries []model.Country
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("seed: reading countries: %w", err)
		}
		countries = append(countries, model.Country{
			Code: strings.TrimSpace(rec[0]),
			Name: strings.TrimSpace(rec[1]),
		})
	}
	return countries, nil
}
