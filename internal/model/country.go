package model

// Country is a row of the static reference table. Code is the ISO 3166-1
// alpha-2 code, which is also the element id used by the world map SVG.
type Country struct {
	Code string `json:"code" db:"country_code"`
	Name string `json:"name" db:"country"`
}

// VisitedCountry joins a user to a country they have been to.
// A (UserID, CountryCode) pair appears at most once.
type VisitedCountry struct {
	UserID      int64  `json:"userId"      db:"user_id"`
	CountryCode string `json:"countryCode" db:"country_code"`
}
