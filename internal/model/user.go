// Package model defines the data structures used throughout the application.
package model

// User is one member of the household whose travels are tracked.
//
// Color is the CSS color used to highlight the user's countries on the map
// and to draw their tab. It is stored as the raw form value ("teal", "#ff0").
type User struct {
	ID    int64  `json:"id"    db:"id"`
	Name  string `json:"name"  db:"name"`
	Color string `json:"color" db:"color"`
}
