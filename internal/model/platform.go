package model

import "strings"

// Platform is a gaming platform known to speedrun.com.
// Platform IDs are short opaque strings assigned by the API
// (e.g. "w89rwelk" for PC); names are human-readable ("Nintendo 64").
type Platform struct {
	// ID is the opaque platform identifier assigned by speedrun.com.
	ID string `json:"id"`

	// Name is the display name of the platform (e.g. "GameCube").
	Name string `json:"name"`

	// Abbreviation is the short platform code used in URLs (e.g. "n64").
	// May be empty for obscure platforms.
	Abbreviation string `json:"abbreviation,omitempty"`

	// Released is the year the platform was released, or 0 if unknown.
	Released int `json:"released,omitempty"`
}

// Matches reports whether the platform matches a user-supplied query.
// The query may be the platform's display name, its abbreviation, or the
// raw API identifier. Name and abbreviation comparisons are
// case-insensitive so "gamecube" finds "GameCube".
func (p Platform) Matches(query string) bool {
	if query == "" {
		return false
	}
	if p.ID == query {
		return true
	}
	if strings.EqualFold(p.Name, query) {
		return true
	}
	return p.Abbreviation != "" && strings.EqualFold(p.Abbreviation, query)
}
