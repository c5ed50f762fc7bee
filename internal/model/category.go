package model

import (
	"strings"

	"golang.org/x/text/cases"
)

// CategoryTypePerGame is the API category type for full-game runs.
// The other type, "per-level", covers individual-level leaderboards and
// is never relevant to world-record searches.
const CategoryTypePerGame = "per-game"

// foldCaser performs Unicode case folding for category name matching.
// We fold rather than lowercase because category names on speedrun.com
// are user-authored and occasionally contain non-ASCII characters.
var foldCaser = cases.Fold()

// Category is a run classification belonging to a game, such as "Any%"
// or "100%".
type Category struct {
	// ID is the opaque category identifier assigned by speedrun.com.
	ID string `json:"id"`

	// Name is the display name of the category.
	Name string `json:"name"`

	// Type is the API category type: "per-game" or "per-level".
	Type string `json:"type,omitempty"`

	// Miscellaneous marks categories hidden behind the "Misc." toggle
	// on the site. They still have leaderboards and still count.
	Miscellaneous bool `json:"miscellaneous,omitempty"`
}

// IsPerGame reports whether the category covers full-game runs.
// Categories with an empty type are treated as per-game because older
// API records omit the field.
func (c Category) IsPerGame() bool {
	return c.Type == "" || c.Type == CategoryTypePerGame
}

// IsAnyPercent reports whether the category name matches "any%"
// case-insensitively. The match is a substring match, so variants such
// as "Any% (No Major Glitches)" also qualify.
func (c Category) IsAnyPercent() bool {
	return strings.Contains(foldCaser.String(c.Name), "any%")
}

// IsExactAnyPercent reports whether the category name is exactly "any%"
// after case folding and trimming. Used to prefer the canonical Any%
// category when a game also has derived variants.
func (c Category) IsExactAnyPercent() bool {
	return foldCaser.String(strings.TrimSpace(c.Name)) == "any%"
}
