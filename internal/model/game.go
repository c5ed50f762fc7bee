package model

// Game is a single game listed on speedrun.com.
//
// Design decision: We flatten the API's nested "names" object into a
// single Name field (the international name) because that is the only
// name the tool ever renders. The Japanese name and romanization are
// dropped at parse time.
type Game struct {
	// ID is the opaque game identifier assigned by speedrun.com.
	ID string `json:"id"`

	// Name is the international display name of the game.
	Name string `json:"name"`

	// Abbreviation is the short game code used in URLs (e.g. "sm64").
	Abbreviation string `json:"abbreviation,omitempty"`

	// Weblink is the human-facing speedrun.com page for the game.
	Weblink string `json:"weblink,omitempty"`

	// Released is the year the game was released, or 0 if unknown.
	Released int `json:"released,omitempty"`

	// PlatformIDs lists the platforms the game is published on.
	PlatformIDs []string `json:"platform_ids,omitempty"`

	// GenreIDs lists the genres assigned to the game. Many games have
	// no genres at all; filtering treats those as non-matching for
	// include filters and passing for exclude filters.
	GenreIDs []string `json:"genre_ids,omitempty"`
}

// HasAnyGenre reports whether the game carries at least one of the given
// genre IDs. An empty candidate set never matches.
func (g Game) HasAnyGenre(genreIDs []string) bool {
	for _, want := range genreIDs {
		for _, have := range g.GenreIDs {
			if have == want {
				return true
			}
		}
	}
	return false
}

// ExclusiveTo reports whether the game is published on exactly one
// platform and that platform is platformID. Used by the
// platform-exclusive filter to drop multi-platform republications.
func (g Game) ExclusiveTo(platformID string) bool {
	return len(g.PlatformIDs) == 1 && g.PlatformIDs[0] == platformID
}
