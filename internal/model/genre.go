package model

// Genre is a game genre known to speedrun.com ("Platformer", "Racing").
// Genres are referenced from games by ID, so user-supplied genre names
// must be resolved against the genre listing before filtering.
type Genre struct {
	// ID is the opaque genre identifier assigned by speedrun.com.
	ID string `json:"id"`

	// Name is the display name of the genre.
	Name string `json:"name"`
}
