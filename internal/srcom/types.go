package srcom

import (
	"time"

	"github.com/speedscan/speedscan/internal/model"
)

// Wire types mirroring the speedrun.com API JSON. Responses wrap
// payloads in a "data" envelope; collection endpoints add a
// "pagination" object with rel/uri links for the next page.
//
// Design decision: Wire types are kept separate from the model package
// because the API nests things (names, times) the rest of the tool has
// no use for. The conversion happens once, at parse time.

// collectionPage is the envelope for paginated collection responses.
type collectionPage[T any] struct {
	Data       []T        `json:"data"`
	Pagination pagination `json:"pagination"`
}

// singleItem is the envelope for single-resource responses.
type singleItem[T any] struct {
	Data T `json:"data"`
}

// pagination carries the cursor links for a collection page.
type pagination struct {
	Offset int    `json:"offset"`
	Max    int    `json:"max"`
	Size   int    `json:"size"`
	Links  []link `json:"links"`
}

// link is a rel/uri pair; the "next" rel points at the next page.
type link struct {
	Rel string `json:"rel"`
	URI string `json:"uri"`
}

// next returns the URI of the next page, or empty when exhausted.
func (p pagination) next() string {
	for _, l := range p.Links {
		if l.Rel == "next" {
			return l.URI
		}
	}
	return ""
}

// platformData is a platform as returned by /platforms.
type platformData struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	Released     int    `json:"released"`
}

func (p platformData) toModel() model.Platform {
	return model.Platform{
		ID:           p.ID,
		Name:         p.Name,
		Abbreviation: p.Abbreviation,
		Released:     p.Released,
	}
}

// gameNames is the nested name object on game resources.
type gameNames struct {
	International string `json:"international"`
	Japanese      string `json:"japanese"`
}

// gameData is a game as returned by /games.
type gameData struct {
	ID           string    `json:"id"`
	Names        gameNames `json:"names"`
	Abbreviation string    `json:"abbreviation"`
	Weblink      string    `json:"weblink"`
	Released     int       `json:"released"`
	Platforms    []string  `json:"platforms"`
	Genres       []string  `json:"genres"`
}

func (g gameData) toModel() model.Game {
	return model.Game{
		ID:           g.ID,
		Name:         g.Names.International,
		Abbreviation: g.Abbreviation,
		Weblink:      g.Weblink,
		Released:     g.Released,
		PlatformIDs:  g.Platforms,
		GenreIDs:     g.Genres,
	}
}

// categoryData is a category as returned by /games/{id}/categories.
type categoryData struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	Miscellaneous bool   `json:"miscellaneous"`
}

func (c categoryData) toModel() model.Category {
	return model.Category{
		ID:            c.ID,
		Name:          c.Name,
		Type:          c.Type,
		Miscellaneous: c.Miscellaneous,
	}
}

// genreData is a genre as returned by /genres.
type genreData struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (g genreData) toModel() model.Genre {
	return model.Genre{ID: g.ID, Name: g.Name}
}

// runTimes is the nested times object on run resources. The primary
// time arrives both as an ISO 8601 duration string and as float
// seconds; we use the float because it needs no parsing.
type runTimes struct {
	Primary  string  `json:"primary"`
	PrimaryT float64 `json:"primary_t"` //nolint:tagliatelle // API field name
}

// runData is a run as nested inside leaderboard entries.
type runData struct {
	ID    string   `json:"id"`
	Times runTimes `json:"times"`
}

// placedRun is a leaderboard entry: a run with its rank.
type placedRun struct {
	Place int     `json:"place"`
	Run   runData `json:"run"`
}

// leaderboardData is the payload of /leaderboards/{game}/category/{cat}.
type leaderboardData struct {
	Weblink  string      `json:"weblink"`
	Game     string      `json:"game"`
	Category string      `json:"category"`
	Runs     []placedRun `json:"runs"`
}

// record converts the first-place entry to a model.WorldRecord, or nil
// when the leaderboard has no runs.
func (l leaderboardData) record() *model.WorldRecord {
	if len(l.Runs) == 0 {
		return nil
	}
	top := l.Runs[0]
	return &model.WorldRecord{
		GameID:     l.Game,
		CategoryID: l.Category,
		RunID:      top.Run.ID,
		Time:       time.Duration(top.Run.Times.PrimaryT * float64(time.Second)),
		Place:      top.Place,
	}
}
