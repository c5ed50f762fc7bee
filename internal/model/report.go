package model

import "time"

// SearchResult is a single qualifying game: one with an Any% category
// whose world record is at or below the search threshold.
type SearchResult struct {
	// GameID is the qualifying game's identifier.
	GameID string `json:"game_id"`

	// GameName is the international display name of the game.
	GameName string `json:"game_name"`

	// CategoryID is the matched Any% category identifier.
	CategoryID string `json:"category_id"`

	// CategoryName is the matched category's display name. Usually
	// "Any%" but may be a variant matched by the substring rule.
	CategoryName string `json:"category_name"`

	// Record is the current world-record completion time.
	Record time.Duration `json:"record"`

	// Weblink is the game's speedrun.com page, handy for jumping
	// straight to the leaderboard during glitch hunting.
	Weblink string `json:"weblink,omitempty"`
}

// SearchReport accumulates the state and outcome of one platform search.
// It is passed through the pipeline steps, each of which fills in the
// fields it is responsible for.
//
// Design decision: We use a single struct for in-flight state and final
// report rather than separate types because the search is sequential and
// single-threaded; there is no point at which the two would diverge.
type SearchReport struct {
	// Query is the platform as supplied by the user (name, code, or ID).
	Query string `json:"query"`

	// PlatformID is the resolved speedrun.com platform identifier.
	PlatformID string `json:"platform_id,omitempty"`

	// PlatformName is the resolved platform display name.
	PlatformName string `json:"platform_name,omitempty"`

	// Threshold is the maximum world-record time to accept.
	Threshold time.Duration `json:"threshold"`

	// GenresInclude and GenresExclude are the user-supplied genre name
	// filters; the matching ID sets are resolved by the pipeline.
	GenresInclude []string `json:"genres_include,omitempty"`
	GenresExclude []string `json:"genres_exclude,omitempty"`

	// GenreIDsInclude and GenreIDsExclude are the resolved genre
	// identifier sets applied during game filtering.
	GenreIDsInclude []string `json:"genre_ids_include,omitempty"`
	GenreIDsExclude []string `json:"genre_ids_exclude,omitempty"`

	// ExclusiveOnly restricts results to games published on no other
	// platform than the target.
	ExclusiveOnly bool `json:"exclusive_only,omitempty"`

	// StartedAt and CompletedAt bound the search run.
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at,omitempty"`

	// GamesScanned counts games enumerated from the platform listing.
	GamesScanned int `json:"games_scanned"`

	// GamesSkipped counts games dropped because their lookups kept
	// failing after retries. Skipped games are not an error.
	GamesSkipped int `json:"games_skipped"`

	// Results holds the qualifying games in the order they were found.
	Results []SearchResult `json:"results"`

	// PerformedSteps records which pipeline steps ran, in order.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Cancelled is true when the run was interrupted before the
	// platform listing was exhausted. Partial results are still valid
	// individually but the scan is not a complete platform listing.
	Cancelled bool `json:"cancelled,omitempty"`

	// Err is the fatal error that terminated the run, if any.
	// ErrorMessage carries its text for serialization.
	Err          error  `json:"-"`
	ErrorMessage string `json:"error,omitempty"`
}

// NewSearchReport creates a report for the given platform query and
// threshold with the start time set to now.
func NewSearchReport(query string, threshold time.Duration) *SearchReport {
	return &SearchReport{
		Query:     query,
		Threshold: threshold,
		StartedAt: time.Now(),
		Results:   []SearchResult{},
	}
}

// AddResult appends a qualifying game to the report.
func (r *SearchReport) AddResult(result SearchResult) {
	r.Results = append(r.Results, result)
}

// SetError records a fatal error on the report.
func (r *SearchReport) SetError(err error) {
	r.Err = err
	if err != nil {
		r.ErrorMessage = err.Error()
	}
}

// Matched returns the number of qualifying games found.
func (r *SearchReport) Matched() int {
	return len(r.Results)
}
