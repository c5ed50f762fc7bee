package searcher

import (
	"context"
	"iter"
	"log/slog"
	"time"

	"github.com/speedscan/speedscan/internal/model"
	"github.com/speedscan/speedscan/internal/srcom"
)

// Searcher evaluates games against the Any% world-record criteria.
// All lookups go through the srcom client, which owns retry and pacing;
// the searcher only decides what a lookup result means.
type Searcher struct {
	// client is the speedrun.com API client.
	client *srcom.Client

	// logger receives per-game diagnostics.
	logger *slog.Logger
}

// Filters narrows which enumerated games are worth evaluating.
type Filters struct {
	// GenreIDsInclude keeps only games carrying at least one of these
	// genres. Empty disables the include filter.
	GenreIDsInclude []string

	// GenreIDsExclude drops games carrying any of these genres.
	GenreIDsExclude []string

	// ExclusiveTo, when non-empty, keeps only games published on
	// exactly that platform and no other.
	ExclusiveTo string
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) {
		s.logger = logger
	}
}

// New creates a Searcher backed by the given API client.
func New(client *srcom.Client, opts ...Option) *Searcher {
	s := &Searcher{client: client}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// ListGamesForPlatform enumerates the games published on a platform.
// The sequence is lazy, finite, and restartable: ranging again
// re-queries from page one. A listing failure after retries ends the
// sequence with a non-nil error, which callers must treat as fatal.
func (s *Searcher) ListGamesForPlatform(ctx context.Context, platformID string) iter.Seq2[model.Game, error] {
	return s.client.Games(ctx, platformID)
}

// FindAnyPercentCategory returns the game's Any% category, or nil when
// the game has none (the game is then skipped, which is not an error).
//
// Matching is case-insensitive substring on "any%", restricted to
// full-game categories. When several categories match, the one named
// exactly "Any%" wins; otherwise the first match in the API's ordering
// is used, which is the order the game's moderators arranged.
func (s *Searcher) FindAnyPercentCategory(ctx context.Context, game model.Game) (*model.Category, error) {
	categories, err := s.client.Categories(ctx, game.ID)
	if err != nil {
		return nil, err
	}

	var first *model.Category
	for i := range categories {
		c := categories[i]
		if !c.IsPerGame() || !c.IsAnyPercent() {
			continue
		}
		if c.IsExactAnyPercent() {
			return &c, nil
		}
		if first == nil {
			first = &c
		}
	}
	return first, nil
}

// GetWorldRecord returns the first-place completion time for the
// (game, category) pair, or nil when the leaderboard has no runs.
func (s *Searcher) GetWorldRecord(ctx context.Context, game model.Game, category model.Category) (*model.WorldRecord, error) {
	return s.client.WorldRecord(ctx, game.ID, category.ID)
}

// MatchesFilters reports whether a game passes the genre and
// platform-exclusive filters. The exclusive check may need one extra
// game-detail request when the listing did not embed platform IDs.
func (s *Searcher) MatchesFilters(ctx context.Context, game model.Game, f Filters) (bool, error) {
	if len(f.GenreIDsInclude) > 0 && !game.HasAnyGenre(f.GenreIDsInclude) {
		return false, nil
	}
	if len(f.GenreIDsExclude) > 0 && game.HasAnyGenre(f.GenreIDsExclude) {
		return false, nil
	}

	if f.ExclusiveTo != "" {
		if len(game.PlatformIDs) == 0 {
			detail, err := s.client.Game(ctx, game.ID)
			if err != nil {
				return false, err
			}
			game = detail
		}
		if !game.ExclusiveTo(f.ExclusiveTo) {
			return false, nil
		}
	}

	return true, nil
}

// Evaluate composes the category and world-record lookups for one game.
// It returns a SearchResult when the game has an Any% category with a
// published record at or below threshold, and nil (with no error) in
// every other non-failure case: no Any% category, empty leaderboard, or
// a record slower than the threshold.
func (s *Searcher) Evaluate(ctx context.Context, game model.Game, threshold time.Duration) (*model.SearchResult, error) {
	category, err := s.FindAnyPercentCategory(ctx, game)
	if err != nil {
		return nil, err
	}
	if category == nil {
		s.logger.Debug("no Any% category", "game", game.Name)
		return nil, nil
	}

	record, err := s.GetWorldRecord(ctx, game, *category)
	if err != nil {
		return nil, err
	}
	if record == nil {
		s.logger.Debug("empty leaderboard", "game", game.Name, "category", category.Name)
		return nil, nil
	}

	if record.Time > threshold {
		s.logger.Debug("record over threshold",
			"game", game.Name,
			"record", record.Time,
			"threshold", threshold,
		)
		return nil, nil
	}

	return &model.SearchResult{
		GameID:       game.ID,
		GameName:     game.Name,
		CategoryID:   category.ID,
		CategoryName: category.Name,
		Record:       record.Time,
		Weblink:      game.Weblink,
	}, nil
}
