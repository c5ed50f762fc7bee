package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/speedscan/speedscan/internal/model"
	"github.com/speedscan/speedscan/internal/searcher"
	"github.com/speedscan/speedscan/internal/srcom"
)

// ResolvePlatformStep resolves the user's platform query (name,
// abbreviation, or ID) against the API's platform listing.
// A resolution failure is fatal: nothing downstream can run without a
// platform ID, and an unreachable listing means no complete scan is
// possible.
type ResolvePlatformStep struct {
	client *srcom.Client
}

// NewResolvePlatformStep creates the platform resolution step.
func NewResolvePlatformStep(client *srcom.Client) *ResolvePlatformStep {
	return &ResolvePlatformStep{client: client}
}

// Name returns the step name.
func (s *ResolvePlatformStep) Name() string {
	return "resolve-platform"
}

// Do resolves the platform and records it on the report.
func (s *ResolvePlatformStep) Do(ctx context.Context, report *model.SearchReport) error {
	platform, err := s.client.ResolvePlatform(ctx, report.Query)
	if err != nil {
		return fmt.Errorf("failed to resolve platform %q: %w", report.Query, err)
	}
	report.PlatformID = platform.ID
	report.PlatformName = platform.Name
	return nil
}

// ResolveGenresStep resolves genre name filters to genre IDs.
// When the report carries no genre filters, the step is a no-op and
// makes no API calls. An unknown genre name is fatal: silently ignoring
// a typo would produce a misleadingly unfiltered scan.
type ResolveGenresStep struct {
	client *srcom.Client
}

// NewResolveGenresStep creates the genre resolution step.
func NewResolveGenresStep(client *srcom.Client) *ResolveGenresStep {
	return &ResolveGenresStep{client: client}
}

// Name returns the step name.
func (s *ResolveGenresStep) Name() string {
	return "resolve-genres"
}

// Do resolves genre names and records the ID sets on the report.
func (s *ResolveGenresStep) Do(ctx context.Context, report *model.SearchReport) error {
	if len(report.GenresInclude) == 0 && len(report.GenresExclude) == 0 {
		return nil
	}

	genres, err := s.client.Genres(ctx)
	if err != nil {
		return fmt.Errorf("failed to list genres: %w", err)
	}

	resolve := func(names []string) ([]string, error) {
		ids := make([]string, 0, len(names))
		for _, name := range names {
			id := ""
			for _, g := range genres {
				if strings.EqualFold(g.Name, name) {
					id = g.ID
					break
				}
			}
			if id == "" {
				return nil, fmt.Errorf("%q: %w", name, srcom.ErrGenreNotFound)
			}
			ids = append(ids, id)
		}
		return ids, nil
	}

	if report.GenreIDsInclude, err = resolve(report.GenresInclude); err != nil {
		return err
	}
	if report.GenreIDsExclude, err = resolve(report.GenresExclude); err != nil {
		return err
	}
	return nil
}

// ResultFunc receives each qualifying game as it is found, before the
// scan finishes. This is how results stream to the terminal during a
// multi-hour platform scan instead of appearing all at once at the end.
type ResultFunc func(model.SearchResult)

// EvaluateGamesStep enumerates the platform's games and evaluates each
// one against the threshold. Qualifying games are appended to the
// report and streamed through the ResultFunc.
//
// Per-game lookup failures (after the client's retries) skip that game
// and continue; a failure of the listing pagination itself aborts the
// step, since a partial platform listing is not a complete scan.
type EvaluateGamesStep struct {
	searcher *searcher.Searcher

	// onResult streams each qualifying game. May be nil.
	onResult ResultFunc

	// printSkips emits a warn log line for every skipped game.
	// Maps to the print-retry-info configuration toggle.
	printSkips bool

	logger *slog.Logger
}

// EvaluateOption configures an EvaluateGamesStep.
type EvaluateOption func(*EvaluateGamesStep)

// WithResultFunc sets the streaming callback for qualifying games.
func WithResultFunc(fn ResultFunc) EvaluateOption {
	return func(s *EvaluateGamesStep) {
		s.onResult = fn
	}
}

// WithSkipDiagnostics enables warn-level logging of skipped games.
func WithSkipDiagnostics(enabled bool) EvaluateOption {
	return func(s *EvaluateGamesStep) {
		s.printSkips = enabled
	}
}

// WithStepLogger sets a custom logger for the step.
func WithStepLogger(logger *slog.Logger) EvaluateOption {
	return func(s *EvaluateGamesStep) {
		s.logger = logger
	}
}

// NewEvaluateGamesStep creates the game evaluation step.
func NewEvaluateGamesStep(sr *searcher.Searcher, opts ...EvaluateOption) *EvaluateGamesStep {
	s := &EvaluateGamesStep{searcher: sr}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Name returns the step name.
func (s *EvaluateGamesStep) Name() string {
	return "evaluate-games"
}

// Do runs the evaluation loop over the platform's game listing.
func (s *EvaluateGamesStep) Do(ctx context.Context, report *model.SearchReport) error {
	filters := searcher.Filters{
		GenreIDsInclude: report.GenreIDsInclude,
		GenreIDsExclude: report.GenreIDsExclude,
	}
	if report.ExclusiveOnly {
		filters.ExclusiveTo = report.PlatformID
	}

	for game, err := range s.searcher.ListGamesForPlatform(ctx, report.PlatformID) {
		if err != nil {
			// Listing pagination failed after retries. Fatal: the scan
			// would silently cover only part of the platform.
			return err
		}

		select {
		case <-ctx.Done():
			report.Cancelled = true
			return ctx.Err()
		default:
		}

		report.GamesScanned++

		ok, err := s.searcher.MatchesFilters(ctx, game, filters)
		if err != nil {
			if cancelled(err) {
				report.Cancelled = true
				return err
			}
			s.skip(report, game, "filter check failed", err)
			continue
		}
		if !ok {
			continue
		}

		result, err := s.searcher.Evaluate(ctx, game, report.Threshold)
		if err != nil {
			if cancelled(err) {
				report.Cancelled = true
				return err
			}
			s.skip(report, game, "evaluation failed", err)
			continue
		}
		if result == nil {
			continue
		}

		report.AddResult(*result)
		if s.onResult != nil {
			s.onResult(*result)
		}
	}

	return nil
}

// cancelled reports whether err is a context cancellation rather than a
// per-game lookup failure. Cancellation must abort the whole scan, not
// silently count as a skipped game.
func cancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// skip records a skipped game and optionally logs the reason.
func (s *EvaluateGamesStep) skip(report *model.SearchReport, game model.Game, msg string, err error) {
	report.GamesSkipped++
	if s.printSkips {
		s.logger.Warn(msg+", skipping game",
			"game", game.Name,
			"gameID", game.ID,
			"error", err,
		)
	}
}
