package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/speedscan/speedscan/internal/config"
	"github.com/speedscan/speedscan/internal/database"
	"github.com/speedscan/speedscan/internal/log"
	"github.com/speedscan/speedscan/internal/model"
	"github.com/speedscan/speedscan/internal/pipeline"
	"github.com/speedscan/speedscan/internal/report"
	"github.com/speedscan/speedscan/internal/searcher"
	"github.com/speedscan/speedscan/internal/srcom"
)

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [platform]",
		Short: "Search a platform for games with short Any% records",
		Long: `Search walks every game on a platform and reports the ones whose Any%
world record is at or below the time limit.

The platform can be given as a display name ("GameCube"), an
abbreviation ("gcn"), or a raw speedrun.com platform ID. Results
stream to the terminal as they are found; a summary report follows
once the listing is exhausted.

Examples:
  # Find N64 games beatable within the default 30 minutes
  speedscan search n64

  # Tighter limit and the platform by full name
  speedscan search --max-time 20m "Nintendo 64"

  # Only platformers that are exclusive to the platform
  speedscan search -g Platformer --exclusive gcn

  # JSON report written to a file
  speedscan search --json -o report.json snes

Configuration file (.speedscan) example:
  defaults:
    threshold: 30m
  platforms:
    GameCube:
      threshold: 45m
      excludeGenres: [Sports]`,
		Args: cobra.ExactArgs(1),
		RunE: runSearchCmd,
	}

	// Search behavior flags
	cmd.Flags().DurationP("max-time", "t", config.DefaultThreshold,
		"Maximum Any% world-record time to accept")
	cmd.Flags().StringSliceP("genre", "g", nil,
		"Only include games with this genre (repeatable)")
	cmd.Flags().StringSliceP("exclude-genre", "G", nil,
		"Drop games with this genre (repeatable)")
	cmd.Flags().Bool("exclusive", false,
		"Only include games exclusive to the platform (slower)")

	// Request behavior flags
	cmd.Flags().Duration("timeout", config.DefaultTimeout,
		"Per-request timeout for API calls")
	cmd.Flags().Int("retries", config.DefaultMaxAttempts,
		"Attempts per game lookup before the game is skipped")
	cmd.Flags().Duration("retry-delay", config.DefaultRetryDelay,
		"Delay between retry attempts")
	cmd.Flags().Duration("rate-limit-wait", config.DefaultRateLimitWait,
		"Delay after the API reports rate limiting")
	cmd.Flags().Int("page-size", config.DefaultPageSize,
		"Games requested per listing page")
	cmd.Flags().Bool("retry-info", false,
		"Log retry and skip diagnostics")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .speedscan in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("no-save", false,
		"Do not record this run in the history database")

	return cmd
}

// runSearchCmd executes the search command.
func runSearchCmd(cmd *cobra.Command, args []string) error {
	// Build config from flags
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runSearch(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags and the optional
// configuration file. Precedence: flag set by the user > platform entry
// in the config file > config file defaults > built-in defaults.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Platform = args[0]
	cfg.Verbose = getVerboseFlag(cmd)

	var err error

	cfg.Threshold, err = cmd.Flags().GetDuration("max-time")
	if err != nil {
		return nil, err
	}

	cfg.GenresInclude, err = cmd.Flags().GetStringSlice("genre")
	if err != nil {
		return nil, err
	}

	cfg.GenresExclude, err = cmd.Flags().GetStringSlice("exclude-genre")
	if err != nil {
		return nil, err
	}

	cfg.ExclusiveOnly, err = cmd.Flags().GetBool("exclusive")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.MaxAttempts, err = cmd.Flags().GetInt("retries")
	if err != nil {
		return nil, err
	}

	cfg.RetryDelay, err = cmd.Flags().GetDuration("retry-delay")
	if err != nil {
		return nil, err
	}

	cfg.RateLimitWait, err = cmd.Flags().GetDuration("rate-limit-wait")
	if err != nil {
		return nil, err
	}

	cfg.PageSize, err = cmd.Flags().GetInt("page-size")
	if err != nil {
		return nil, err
	}

	cfg.PrintRetryInfo, err = cmd.Flags().GetBool("retry-info")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load platform-specific configuration from the config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.FileDefaults, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		// User explicitly specified a config file that doesn't exist
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.FileDefaults = &config.File{
			Platforms: make(map[string]config.PlatformConfig),
		}
	}

	applyPlatformConfig(cmd, cfg)

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave
	cfg.DBDir = config.XDGDataDir()

	return cfg, nil
}

// applyPlatformConfig merges the config file's platform entry into cfg.
// File values only apply where the user did not set the matching flag.
func applyPlatformConfig(cmd *cobra.Command, cfg *config.Config) {
	if cfg.FileDefaults == nil {
		return
	}
	pc := cfg.FileDefaults.GetPlatformConfig(cfg.Platform)

	if pc.Threshold != 0 && !cmd.Flags().Changed("max-time") {
		cfg.Threshold = time.Duration(pc.Threshold)
	}
	if len(pc.Genres) > 0 && !cmd.Flags().Changed("genre") {
		cfg.GenresInclude = pc.Genres
	}
	if len(pc.ExcludeGenres) > 0 && !cmd.Flags().Changed("exclude-genre") {
		cfg.GenresExclude = pc.ExcludeGenres
	}
	if pc.Exclusive && !cmd.Flags().Changed("exclusive") {
		cfg.ExclusiveOnly = true
	}
	if pc.PrintRetryInfo && !cmd.Flags().Changed("retry-info") {
		cfg.PrintRetryInfo = true
	}
}

// setupLogger creates a structured logger based on verbosity setting.
// Repeated retry warnings are throttled so a rate-limited afternoon
// does not flood the terminal.
func setupLogger(verbose bool) *slog.Logger {
	return log.NewLogger(os.Stderr, verbose)
}

// newAPIClient builds the speedrun.com client from the configuration.
func newAPIClient(cfg *config.Config, logger *slog.Logger) *srcom.Client {
	return srcom.NewClient(cfg.APIBaseURL,
		srcom.WithTimeout(cfg.Timeout),
		srcom.WithUserAgent(cfg.UserAgent),
		srcom.WithPageSize(cfg.PageSize),
		srcom.WithMaxBodySize(cfg.MaxBodySize),
		srcom.WithRequestsPerMinute(cfg.RequestsPerMinute),
		srcom.WithRetryPolicy(srcom.RetryPolicy{
			MaxAttempts:   cfg.MaxAttempts,
			Delay:         cfg.RetryDelay,
			RateLimitWait: cfg.RateLimitWait,
			Verbose:       cfg.PrintRetryInfo,
		}),
		srcom.WithLogger(logger),
	)
}

// runSearch executes the platform search.
func runSearch(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting search",
		"platform", cfg.Platform,
		"threshold", cfg.Threshold,
		"exclusive", cfg.ExclusiveOnly,
		"saveToDB", cfg.SaveToDB,
	)

	// Open database connection if saving is enabled
	var db *database.SearchDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	client := newAPIClient(cfg, logger)
	sr := searcher.New(client, searcher.WithLogger(logger))

	searchReport := model.NewSearchReport(cfg.Platform, cfg.Threshold)
	searchReport.GenresInclude = cfg.GenresInclude
	searchReport.GenresExclude = cfg.GenresExclude
	searchReport.ExclusiveOnly = cfg.ExclusiveOnly

	fmt.Printf("Searching %s for Any%% records at or under %s...\n\n",
		cfg.Platform, model.FormatRunTime(cfg.Threshold))
	startTime := time.Now()

	// Stream each qualifying game to the terminal the moment it is
	// found. The summary report at the end repeats them.
	onResult := func(result model.SearchResult) {
		fmt.Printf("  %-12s | %s\n", model.FormatRunTime(result.Record), result.GameName)
	}

	p := pipeline.New(pipeline.WithLogger(logger))
	p.AddSteps(
		pipeline.NewResolvePlatformStep(client),
		pipeline.NewResolveGenresStep(client),
		pipeline.NewEvaluateGamesStep(sr,
			pipeline.WithResultFunc(onResult),
			pipeline.WithSkipDiagnostics(cfg.PrintRetryInfo),
			pipeline.WithStepLogger(logger),
		),
	)

	execErr := p.Execute(ctx, searchReport)
	if execErr != nil {
		logger.Error("search failed", "platform", cfg.Platform, "error", execErr)
	}

	elapsed := time.Since(startTime)
	fmt.Printf("\nSearch finished in %s\n", elapsed.Round(time.Millisecond))

	// Output the report even on failure: a cancelled scan's partial
	// results are still worth having.
	if err := outputReport(cfg, searchReport); err != nil {
		logger.Error("report failed", "platform", cfg.Platform, "error", err)
	}

	// Save to database if enabled
	if err := saveSearchReport(ctx, db, searchReport, logger); err != nil {
		logger.Error("failed to save search report", "platform", cfg.Platform, "error", err)
	}

	return execErr
}

// outputReport outputs the search report in the requested format.
func outputReport(cfg *config.Config, searchReport *model.SearchReport) error {
	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(output)
	default:
		w = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}

	_, err := w.Write(searchReport)
	return err
}

// saveSearchReport saves the search report to the database if enabled.
// If db is nil, this function is a no-op.
func saveSearchReport(ctx context.Context, db *database.SearchDB, searchReport *model.SearchReport, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	// A save interrupted by Ctrl-C should still go through; use a
	// short independent deadline instead of the cancelled scan context.
	if ctx.Err() != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
	}

	runID, err := db.SaveReport(ctx, searchReport)
	if err != nil {
		return fmt.Errorf("failed to save search report: %w", err)
	}

	logger.Info("search report saved to database", "runID", runID, "platform", searchReport.PlatformName)
	return nil
}
