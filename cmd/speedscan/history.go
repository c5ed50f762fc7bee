package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/speedscan/speedscan/internal/config"
	"github.com/speedscan/speedscan/internal/database"
	"github.com/speedscan/speedscan/internal/model"
)

// NewHistoryCmd creates the history command.
// This command inspects search runs stored in the history database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [platform-id]",
		Short: "Inspect stored search runs",
		Long: `History lists search runs recorded by previous searches and shows how a
platform's results changed between runs.

Records move over time: a game that qualified last month may have been
obsoleted by a new category ruling, and a new skip may have pulled a
game under the limit. The diff between two runs is where those changes
show up.

Examples:
  # List all stored runs
  speedscan history

  # List runs for one platform (by resolved platform ID)
  speedscan history w89rwelk

  # Show the results of a specific run
  speedscan history --run-id 5

  # Diff the two most recent runs of a platform
  speedscan history --diff w89rwelk

  # JSON output for scripting
  speedscan history --json w89rwelk`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().Int64P("run-id", "i", 0,
		"Show the stored results of a specific run (use the list to see IDs)")
	cmd.Flags().BoolP("diff", "d", false,
		"Diff the two most recent runs of the platform")
	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	var platformID string
	if len(args) > 0 {
		platformID = args[0]
	}

	runID, err := cmd.Flags().GetInt64("run-id")
	if err != nil {
		return err
	}
	diff, err := cmd.Flags().GetBool("diff")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	if diff && platformID == "" {
		return errors.New("--diff requires a platform ID (run 'speedscan history' to see stored runs)")
	}

	// History never creates the database; an empty history is reported
	// as such instead of leaving an empty file behind.
	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false

	db, err := database.Open(config.XDGDataDir(), opts)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	switch {
	case runID > 0:
		return showRun(ctx, cmd, db, runID, jsonOutput)
	case diff:
		return diffLatestRuns(ctx, cmd, db, platformID, jsonOutput)
	default:
		return listRuns(ctx, cmd, db, platformID, jsonOutput)
	}
}

// listRuns prints the stored runs, newest first.
func listRuns(ctx context.Context, cmd *cobra.Command, db *database.SearchDB, platformID string, jsonOutput bool) error {
	runs, err := db.ListRuns(ctx, platformID)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	out := cmd.OutOrStdout()

	if jsonOutput {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(runs)
	}

	if len(runs) == 0 {
		if platformID != "" {
			fmt.Fprintf(out, "No stored runs for platform %s.\n", platformID)
		} else {
			fmt.Fprintln(out, "No stored runs.")
		}
		fmt.Fprintln(out, "\nUse 'speedscan search <platform>' to record a run.")
		return nil
	}

	fmt.Fprintf(out, "Stored runs (%d):\n\n", len(runs))
	fmt.Fprintf(out, "  %-6s  %-20s  %-20s  %-10s  %-8s  %s\n",
		"ID", "Date", "Platform", "Max Time", "Scanned", "Matched")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 80))

	for _, run := range runs {
		fmt.Fprintf(out, "  %-6d  %-20s  %-20s  %-10s  %-8d  %d\n",
			run.ID,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.PlatformName,
			model.FormatRunTime(run.Threshold),
			run.GamesScanned,
			run.Matched,
		)
	}

	fmt.Fprintln(out, "\nUse 'speedscan history --run-id <id>' to see a run's results.")
	fmt.Fprintln(out, "Use 'speedscan history --diff <platform-id>' to compare the latest two runs.")

	return nil
}

// showRun prints the qualifying games stored for one run.
func showRun(ctx context.Context, cmd *cobra.Command, db *database.SearchDB, runID int64, jsonOutput bool) error {
	run, err := db.Run(ctx, runID)
	if err != nil {
		return err
	}

	results, err := db.Results(ctx, runID)
	if err != nil {
		return fmt.Errorf("failed to load results: %w", err)
	}

	out := cmd.OutOrStdout()

	if jsonOutput {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(struct {
			Run     *database.RunRecord  `json:"run"`
			Results []model.SearchResult `json:"results"`
		}{Run: run, Results: results})
	}

	fmt.Fprintf(out, "Run %d: %s, max time %s, %s\n\n",
		run.ID, run.PlatformName, model.FormatRunTime(run.Threshold),
		run.StartedAt.Local().Format("2006-01-02 15:04:05"))

	if len(results) == 0 {
		fmt.Fprintln(out, "  No qualifying games in this run.")
		return nil
	}

	for _, r := range results {
		fmt.Fprintf(out, "  %-12s | %s\n", model.FormatRunTime(r.Record), r.GameName)
	}
	fmt.Fprintf(out, "\n%d game(s), scanned %d, skipped %d\n",
		len(results), run.GamesScanned, run.GamesSkipped)

	return nil
}

// runDiff is the JSON shape of a two-run comparison.
type runDiff struct {
	Older    *database.RunRecord  `json:"older"`
	Newer    *database.RunRecord  `json:"newer"`
	Added    []model.SearchResult `json:"added"`
	Removed  []model.SearchResult `json:"removed"`
	Improved []recordChange       `json:"improved"`
	Worsened []recordChange       `json:"worsened"`
}

// recordChange describes a world-record time that moved between runs.
type recordChange struct {
	GameID   string        `json:"game_id"`
	GameName string        `json:"game_name"`
	Before   time.Duration `json:"before"`
	After    time.Duration `json:"after"`
}

// diffLatestRuns compares the two most recent runs of a platform.
func diffLatestRuns(ctx context.Context, cmd *cobra.Command, db *database.SearchDB, platformID string, jsonOutput bool) error {
	runs, err := db.LatestRuns(ctx, platformID, 2)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) < 2 {
		return fmt.Errorf("need at least two stored runs for platform %s to diff (have %d)",
			platformID, len(runs))
	}

	// LatestRuns returns newest first.
	newer, older := runs[0], runs[1]

	newerResults, err := db.Results(ctx, newer.ID)
	if err != nil {
		return fmt.Errorf("failed to load results for run %d: %w", newer.ID, err)
	}
	olderResults, err := db.Results(ctx, older.ID)
	if err != nil {
		return fmt.Errorf("failed to load results for run %d: %w", older.ID, err)
	}

	diff := computeDiff(&older, &newer, olderResults, newerResults)

	out := cmd.OutOrStdout()

	if jsonOutput {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(diff)
	}

	fmt.Fprintf(out, "Comparing runs %d (%s) -> %d (%s) for %s\n\n",
		older.ID, older.StartedAt.Local().Format("2006-01-02"),
		newer.ID, newer.StartedAt.Local().Format("2006-01-02"),
		newer.PlatformName)

	if len(diff.Added) == 0 && len(diff.Removed) == 0 &&
		len(diff.Improved) == 0 && len(diff.Worsened) == 0 {
		fmt.Fprintln(out, "No changes between the two runs.")
		return nil
	}

	if len(diff.Added) > 0 {
		fmt.Fprintf(out, "New qualifying games (%d):\n", len(diff.Added))
		for _, r := range diff.Added {
			fmt.Fprintf(out, "  + %-12s | %s\n", model.FormatRunTime(r.Record), r.GameName)
		}
		fmt.Fprintln(out)
	}

	if len(diff.Removed) > 0 {
		fmt.Fprintf(out, "No longer qualifying (%d):\n", len(diff.Removed))
		for _, r := range diff.Removed {
			fmt.Fprintf(out, "  - %-12s | %s\n", model.FormatRunTime(r.Record), r.GameName)
		}
		fmt.Fprintln(out)
	}

	if len(diff.Improved) > 0 {
		fmt.Fprintf(out, "Records improved (%d):\n", len(diff.Improved))
		for _, c := range diff.Improved {
			fmt.Fprintf(out, "  %s: %s -> %s\n",
				c.GameName, model.FormatRunTime(c.Before), model.FormatRunTime(c.After))
		}
		fmt.Fprintln(out)
	}

	if len(diff.Worsened) > 0 {
		fmt.Fprintf(out, "Records worsened (%d):\n", len(diff.Worsened))
		for _, c := range diff.Worsened {
			fmt.Fprintf(out, "  %s: %s -> %s\n",
				c.GameName, model.FormatRunTime(c.Before), model.FormatRunTime(c.After))
		}
	}

	return nil
}

// computeDiff matches results between two runs by game ID.
func computeDiff(older, newer *database.RunRecord, olderResults, newerResults []model.SearchResult) *runDiff {
	diff := &runDiff{
		Older:    older,
		Newer:    newer,
		Added:    []model.SearchResult{},
		Removed:  []model.SearchResult{},
		Improved: []recordChange{},
		Worsened: []recordChange{},
	}

	olderByGame := make(map[string]model.SearchResult, len(olderResults))
	for _, r := range olderResults {
		olderByGame[r.GameID] = r
	}

	seen := make(map[string]bool, len(newerResults))
	for _, r := range newerResults {
		seen[r.GameID] = true

		prev, ok := olderByGame[r.GameID]
		if !ok {
			diff.Added = append(diff.Added, r)
			continue
		}

		change := recordChange{
			GameID:   r.GameID,
			GameName: r.GameName,
			Before:   prev.Record,
			After:    r.Record,
		}
		switch {
		case r.Record < prev.Record:
			diff.Improved = append(diff.Improved, change)
		case r.Record > prev.Record:
			diff.Worsened = append(diff.Worsened, change)
		}
	}

	for _, r := range olderResults {
		if !seen[r.GameID] {
			diff.Removed = append(diff.Removed, r)
		}
	}

	return diff
}
