package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/speedscan/speedscan/internal/config"
)

// NewPlatformsCmd creates the platforms command.
func NewPlatformsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "platforms",
		Short: "List platforms known to speedrun.com",
		Long: `Platforms lists every platform the API knows about, with the names,
abbreviations, and IDs accepted by the search command.

Examples:
  # List all platforms
  speedscan platforms

  # Filter by name substring
  speedscan platforms --filter nintendo

  # JSON output for scripting
  speedscan platforms --json`,
		Args: cobra.NoArgs,
		RunE: runPlatformsCmd,
	}

	cmd.Flags().StringP("filter", "f", "",
		"Only show platforms whose name contains this substring")
	cmd.Flags().BoolP("json", "j", false,
		"Output the platform list as JSON")

	return cmd
}

// runPlatformsCmd executes the platforms command.
func runPlatformsCmd(cmd *cobra.Command, _ []string) error {
	filter, err := cmd.Flags().GetString("filter")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	logger := setupLogger(getVerboseFlag(cmd))

	cfg := config.NewConfig()
	client := newAPIClient(cfg, logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	platforms, err := client.Platforms(ctx)
	if err != nil {
		return fmt.Errorf("failed to list platforms: %w", err)
	}

	if filter != "" {
		filtered := platforms[:0]
		for _, p := range platforms {
			if strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter)) ||
				strings.EqualFold(p.Abbreviation, filter) {
				filtered = append(filtered, p)
			}
		}
		platforms = filtered
	}

	sort.Slice(platforms, func(i, j int) bool {
		return platforms[i].Name < platforms[j].Name
	})

	out := cmd.OutOrStdout()

	if jsonOutput {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(platforms)
	}

	if len(platforms) == 0 {
		fmt.Fprintln(out, "No platforms matched.")
		return nil
	}

	fmt.Fprintf(out, "%-30s  %-8s  %-10s  %s\n", "Name", "Code", "ID", "Released")
	fmt.Fprintln(out, strings.Repeat("-", 60))
	for _, p := range platforms {
		released := "-"
		if p.Released > 0 {
			released = strconv.Itoa(p.Released)
		}
		fmt.Fprintf(out, "%-30s  %-8s  %-10s  %s\n", p.Name, p.Abbreviation, p.ID, released)
	}
	fmt.Fprintf(out, "\n%d platform(s)\n", len(platforms))

	return nil
}
