package database

import (
	"context"
	"testing"
	"time"

	"github.com/speedscan/speedscan/internal/model"
)

func openTestDB(t *testing.T) *SearchDB {
	t.Helper()

	sdb, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		if err := sdb.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return sdb
}

func sampleReport() *model.SearchReport {
	report := model.NewSearchReport("n64", 30*time.Minute)
	report.PlatformID = "w89rwelk"
	report.PlatformName = "Nintendo 64"
	report.StartedAt = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	report.CompletedAt = report.StartedAt.Add(45 * time.Minute)
	report.GamesScanned = 120
	report.GamesSkipped = 2
	report.AddResult(model.SearchResult{
		GameID:       "o1y9wo6q",
		GameName:     "Super Mario 64",
		CategoryID:   "wkpoo02r",
		CategoryName: "Any%",
		Record:       15*time.Minute + 44*time.Second,
		Weblink:      "https://www.speedrun.com/sm64",
	})
	report.AddResult(model.SearchResult{
		GameID:       "j1neogy1",
		GameName:     "Banjo-Kazooie",
		CategoryID:   "zd35jnkn",
		CategoryName: "Any%",
		Record:       28 * time.Minute,
		Weblink:      "https://www.speedrun.com/bk",
	})
	return report
}

func TestOpenMissingDatabase(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.CreateIfNotExists = false

	if _, err := Open(t.TempDir(), opts); err == nil {
		t.Error("Open() with CreateIfNotExists=false should fail for a missing database")
	}
}

func TestSaveReportAndListRuns(t *testing.T) {
	t.Parallel()

	sdb := openTestDB(t)
	ctx := context.Background()

	runID, err := sdb.SaveReport(ctx, sampleReport())
	if err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}
	if runID == 0 {
		t.Error("SaveReport() returned run ID 0")
	}

	runs, err := sdb.ListRuns(ctx, "w89rwelk")
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("ListRuns() returned %d runs, want 1", len(runs))
	}

	run := runs[0]
	if run.ID != runID {
		t.Errorf("run ID = %d, want %d", run.ID, runID)
	}
	if run.PlatformName != "Nintendo 64" {
		t.Errorf("platform name = %q, want %q", run.PlatformName, "Nintendo 64")
	}
	if run.Threshold != 30*time.Minute {
		t.Errorf("threshold = %v, want %v", run.Threshold, 30*time.Minute)
	}
	if run.GamesScanned != 120 {
		t.Errorf("games scanned = %d, want 120", run.GamesScanned)
	}
	if run.Matched != 2 {
		t.Errorf("matched = %d, want 2", run.Matched)
	}
	if got := run.StartedAt; !got.Equal(time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("started at = %v, want 2026-08-01T12:00:00Z", got)
	}
}

func TestListRunsFilterAndOrder(t *testing.T) {
	t.Parallel()

	sdb := openTestDB(t)
	ctx := context.Background()

	first := sampleReport()
	if _, err := sdb.SaveReport(ctx, first); err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}

	second := sampleReport()
	second.StartedAt = first.StartedAt.Add(24 * time.Hour)
	second.CompletedAt = second.StartedAt.Add(time.Hour)
	if _, err := sdb.SaveReport(ctx, second); err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}

	other := sampleReport()
	other.PlatformID = "nzelkr6q"
	other.PlatformName = "GameCube"
	if _, err := sdb.SaveReport(ctx, other); err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}

	runs, err := sdb.ListRuns(ctx, "w89rwelk")
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("ListRuns() returned %d runs, want 2", len(runs))
	}
	if !runs[0].StartedAt.After(runs[1].StartedAt) {
		t.Error("ListRuns() should return newest runs first")
	}

	all, err := sdb.ListRuns(ctx, "")
	if err != nil {
		t.Fatalf("ListRuns(all) error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("ListRuns(all) returned %d runs, want 3", len(all))
	}

	latest, err := sdb.LatestRuns(ctx, "w89rwelk", 1)
	if err != nil {
		t.Fatalf("LatestRuns() error = %v", err)
	}
	if len(latest) != 1 {
		t.Fatalf("LatestRuns() returned %d runs, want 1", len(latest))
	}
	if !latest[0].StartedAt.Equal(second.StartedAt) {
		t.Error("LatestRuns() should return the newest run")
	}
}

func TestResults(t *testing.T) {
	t.Parallel()

	sdb := openTestDB(t)
	ctx := context.Background()

	runID, err := sdb.SaveReport(ctx, sampleReport())
	if err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}

	results, err := sdb.Results(ctx, runID)
	if err != nil {
		t.Fatalf("Results() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Results() returned %d results, want 2", len(results))
	}

	// Ordered by record time ascending.
	if results[0].GameName != "Super Mario 64" {
		t.Errorf("first result = %q, want Super Mario 64", results[0].GameName)
	}
	if got, want := results[0].Record, 15*time.Minute+44*time.Second; got != want {
		t.Errorf("record = %v, want %v", got, want)
	}
	if results[1].Weblink != "https://www.speedrun.com/bk" {
		t.Errorf("weblink = %q, want bk link", results[1].Weblink)
	}
}

func TestRun(t *testing.T) {
	t.Parallel()

	sdb := openTestDB(t)
	ctx := context.Background()

	runID, err := sdb.SaveReport(ctx, sampleReport())
	if err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}

	run, err := sdb.Run(ctx, runID)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if run.Query != "n64" {
		t.Errorf("query = %q, want n64", run.Query)
	}

	if _, err := sdb.Run(ctx, runID+999); err == nil {
		t.Error("Run() should fail for an unknown run ID")
	}
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			name:  "RFC 3339",
			input: "2026-08-01T12:00:00Z",
			want:  time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			name:  "SQLite datetime",
			input: "2026-08-01 12:00:00",
			want:  time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			name:  "garbage",
			input: "not a time",
			want:  time.Time{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := parseTimestamp(tt.input); !got.Equal(tt.want) {
				t.Errorf("parseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
