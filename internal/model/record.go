package model

import (
	"fmt"
	"time"
)

// WorldRecord is the first-place run on a (game, category) leaderboard.
type WorldRecord struct {
	// GameID is the game the record belongs to.
	GameID string `json:"game_id"`

	// CategoryID is the category the record belongs to.
	CategoryID string `json:"category_id"`

	// RunID is the identifier of the record run itself.
	RunID string `json:"run_id,omitempty"`

	// Time is the primary completion time of the run.
	Time time.Duration `json:"time"`

	// Place is the leaderboard rank, always 1 for a world record.
	Place int `json:"place"`
}

// FormatRunTime renders a run duration the way speedrunners write times:
// "2h 05m 30s", "15m 44s", or "44s". Sub-second precision is dropped
// because leaderboard thresholds are whole seconds.
func FormatRunTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %02dm %02ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm %02ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}
