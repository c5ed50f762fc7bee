package model

import "testing"

func TestPlatformMatches(t *testing.T) {
	t.Parallel()

	p := Platform{ID: "w89rwelk", Name: "GameCube", Abbreviation: "gcn", Released: 2001}

	t.Run("matches exact ID", func(t *testing.T) {
		t.Parallel()
		if !p.Matches("w89rwelk") {
			t.Error("expected ID match")
		}
	})

	t.Run("matches name case-insensitively", func(t *testing.T) {
		t.Parallel()
		if !p.Matches("gamecube") {
			t.Error("expected name match")
		}
		if !p.Matches("GAMECUBE") {
			t.Error("expected upper-case name match")
		}
	})

	t.Run("matches abbreviation case-insensitively", func(t *testing.T) {
		t.Parallel()
		if !p.Matches("GCN") {
			t.Error("expected abbreviation match")
		}
	})

	t.Run("rejects other platforms and empty query", func(t *testing.T) {
		t.Parallel()
		if p.Matches("N64") {
			t.Error("expected no match for different platform")
		}
		if p.Matches("") {
			t.Error("expected no match for empty query")
		}
	})

	t.Run("empty abbreviation does not match empty-ish queries", func(t *testing.T) {
		t.Parallel()
		bare := Platform{ID: "abc12345", Name: "Some Homebrew Platform"}
		if bare.Matches("gcn") {
			t.Error("expected no match")
		}
	})
}
