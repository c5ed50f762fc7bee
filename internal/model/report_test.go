package model

import (
	"errors"
	"testing"
	"time"
)

func TestNewSearchReport(t *testing.T) {
	t.Parallel()

	r := NewSearchReport("N64", 30*time.Minute)

	if r.Query != "N64" {
		t.Errorf("expected query N64, got %s", r.Query)
	}
	if r.Threshold != 30*time.Minute {
		t.Errorf("expected threshold 30m, got %v", r.Threshold)
	}
	if r.StartedAt.IsZero() {
		t.Error("expected StartedAt to be set")
	}
	if r.Results == nil || len(r.Results) != 0 {
		t.Error("expected empty, non-nil result slice")
	}
}

func TestSearchReportAddResult(t *testing.T) {
	t.Parallel()

	r := NewSearchReport("N64", 30*time.Minute)
	r.AddResult(SearchResult{GameID: "o1y9wo6q", GameName: "Super Mario 64", Record: 944 * time.Second})

	if r.Matched() != 1 {
		t.Fatalf("expected 1 result, got %d", r.Matched())
	}
	if r.Results[0].GameName != "Super Mario 64" {
		t.Errorf("unexpected result: %+v", r.Results[0])
	}
}

func TestSearchReportSetError(t *testing.T) {
	t.Parallel()

	r := NewSearchReport("N64", 30*time.Minute)
	err := errors.New("platform listing unreachable")
	r.SetError(err)

	if !errors.Is(r.Err, err) {
		t.Error("expected wrapped error to be retained")
	}
	if r.ErrorMessage != "platform listing unreachable" {
		t.Errorf("unexpected error message: %s", r.ErrorMessage)
	}
}
