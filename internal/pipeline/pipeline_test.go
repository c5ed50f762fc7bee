package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/speedscan/speedscan/internal/model"
)

// recordingStep appends its name to a shared log when executed.
type recordingStep struct {
	name string
	log  *[]string
	err  error
}

func (s *recordingStep) Name() string { return s.name }

func (s *recordingStep) Do(_ context.Context, _ *model.SearchReport) error {
	*s.log = append(*s.log, s.name)
	return s.err
}

func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("runs steps in order and records them", func(t *testing.T) {
		t.Parallel()

		var log []string
		p := New()
		p.AddSteps(
			&recordingStep{name: "first", log: &log},
			&recordingStep{name: "second", log: &log},
			&recordingStep{name: "third", log: &log},
		)

		report := model.NewSearchReport("N64", 30*time.Minute)
		if err := p.Execute(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{"first", "second", "third"}
		if len(log) != len(want) {
			t.Fatalf("expected %d executions, got %d", len(want), len(log))
		}
		for i := range want {
			if log[i] != want[i] {
				t.Errorf("step %d: expected %s, got %s", i, want[i], log[i])
			}
		}
		if len(report.PerformedSteps) != 3 {
			t.Errorf("expected 3 performed steps, got %v", report.PerformedSteps)
		}
		if report.CompletedAt.IsZero() {
			t.Error("expected CompletedAt to be stamped")
		}
	})

	t.Run("failing step stops the pipeline", func(t *testing.T) {
		t.Parallel()

		var log []string
		boom := errors.New("boom")
		p := New()
		p.AddSteps(
			&recordingStep{name: "first", log: &log},
			&recordingStep{name: "second", log: &log, err: boom},
			&recordingStep{name: "third", log: &log},
		)

		report := model.NewSearchReport("N64", 30*time.Minute)
		err := p.Execute(context.Background(), report)
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
		if len(log) != 2 {
			t.Errorf("expected third step to be skipped, executed: %v", log)
		}
		if report.ErrorMessage != "boom" {
			t.Errorf("expected error recorded on report, got %q", report.ErrorMessage)
		}
	})

	t.Run("cancelled context stops before the next step", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var log []string
		p := New()
		p.AddStep(&recordingStep{name: "never", log: &log})

		report := model.NewSearchReport("N64", 30*time.Minute)
		err := p.Execute(ctx, report)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if len(log) != 0 {
			t.Errorf("expected no steps to run, executed: %v", log)
		}
		if !report.Cancelled {
			t.Error("expected report to be marked cancelled")
		}
	})
}

func TestPipelineStepNames(t *testing.T) {
	t.Parallel()

	var log []string
	p := New()
	p.AddSteps(
		&recordingStep{name: "a", log: &log},
		&recordingStep{name: "b", log: &log},
	)

	if p.StepCount() != 2 {
		t.Errorf("expected 2 steps, got %d", p.StepCount())
	}
	names := p.StepNames()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("unexpected names: %v", names)
	}
}
