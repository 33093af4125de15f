package experiment

import (
	"errors"
	"testing"

	"normsim/domain/core"
)

func intervalOutcome(lower, upper float64) TrialOutcome {
	iv := Interval{Lower: lower, Upper: upper}
	return TrialOutcome{Interval: &iv, Width: iv.Width()}
}

func rejectOutcome(reject bool) TrialOutcome {
	return TrialOutcome{RejectNull: &reject}
}

func completeBatch(cell Cell, outcomes []TrialOutcome) *TrialBatch {
	return &TrialBatch{
		Cell:     cell,
		Trials:   len(outcomes),
		Outcomes: outcomes,
		State:    StateComplete,
	}
}

func TestReduce_CoverageAndWidth(t *testing.T) {
	spec, _ := NewNormalSpec(0, 1)
	cell := Cell{Spec: spec, SampleSize: 10, Procedure: ProcedureClassicalMean}

	batch := completeBatch(cell, []TrialOutcome{
		intervalOutcome(-1, 1),  // covers 0, width 2
		intervalOutcome(0.5, 2), // misses, width 1.5
		intervalOutcome(-2, 0),  // covers (closed bound), width 2
		intervalOutcome(1, 3),   // misses, width 2
	})

	result, err := Reduce(batch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.CoverageRate != 0.5 {
		t.Errorf("CoverageRate = %g, want 0.5", result.CoverageRate)
	}
	if result.MeanWidth != 1.875 {
		t.Errorf("MeanWidth = %g, want 1.875", result.MeanWidth)
	}
	if result.Type1ErrorRate != nil {
		t.Error("Type1ErrorRate should be absent outside the hypothesis-test path")
	}
}

func TestReduce_HypothesisPath(t *testing.T) {
	spec, _ := NewNormalSpec(0, 1)
	cell := Cell{Spec: spec, SampleSize: 10, Procedure: ProcedureHypothesisTest}

	batch := completeBatch(cell, []TrialOutcome{
		rejectOutcome(true),
		rejectOutcome(false),
		rejectOutcome(false),
		rejectOutcome(false),
	})

	result, err := Reduce(batch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Type1ErrorRate == nil {
		t.Fatal("Type1ErrorRate should be present on the hypothesis-test path")
	}
	if *result.Type1ErrorRate != 0.25 {
		t.Errorf("Type1ErrorRate = %g, want 0.25", *result.Type1ErrorRate)
	}
	if result.MeanWidth != 0 {
		t.Errorf("MeanWidth = %g, want 0 when no intervals exist", result.MeanWidth)
	}
}

func TestReduce_RejectsIncompleteBatches(t *testing.T) {
	spec, _ := NewNormalSpec(0, 1)
	cell := Cell{Spec: spec, SampleSize: 10, Procedure: ProcedureClassicalMean}

	cases := []struct {
		name  string
		batch *TrialBatch
	}{
		{"nil batch", nil},
		{"running", &TrialBatch{Cell: cell, Trials: 2, State: StateRunning}},
		{"failed", &TrialBatch{Cell: cell, Trials: 2, State: StateFailed}},
		{"short", &TrialBatch{Cell: cell, Trials: 3, State: StateComplete,
			Outcomes: []TrialOutcome{intervalOutcome(-1, 1)}}},
	}

	for _, tc := range cases {
		if _, err := Reduce(tc.batch); !errors.Is(err, core.ErrIncompleteBatch) {
			t.Errorf("%s: expected ErrIncompleteBatch, got %v", tc.name, err)
		}
	}
}
