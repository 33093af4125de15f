package app

import (
	"fmt"
	"math/rand"

	"normsim/adapters/estimators"
	"normsim/adapters/htest"
	"normsim/adapters/intervals"
	"normsim/domain/core"
	"normsim/domain/experiment"
	"normsim/ports"
)

// DefaultTrimFraction drops 10% from each tail for the trimmed-mean procedure
const DefaultTrimFraction = 0.1

// TrialRunner executes the K independent trials of one experiment cell.
// It is a single-shot state machine: Idle -> Running -> Complete or Failed.
// A domain error in any trial fails the whole batch; silently dropping one
// outcome would bias the coverage denominator.
type TrialRunner struct {
	sampler ports.Sampler
	rngPort ports.RNGPort

	cell       experiment.Cell
	trials     int
	confidence float64
	baseSeed   int64

	trimFraction float64
	resamples    int

	state experiment.CellState
}

// NewTrialRunner validates the cell configuration and returns an Idle runner
func NewTrialRunner(sampler ports.Sampler, rngPort ports.RNGPort, cell experiment.Cell, trials int, confidence float64, baseSeed int64) (*TrialRunner, error) {
	if err := cell.Spec.Validate(); err != nil {
		return nil, err
	}
	if cell.SampleSize < 1 {
		return nil, core.NewParameterError("sample_size", "must be at least 1")
	}
	if trials < 1 {
		return nil, core.NewParameterError("trials", "must be at least 1")
	}
	if confidence <= 0 || confidence >= 1 {
		return nil, core.NewParameterError("confidence", "must be in (0, 1)")
	}
	// Surface estimator misconfiguration before any trial runs
	if cell.Procedure == experiment.ProcedureTrimmedMeanBootstrap {
		if _, err := estimators.NewTrimmedMean(DefaultTrimFraction); err != nil {
			return nil, err
		}
	}
	return &TrialRunner{
		sampler:      sampler,
		rngPort:      rngPort,
		cell:         cell,
		trials:       trials,
		confidence:   confidence,
		baseSeed:     baseSeed,
		trimFraction: DefaultTrimFraction,
		resamples:    intervals.DefaultResamples,
	}, nil
}

// State reports the runner's lifecycle state
func (r *TrialRunner) State() experiment.CellState {
	if r.state == "" {
		return experiment.StateIdle
	}
	return r.state
}

// Run executes all trials and returns the complete batch. On any trial error
// the runner moves to Failed, the partial batch is discarded, and the error
// carries the cell key and trial index.
func (r *TrialRunner) Run() (*experiment.TrialBatch, error) {
	if r.State() != experiment.StateIdle {
		return nil, fmt.Errorf("trial runner for cell %s already started (state %s)", r.cell.Key(), r.state)
	}
	r.state = experiment.StateRunning

	batch := &experiment.TrialBatch{
		Cell:     r.cell,
		Trials:   r.trials,
		Outcomes: make([]experiment.TrialOutcome, 0, r.trials),
		State:    experiment.StateRunning,
	}

	for trial := 0; trial < r.trials; trial++ {
		stream := r.rngPort.TrialStream(r.cell.Key(), trial, r.baseSeed)

		sample, err := r.sampler.Generate(r.cell.Spec, r.cell.SampleSize, stream)
		if err != nil {
			return nil, r.fail(batch, trial, err)
		}

		outcome, err := r.runProcedure(sample, stream)
		if err != nil {
			return nil, r.fail(batch, trial, err)
		}
		batch.Outcomes = append(batch.Outcomes, outcome)
	}

	r.state = experiment.StateComplete
	batch.State = experiment.StateComplete
	return batch, nil
}

// RunOutcome executes the procedure once on an externally supplied sample.
// Used by tests to push synthetic data through a procedure.
func (r *TrialRunner) RunOutcome(sample []float64, stream *rand.Rand) (experiment.TrialOutcome, error) {
	return r.runProcedure(sample, stream)
}

func (r *TrialRunner) fail(batch *experiment.TrialBatch, trial int, err error) error {
	r.state = experiment.StateFailed
	batch.State = experiment.StateFailed
	batch.Outcomes = nil
	return fmt.Errorf("cell %s trial %d: %w", r.cell.Key(), trial, err)
}

func (r *TrialRunner) runProcedure(sample []float64, stream *rand.Rand) (experiment.TrialOutcome, error) {
	switch r.cell.Procedure {
	case experiment.ProcedureClassicalMean:
		return r.intervalOutcome(intervals.NewClassical(), sample)

	case experiment.ProcedureLogTransform:
		return r.intervalOutcome(intervals.NewLogSpace(), sample)

	case experiment.ProcedureMedianBootstrap:
		builder, err := intervals.NewBootstrap(estimators.NewMedian(), r.resamples, stream)
		if err != nil {
			return experiment.TrialOutcome{}, err
		}
		return r.intervalOutcome(builder, sample)

	case experiment.ProcedureTrimmedMeanBootstrap:
		trimmed, err := estimators.NewTrimmedMean(r.trimFraction)
		if err != nil {
			return experiment.TrialOutcome{}, err
		}
		builder, err := intervals.NewBootstrap(trimmed, r.resamples, stream)
		if err != nil {
			return experiment.TrialOutcome{}, err
		}
		return r.intervalOutcome(builder, sample)

	case experiment.ProcedureHypothesisTest:
		tester, err := htest.NewOneSampleTTest(1 - r.confidence)
		if err != nil {
			return experiment.TrialOutcome{}, err
		}
		// Testing the true null: hypothesized value is the spec's true center
		result, err := tester.Test(sample, r.cell.Spec.TrueCenter)
		if err != nil {
			return experiment.TrialOutcome{}, err
		}
		reject := result.RejectNull
		return experiment.TrialOutcome{RejectNull: &reject}, nil

	default:
		return experiment.TrialOutcome{}, core.NewParameterError("procedure", fmt.Sprintf("unknown procedure %q", r.cell.Procedure))
	}
}

func (r *TrialRunner) intervalOutcome(builder ports.IntervalBuilder, sample []float64) (experiment.TrialOutcome, error) {
	interval, err := builder.Build(sample, r.confidence)
	if err != nil {
		return experiment.TrialOutcome{}, err
	}
	return experiment.TrialOutcome{Interval: &interval, Width: interval.Width()}, nil
}
