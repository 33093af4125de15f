package experiment

import (
	"fmt"

	"normsim/domain/core"
)

// ProcedureKind enumerates the interval/testing procedures under study
type ProcedureKind string

const (
	ProcedureClassicalMean        ProcedureKind = "classical_mean"
	ProcedureLogTransform         ProcedureKind = "log_transform"
	ProcedureMedianBootstrap      ProcedureKind = "median_bootstrap"
	ProcedureTrimmedMeanBootstrap ProcedureKind = "trimmed_mean_bootstrap"
	ProcedureHypothesisTest       ProcedureKind = "hypothesis_test"
)

// AllProcedures lists every procedure in canonical order
func AllProcedures() []ProcedureKind {
	return []ProcedureKind{
		ProcedureClassicalMean,
		ProcedureLogTransform,
		ProcedureMedianBootstrap,
		ProcedureTrimmedMeanBootstrap,
		ProcedureHypothesisTest,
	}
}

// Interval is a two-sided confidence interval, invariant Lower <= Upper
type Interval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// NewInterval constructs an interval, enforcing the ordering invariant
func NewInterval(lower, upper float64) (Interval, error) {
	if lower > upper {
		return Interval{}, core.NewParameterError("interval", "lower bound exceeds upper bound")
	}
	return Interval{Lower: lower, Upper: upper}, nil
}

// Width returns upper - lower
func (iv Interval) Width() float64 {
	return iv.Upper - iv.Lower
}

// Contains reports whether x lies inside the closed interval
func (iv Interval) Contains(x float64) bool {
	return iv.Lower <= x && x <= iv.Upper
}

// TrialOutcome is the result of one simulated trial. Interval is nil on the
// hypothesis-test path; RejectNull is nil on the interval paths.
type TrialOutcome struct {
	Interval   *Interval `json:"interval,omitempty"`
	RejectNull *bool     `json:"reject_null,omitempty"`
	Width      float64   `json:"width"`
}

// CellState tracks the lifecycle of one experiment cell
type CellState string

const (
	StateIdle     CellState = "idle"
	StateRunning  CellState = "running"
	StateComplete CellState = "complete"
	StateFailed   CellState = "failed"
)

// Cell identifies one (distribution, sample size, procedure) combination
type Cell struct {
	Spec       DistributionSpec `json:"spec"`
	SampleSize int              `json:"sample_size"`
	Procedure  ProcedureKind    `json:"procedure"`
}

// Key returns a stable string identity for the cell, used for sub-seed
// derivation and error context
func (c Cell) Key() string {
	return fmt.Sprintf("%s/n=%d/%s", c.Spec.Kind, c.SampleSize, c.Procedure)
}

// TrialBatch holds exactly Trials outcomes for one cell. Owned by the trial
// runner during construction; handed to Reduce once Complete.
type TrialBatch struct {
	Cell     Cell           `json:"cell"`
	Trials   int            `json:"trials"`
	Outcomes []TrialOutcome `json:"outcomes"`
	State    CellState      `json:"state"`
}

// CoverageResult is the externally consumed summary of one batch.
// Type1ErrorRate is present only for the hypothesis-test path.
type CoverageResult struct {
	CoverageRate   float64  `json:"coverage_rate"`
	MeanWidth      float64  `json:"mean_width"`
	Type1ErrorRate *float64 `json:"type1_error_rate,omitempty"`
}

// MixtureFit reports a two-component Gaussian mixture decomposition.
// A non-converged fit is still informative, so Converged is data rather
// than an error.
type MixtureFit struct {
	ComponentMeans   [2]float64 `json:"component_means"`
	ComponentStdDevs [2]float64 `json:"component_std_devs"`
	ComponentWeights [2]float64 `json:"component_weights"`
	LogLikelihood    float64    `json:"log_likelihood"`
	Iterations       int        `json:"iterations"`
	Converged        bool       `json:"converged"`
}
