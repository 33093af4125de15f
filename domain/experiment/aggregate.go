package experiment

import (
	"fmt"

	"normsim/domain/core"
)

// Reduce collapses a complete batch into its coverage summary. The
// denominator is always the full batch size, never a partial count: an
// incomplete or failed batch is a usage error here, not a statistical one.
func Reduce(batch *TrialBatch) (CoverageResult, error) {
	if batch == nil {
		return CoverageResult{}, fmt.Errorf("%w: nil batch", core.ErrIncompleteBatch)
	}
	if batch.State != StateComplete {
		return CoverageResult{}, fmt.Errorf("%w: cell %s in state %s", core.ErrIncompleteBatch, batch.Cell.Key(), batch.State)
	}
	if len(batch.Outcomes) != batch.Trials {
		return CoverageResult{}, fmt.Errorf("%w: cell %s has %d of %d outcomes",
			core.ErrIncompleteBatch, batch.Cell.Key(), len(batch.Outcomes), batch.Trials)
	}

	trueCenter := batch.Cell.Spec.TrueCenter
	covered := 0
	rejected := 0
	widthSum := 0.0
	intervals := 0

	for _, outcome := range batch.Outcomes {
		if outcome.Interval != nil {
			if outcome.Interval.Contains(trueCenter) {
				covered++
			}
			widthSum += outcome.Width
			intervals++
		}
		if outcome.RejectNull != nil && *outcome.RejectNull {
			rejected++
		}
	}

	result := CoverageResult{
		CoverageRate: float64(covered) / float64(batch.Trials),
	}
	if intervals > 0 {
		result.MeanWidth = widthSum / float64(intervals)
	}
	if batch.Cell.Procedure == ProcedureHypothesisTest {
		rate := float64(rejected) / float64(batch.Trials)
		result.Type1ErrorRate = &rate
	}
	return result, nil
}
