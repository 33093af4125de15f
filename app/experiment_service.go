package app

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"time"

	"normsim/domain/core"
	"normsim/domain/experiment"
	"normsim/ports"

	"golang.org/x/sync/errgroup"
)

// ExperimentService is the engine's boundary for reporting collaborators:
// it runs experiment cells and whole sweeps and hands back coverage summaries.
type ExperimentService struct {
	sampler ports.Sampler
	rngPort ports.RNGPort
}

// NewExperimentService creates an experiment service
func NewExperimentService(sampler ports.Sampler, rngPort ports.RNGPort) *ExperimentService {
	return &ExperimentService{sampler: sampler, rngPort: rngPort}
}

// RunExperiment runs one cell: K independent trials of the given procedure
// on samples of the given size, reduced to a coverage summary. Identical
// arguments including seed return bit-identical results.
func (s *ExperimentService) RunExperiment(spec experiment.DistributionSpec, sampleSize int, procedure experiment.ProcedureKind, trials int, confidence float64, seed int64) (experiment.CoverageResult, error) {
	cell := experiment.Cell{Spec: spec, SampleSize: sampleSize, Procedure: procedure}
	experimentID := core.ExperimentID(core.NewID())

	runner, err := NewTrialRunner(s.sampler, s.rngPort, cell, trials, confidence, seed)
	if err != nil {
		return experiment.CoverageResult{}, err
	}
	batch, err := runner.Run()
	if err != nil {
		log.Printf("[RunExperiment] experiment %s failed: %v", experimentID, err)
		return experiment.CoverageResult{}, err
	}
	return experiment.Reduce(batch)
}

// SweepRequest defines a grid of experiment cells to run
type SweepRequest struct {
	Specs       []experiment.DistributionSpec
	SampleSizes []int
	Procedures  []experiment.ProcedureKind
	Trials      int
	Confidence  float64
	Seed        int64
}

// DefaultSampleSizes is the standard sweep grid
func DefaultSampleSizes() []int {
	return []int{50, 200, 500, 1000, 5000}
}

// CellResult pairs a cell with its reduced summary and audit fields
type CellResult struct {
	Cell        experiment.Cell           `json:"cell"`
	Result      experiment.CoverageResult `json:"result"`
	Fingerprint core.Hash                 `json:"fingerprint"`
	RuntimeMs   int64                     `json:"runtime_ms"`
}

// SweepResult contains every cell of a sweep in grid order
type SweepResult struct {
	SweepID   core.SweepID `json:"sweep_id"`
	Seed      int64        `json:"seed"`
	Trials    int          `json:"trials"`
	Cells     []CellResult `json:"cells"`
	RuntimeMs int64        `json:"runtime_ms"`
}

// RunSweep runs every (spec, sample size, procedure) cell of the request.
// Cells are independent, so they fan out across a bounded worker group; each
// cell derives its own seed stream from the shared base seed, which makes
// parallel output identical to serial output.
func (s *ExperimentService) RunSweep(ctx context.Context, req SweepRequest) (*SweepResult, error) {
	if len(req.Specs) == 0 || len(req.SampleSizes) == 0 || len(req.Procedures) == 0 {
		return nil, core.NewParameterError("sweep", "specs, sample sizes, and procedures must be non-empty")
	}
	if req.Trials < 1 {
		return nil, core.NewParameterError("trials", "must be at least 1")
	}

	start := time.Now()
	sweepID := core.SweepID(core.NewID())

	cells := make([]experiment.Cell, 0, len(req.Specs)*len(req.SampleSizes)*len(req.Procedures))
	for _, spec := range req.Specs {
		for _, n := range req.SampleSizes {
			for _, procedure := range req.Procedures {
				cells = append(cells, experiment.Cell{Spec: spec, SampleSize: n, Procedure: procedure})
			}
		}
	}
	log.Printf("[RunSweep] sweep %s: %d cells, %d trials each, seed %d", sweepID, len(cells), req.Trials, req.Seed)

	results := make([]CellResult, len(cells))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.NumCPU())

	for i, cell := range cells {
		i, cell := i, cell
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cellStart := time.Now()

			result, err := s.RunExperiment(cell.Spec, cell.SampleSize, cell.Procedure, req.Trials, req.Confidence, req.Seed)
			if err != nil {
				return fmt.Errorf("sweep %s: %w", sweepID, err)
			}

			results[i] = CellResult{
				Cell:        cell,
				Result:      result,
				Fingerprint: core.ComputeCellFingerprint(cell.Key(), req.Trials, req.Confidence, req.Seed),
				RuntimeMs:   time.Since(cellStart).Milliseconds(),
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	log.Printf("[RunSweep] sweep %s finished in %dms", sweepID, time.Since(start).Milliseconds())
	return &SweepResult{
		SweepID:   sweepID,
		Seed:      req.Seed,
		Trials:    req.Trials,
		Cells:     results,
		RuntimeMs: time.Since(start).Milliseconds(),
	}, nil
}
