package app

import (
	"context"
	"testing"

	"normsim/adapters/estimators"
	"normsim/adapters/intervals"
	"normsim/adapters/rng"
	"normsim/adapters/sampling"
	"normsim/domain/core"
	"normsim/domain/experiment"
)

func newService() *ExperimentService {
	return NewExperimentService(sampling.NewGenerator(), rng.New())
}

func TestRunExperiment_NormalCoverageNearNominal(t *testing.T) {
	spec, _ := experiment.NewNormalSpec(0, 1)

	result, err := newService().RunExperiment(spec, 50, experiment.ProcedureClassicalMean, 1000, 0.95, 42)
	if err != nil {
		t.Fatal(err)
	}
	// Monte Carlo tolerance ~3*sqrt(0.95*0.05/1000), widened slightly for the
	// z-vs-t approximation at n=50
	if result.CoverageRate < 0.915 || result.CoverageRate > 0.975 {
		t.Errorf("normal coverage = %.3f, want ~0.95", result.CoverageRate)
	}
	if result.MeanWidth <= 0 {
		t.Errorf("mean width = %g, want positive", result.MeanWidth)
	}
}

func TestRunExperiment_TypeIErrorNearAlpha(t *testing.T) {
	spec, _ := experiment.NewNormalSpec(0, 1)

	result, err := newService().RunExperiment(spec, 50, experiment.ProcedureHypothesisTest, 1000, 0.95, 42)
	if err != nil {
		t.Fatal(err)
	}
	if result.Type1ErrorRate == nil {
		t.Fatal("Type1ErrorRate must be present on the hypothesis-test path")
	}
	if *result.Type1ErrorRate < 0.02 || *result.Type1ErrorRate > 0.08 {
		t.Errorf("Type I error rate = %.3f, want ~0.05", *result.Type1ErrorRate)
	}
}

func TestRunExperiment_WidthShrinksWithSampleSize(t *testing.T) {
	spec, _ := experiment.NewNormalSpec(0, 1)
	service := newService()

	previous := -1.0
	for _, n := range []int{50, 200, 1000} {
		result, err := service.RunExperiment(spec, n, experiment.ProcedureClassicalMean, 300, 0.95, 7)
		if err != nil {
			t.Fatal(err)
		}
		if previous > 0 && result.MeanWidth > previous {
			t.Errorf("mean width grew from %.4f to %.4f at n=%d", previous, result.MeanWidth, n)
		}
		previous = result.MeanWidth
	}
}

func TestRunExperiment_LogTransformOutCoversClassicalOnLognormal(t *testing.T) {
	spec, _ := experiment.NewLognormalSpec(0, 1)
	service := newService()

	classical, err := service.RunExperiment(spec, 50, experiment.ProcedureClassicalMean, 1000, 0.95, 42)
	if err != nil {
		t.Fatal(err)
	}
	logSpace, err := service.RunExperiment(spec, 50, experiment.ProcedureLogTransform, 1000, 0.95, 42)
	if err != nil {
		t.Fatal(err)
	}

	if classical.CoverageRate >= 0.94 {
		t.Errorf("classical coverage on skewed data should under-cover, got %.3f", classical.CoverageRate)
	}
	if logSpace.CoverageRate < classical.CoverageRate+0.02 {
		t.Errorf("log-space coverage %.3f should exceed classical %.3f by a clear margin",
			logSpace.CoverageRate, classical.CoverageRate)
	}
}

func TestRobustIntervalsSurviveInjectedOutliers(t *testing.T) {
	spec, _ := experiment.NewStudentTSpec(0, 1, 4)
	generator := sampling.NewGenerator()
	adapter := rng.New()

	const replicates = 300
	classicalCovered := 0
	medianCovered := 0

	classical := intervals.NewClassical()
	for i := 0; i < replicates; i++ {
		stream := adapter.TrialStream("outlier-study", i, 11)
		sample, err := generator.Generate(spec, 50, stream)
		if err != nil {
			t.Fatal(err)
		}
		// One-sided extreme contamination drags the mean off-center
		for k := 0; k < 4; k++ {
			sample[len(sample)-1-k] = 80
		}

		classicalInterval, err := classical.Build(sample, 0.95)
		if err != nil {
			t.Fatal(err)
		}
		if classicalInterval.Contains(spec.TrueCenter) {
			classicalCovered++
		}

		bootstrap, err := intervals.NewBootstrap(estimators.NewMedian(), 1000, stream)
		if err != nil {
			t.Fatal(err)
		}
		medianInterval, err := bootstrap.Build(sample, 0.95)
		if err != nil {
			t.Fatal(err)
		}
		if medianInterval.Contains(spec.TrueCenter) {
			medianCovered++
		}
	}

	classicalRate := float64(classicalCovered) / replicates
	medianRate := float64(medianCovered) / replicates
	if medianRate < classicalRate+0.3 {
		t.Errorf("median bootstrap coverage %.3f should clearly beat classical %.3f under contamination",
			medianRate, classicalRate)
	}
	if medianRate < 0.8 {
		t.Errorf("median bootstrap coverage %.3f should stay high under contamination", medianRate)
	}
}

func TestRunExperiment_Reproducible(t *testing.T) {
	spec, _ := experiment.NewStudentTSpec(0, 1, 4)
	service := newService()

	first, err := service.RunExperiment(spec, 50, experiment.ProcedureClassicalMean, 200, 0.95, 1234)
	if err != nil {
		t.Fatal(err)
	}
	second, err := service.RunExperiment(spec, 50, experiment.ProcedureClassicalMean, 200, 0.95, 1234)
	if err != nil {
		t.Fatal(err)
	}
	if first.CoverageRate != second.CoverageRate || first.MeanWidth != second.MeanWidth {
		t.Errorf("identical seeds must give bit-identical results: %+v vs %+v", first, second)
	}

	other, err := service.RunExperiment(spec, 50, experiment.ProcedureClassicalMean, 200, 0.95, 4321)
	if err != nil {
		t.Fatal(err)
	}
	diff := other.CoverageRate - first.CoverageRate
	if diff < -0.08 || diff > 0.08 {
		t.Errorf("different seeds should differ only by Monte Carlo noise, got %.3f vs %.3f",
			first.CoverageRate, other.CoverageRate)
	}
}

func TestRunExperiment_LogTransformOnNegativeDataFailsCell(t *testing.T) {
	// Normal samples contain negatives, so the log-transform cell must fail
	// outright instead of aggregating a biased subset
	spec, _ := experiment.NewNormalSpec(0, 1)

	_, err := newService().RunExperiment(spec, 50, experiment.ProcedureLogTransform, 100, 0.95, 42)
	if !core.IsDomainError(err) {
		t.Fatalf("expected domain error, got %v", err)
	}
}

func TestRunSweep_GridAndDeterminism(t *testing.T) {
	spec, _ := experiment.NewNormalSpec(0, 1)
	service := newService()

	req := SweepRequest{
		Specs:       []experiment.DistributionSpec{spec},
		SampleSizes: []int{20, 50},
		Procedures:  []experiment.ProcedureKind{experiment.ProcedureClassicalMean, experiment.ProcedureHypothesisTest},
		Trials:      100,
		Confidence:  0.95,
		Seed:        9,
	}

	first, err := service.RunSweep(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if len(first.Cells) != 4 {
		t.Fatalf("got %d cells, want 4", len(first.Cells))
	}
	for _, cell := range first.Cells {
		if cell.Fingerprint.IsEmpty() {
			t.Error("every cell should carry a fingerprint")
		}
	}

	second, err := service.RunSweep(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	for i := range first.Cells {
		a, b := first.Cells[i], second.Cells[i]
		if a.Result.CoverageRate != b.Result.CoverageRate || a.Result.MeanWidth != b.Result.MeanWidth {
			t.Errorf("cell %s not deterministic across sweeps", a.Cell.Key())
		}
		if !a.Fingerprint.Equals(b.Fingerprint) {
			t.Errorf("cell %s fingerprint changed across identical sweeps", a.Cell.Key())
		}
	}
}

func TestRunSweep_Validation(t *testing.T) {
	service := newService()

	_, err := service.RunSweep(context.Background(), SweepRequest{Trials: 100})
	if !core.IsParameterError(err) {
		t.Errorf("empty grid: expected parameter error, got %v", err)
	}

	spec, _ := experiment.NewNormalSpec(0, 1)
	_, err = service.RunSweep(context.Background(), SweepRequest{
		Specs:       []experiment.DistributionSpec{spec},
		SampleSizes: []int{10},
		Procedures:  []experiment.ProcedureKind{experiment.ProcedureClassicalMean},
		Trials:      0,
	})
	if !core.IsParameterError(err) {
		t.Errorf("zero trials: expected parameter error, got %v", err)
	}
}
