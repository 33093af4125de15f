package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"normsim/adapters/rng"
	"normsim/adapters/sampling"
	"normsim/app"
	"normsim/domain/experiment"
	"normsim/internal/mixture"
	"normsim/internal/report"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// Optional .env for default seed and trial counts
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "normsim",
		Short: "Monte Carlo study of estimation and testing under non-normality",
	}

	rootCmd.AddCommand(
		newSweepCmd(),
		newMixtureCmd(),
		newConvergenceCmd(),
		newBiasCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultSeed() int64 {
	if raw := os.Getenv("NORMSIM_SEED"); raw != "" {
		if seed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return seed
		}
	}
	return 42
}

func newSweepCmd() *cobra.Command {
	var (
		trials     int
		confidence float64
		seed       int64
		sizes      []int
		procedures []string
		xlsxPath   string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run the full coverage/Type-I sweep across distributions, sizes, and procedures",
		RunE: func(cmd *cobra.Command, args []string) error {
			specs, err := app.CanonicalSpecs()
			if err != nil {
				return err
			}

			kinds := make([]experiment.ProcedureKind, 0, len(procedures))
			if len(procedures) == 0 {
				kinds = experiment.AllProcedures()
			}
			for _, p := range procedures {
				kinds = append(kinds, experiment.ProcedureKind(p))
			}

			service := app.NewExperimentService(sampling.NewGenerator(), rng.New())
			result, err := service.RunSweep(cmd.Context(), app.SweepRequest{
				Specs:       specs,
				SampleSizes: sizes,
				Procedures:  kinds,
				Trials:      trials,
				Confidence:  confidence,
				Seed:        seed,
			})
			if err != nil {
				return err
			}

			if xlsxPath != "" {
				if err := report.WriteSweepWorkbook(xlsxPath, result); err != nil {
					return err
				}
				fmt.Printf("Wrote %s\n", xlsxPath)
			}

			if asJSON {
				return printJSON(result)
			}
			renderSweepTable(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&trials, "trials", 1000, "Trials per experiment cell")
	cmd.Flags().Float64Var(&confidence, "confidence", 0.95, "Nominal confidence level")
	cmd.Flags().Int64Var(&seed, "seed", defaultSeed(), "Base random seed")
	cmd.Flags().IntSliceVar(&sizes, "sizes", app.DefaultSampleSizes(), "Sample sizes to sweep")
	cmd.Flags().StringSliceVar(&procedures, "procedures", nil, "Procedures to run (default: all)")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Optional path for an xlsx results workbook")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func renderSweepTable(result *app.SweepResult) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Distribution", "N", "Procedure", "Coverage", "Mean Width", "Type I"})
	for _, cell := range result.Cells {
		type1 := "-"
		if cell.Result.Type1ErrorRate != nil {
			type1 = fmt.Sprintf("%.3f", *cell.Result.Type1ErrorRate)
		}
		t.AppendRow(table.Row{
			cell.Cell.Spec.Kind,
			cell.Cell.SampleSize,
			cell.Cell.Procedure,
			fmt.Sprintf("%.3f", cell.Result.CoverageRate),
			fmt.Sprintf("%.4f", cell.Result.MeanWidth),
			type1,
		})
	}
	t.Render()
	fmt.Printf("Sweep %s: %d cells in %dms (seed %d)\n", result.SweepID, len(result.Cells), result.RuntimeMs, result.Seed)
}

func newMixtureCmd() *cobra.Command {
	var (
		sampleSize int
		seed       int64
		maxIters   int
		tolerance  float64
		confidence float64
	)

	cmd := &cobra.Command{
		Use:   "mixture",
		Short: "Fit a two-component mixture and compare against the pooled interval",
		RunE: func(cmd *cobra.Command, args []string) error {
			specs, err := app.CanonicalSpecs()
			if err != nil {
				return err
			}
			var mixSpec experiment.DistributionSpec
			for _, spec := range specs {
				if spec.Kind == experiment.KindMixture {
					mixSpec = spec
				}
			}

			generator := sampling.NewGenerator()
			stream := rng.New().SeededStream("mixture-demo", seed)
			sample, err := generator.Generate(mixSpec, sampleSize, stream)
			if err != nil {
				return err
			}

			comparison, err := app.NewMixtureService().CompareMixture(sample, maxIters, tolerance, confidence)
			if err != nil {
				return err
			}
			return printJSON(comparison)
		},
	}

	cmd.Flags().IntVar(&sampleSize, "n", 1200, "Sample size to draw from the mixture")
	cmd.Flags().Int64Var(&seed, "seed", defaultSeed(), "Random seed")
	cmd.Flags().IntVar(&maxIters, "max-iters", mixture.DefaultMaxIterations, "EM iteration cap")
	cmd.Flags().Float64Var(&tolerance, "tolerance", mixture.DefaultTolerance, "EM log-likelihood tolerance")
	cmd.Flags().Float64Var(&confidence, "confidence", 0.95, "Confidence level for the intervals")
	return cmd
}

func newConvergenceCmd() *cobra.Command {
	var (
		seed  int64
		sizes []int
	)

	cmd := &cobra.Command{
		Use:   "convergence",
		Short: "Track sample-mean convergence to the true center per distribution",
		RunE: func(cmd *cobra.Command, args []string) error {
			specs, err := app.CanonicalSpecs()
			if err != nil {
				return err
			}
			service := app.NewConvergenceService(sampling.NewGenerator(), rng.New())

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"Distribution", "N", "Sample Mean", "True Center", "Abs Error"})
			for _, spec := range specs {
				points, err := service.TrackConvergence(spec, sizes, seed)
				if err != nil {
					return err
				}
				for _, p := range points {
					t.AppendRow(table.Row{
						spec.Kind, p.SampleSize,
						fmt.Sprintf("%.4f", p.SampleMean),
						fmt.Sprintf("%.4f", p.TrueCenter),
						fmt.Sprintf("%.4f", p.AbsoluteError),
					})
				}
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", defaultSeed(), "Random seed")
	cmd.Flags().IntSliceVar(&sizes, "sizes", app.DefaultSampleSizes(), "Sample sizes to track")
	return cmd
}

func newBiasCmd() *cobra.Command {
	var (
		seed  int64
		sizes []int
	)

	cmd := &cobra.Command{
		Use:   "bias",
		Short: "Compare single-sample moment estimates against analytic truth",
		RunE: func(cmd *cobra.Command, args []string) error {
			specs, err := app.CanonicalSpecs()
			if err != nil {
				return err
			}
			records, err := app.NewEstimationService(sampling.NewGenerator(), rng.New()).RunBiasStudy(specs, sizes, seed)
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"Distribution", "N", "Sample Mean", "Mean Bias", "Sample Var", "Var Error"})
			for _, r := range records {
				t.AppendRow(table.Row{
					r.Kind, r.SampleSize,
					fmt.Sprintf("%.4f", r.SampleMean),
					fmt.Sprintf("%+.4f", r.MeanBias),
					fmt.Sprintf("%.4f", r.SampleVariance),
					fmt.Sprintf("%+.4f", r.VarianceError),
				})
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", defaultSeed(), "Random seed")
	cmd.Flags().IntSliceVar(&sizes, "sizes", app.DefaultSampleSizes(), "Sample sizes")
	return cmd
}

func printJSON(v interface{}) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}
