package mixture

import (
	"math"

	"normsim/domain/core"
	"normsim/domain/experiment"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// DefaultMaxIterations caps the EM loop
	DefaultMaxIterations = 200
	// DefaultTolerance stops the loop once successive log-likelihood
	// improvement falls below it
	DefaultTolerance = 1e-6

	// minScale keeps a component from collapsing onto a single point
	minScale = 1e-6
)

// Decomposer fits a two-component Gaussian mixture by
// expectation-maximization. Hitting the iteration cap is reported through
// MixtureFit.Converged rather than an error; a non-converged fit is still
// informative and callers decide whether to retry.
type Decomposer struct {
	maxIterations int
	tolerance     float64
}

// NewDecomposer creates an EM decomposer
func NewDecomposer(maxIterations int, tolerance float64) (*Decomposer, error) {
	if maxIterations < 1 {
		return nil, core.NewParameterError("max_iterations", "must be at least 1")
	}
	if tolerance <= 0 {
		return nil, core.NewParameterError("tolerance", "must be positive")
	}
	return &Decomposer{maxIterations: maxIterations, tolerance: tolerance}, nil
}

// Fit runs EM on the sample and reports per-component estimates, with
// components ordered by ascending mean
func (d *Decomposer) Fit(sample []float64) (experiment.MixtureFit, error) {
	if len(sample) == 0 {
		return experiment.MixtureFit{}, core.ErrEmptySample
	}
	if len(sample) < 4 {
		return experiment.MixtureFit{}, core.NewParameterError("sample_size", "mixture fit requires at least 4 observations")
	}

	means, sigmas, weights, err := initialize(sample)
	if err != nil {
		return experiment.MixtureFit{}, err
	}

	n := len(sample)
	resp := make([]float64, n) // posterior membership of component 0

	logLikelihood := math.Inf(-1)
	converged := false
	iterations := 0

	for iter := 0; iter < d.maxIterations; iter++ {
		iterations = iter + 1

		// E-step: posterior component membership given current parameters
		dist0 := distuv.Normal{Mu: means[0], Sigma: sigmas[0]}
		dist1 := distuv.Normal{Mu: means[1], Sigma: sigmas[1]}

		ll := 0.0
		for i, x := range sample {
			p0 := weights[0] * dist0.Prob(x)
			p1 := weights[1] * dist1.Prob(x)
			total := p0 + p1
			if total <= 0 {
				// Point far outside both components; split evenly
				resp[i] = 0.5
				total = math.SmallestNonzeroFloat64
			} else {
				resp[i] = p0 / total
			}
			ll += math.Log(total)
		}

		// M-step: weighted re-estimation of weight, location, scale
		for k := 0; k < 2; k++ {
			respSum := 0.0
			weightedSum := 0.0
			for i, x := range sample {
				r := resp[i]
				if k == 1 {
					r = 1 - r
				}
				respSum += r
				weightedSum += r * x
			}
			if respSum <= 0 {
				respSum = math.SmallestNonzeroFloat64
			}
			mu := weightedSum / respSum

			varSum := 0.0
			for i, x := range sample {
				r := resp[i]
				if k == 1 {
					r = 1 - r
				}
				varSum += r * (x - mu) * (x - mu)
			}

			means[k] = mu
			sigmas[k] = math.Max(math.Sqrt(varSum/respSum), minScale)
			weights[k] = respSum / float64(n)
		}

		if ll-logLikelihood < d.tolerance && iter > 0 {
			logLikelihood = ll
			converged = true
			break
		}
		logLikelihood = ll
	}

	fit := experiment.MixtureFit{
		LogLikelihood: logLikelihood,
		Iterations:    iterations,
		Converged:     converged,
	}
	lo, hi := 0, 1
	if means[1] < means[0] {
		lo, hi = 1, 0
	}
	fit.ComponentMeans = [2]float64{means[lo], means[hi]}
	fit.ComponentStdDevs = [2]float64{sigmas[lo], sigmas[hi]}
	fit.ComponentWeights = [2]float64{weights[lo], weights[hi]}
	return fit, nil
}

// PosteriorAssignments returns a hard component label per observation under
// the fitted parameters, used by the remediation comparison to group data
func PosteriorAssignments(sample []float64, fit experiment.MixtureFit) []int {
	dist0 := distuv.Normal{Mu: fit.ComponentMeans[0], Sigma: fit.ComponentStdDevs[0]}
	dist1 := distuv.Normal{Mu: fit.ComponentMeans[1], Sigma: fit.ComponentStdDevs[1]}

	labels := make([]int, len(sample))
	for i, x := range sample {
		p0 := fit.ComponentWeights[0] * dist0.Prob(x)
		p1 := fit.ComponentWeights[1] * dist1.Prob(x)
		if p1 > p0 {
			labels[i] = 1
		}
	}
	return labels
}

// initialize seeds component locations from distinct sample quantiles so the
// two components never start identical
func initialize(sample []float64) (means, sigmas, weights [2]float64, err error) {
	q25, err := stats.Percentile(sample, 25)
	if err != nil {
		return means, sigmas, weights, err
	}
	q75, err := stats.Percentile(sample, 75)
	if err != nil {
		return means, sigmas, weights, err
	}
	sd, err := stats.StandardDeviationSample(sample)
	if err != nil {
		return means, sigmas, weights, err
	}

	if q75-q25 < minScale {
		// Degenerate spread; force distinct starts
		q25 -= 0.5
		q75 += 0.5
	}

	means = [2]float64{q25, q75}
	sigma := math.Max(sd, minScale)
	sigmas = [2]float64{sigma, sigma}
	weights = [2]float64{0.5, 0.5}
	return means, sigmas, weights, nil
}
