package experiment

import (
	"math"

	"normsim/domain/core"
)

// DistributionKind identifies one of the four data-generating processes
type DistributionKind string

const (
	KindNormal    DistributionKind = "normal"
	KindLognormal DistributionKind = "lognormal"
	KindStudentT  DistributionKind = "student_t"
	KindMixture   DistributionKind = "mixture"
)

// MixtureComponent describes one normal component of a mixture law
type MixtureComponent struct {
	Weight   float64 `json:"weight"`
	Location float64 `json:"location"`
	Scale    float64 `json:"scale"`
}

// DistributionSpec is the immutable ground truth against which every
// procedure is checked. TrueCenter and TrueVariance are derived
// analytically from the parameters at construction.
type DistributionSpec struct {
	Kind             DistributionKind   `json:"kind"`
	Location         float64            `json:"location,omitempty"`
	Scale            float64            `json:"scale,omitempty"`
	DegreesOfFreedom float64            `json:"degrees_of_freedom,omitempty"`
	Components       []MixtureComponent `json:"components,omitempty"`
	TrueCenter       float64            `json:"true_center"`
	TrueVariance     float64            `json:"true_variance"`
}

// NewNormalSpec builds a normal(location, scale) spec
func NewNormalSpec(location, scale float64) (DistributionSpec, error) {
	if scale <= 0 {
		return DistributionSpec{}, core.NewParameterError("scale", "must be positive")
	}
	return DistributionSpec{
		Kind:         KindNormal,
		Location:     location,
		Scale:        scale,
		TrueCenter:   location,
		TrueVariance: scale * scale,
	}, nil
}

// NewLognormalSpec builds a lognormal spec where location and scale are the
// mean and standard deviation of the underlying normal. The true center is
// the distribution mean exp(mu + sigma^2/2), not exp(mu).
func NewLognormalSpec(location, scale float64) (DistributionSpec, error) {
	if scale <= 0 {
		return DistributionSpec{}, core.NewParameterError("scale", "must be positive")
	}
	sigma2 := scale * scale
	return DistributionSpec{
		Kind:         KindLognormal,
		Location:     location,
		Scale:        scale,
		TrueCenter:   math.Exp(location + sigma2/2),
		TrueVariance: (math.Exp(sigma2) - 1) * math.Exp(2*location+sigma2),
	}, nil
}

// NewStudentTSpec builds a shifted/scaled Student-t spec. Variance is
// df/(df-2) times scale^2 when df > 2, infinite otherwise.
func NewStudentTSpec(location, scale, df float64) (DistributionSpec, error) {
	if scale <= 0 {
		return DistributionSpec{}, core.NewParameterError("scale", "must be positive")
	}
	if df <= 0 {
		return DistributionSpec{}, core.NewParameterError("degrees_of_freedom", "must be positive")
	}
	variance := math.Inf(1)
	if df > 2 {
		variance = scale * scale * df / (df - 2)
	}
	return DistributionSpec{
		Kind:             KindStudentT,
		Location:         location,
		Scale:            scale,
		DegreesOfFreedom: df,
		TrueCenter:       location,
		TrueVariance:     variance,
	}, nil
}

// NewMixtureSpec builds a two-component normal mixture spec. The true center
// is the weighted combination of component means; the true variance adds the
// between-component spread to the within-component variance.
func NewMixtureSpec(components []MixtureComponent) (DistributionSpec, error) {
	if len(components) != 2 {
		return DistributionSpec{}, core.NewParameterError("components", "exactly two components required")
	}
	weightSum := 0.0
	for _, c := range components {
		if c.Scale <= 0 {
			return DistributionSpec{}, core.NewParameterError("components", "component scale must be positive")
		}
		if c.Weight <= 0 {
			return DistributionSpec{}, core.NewParameterError("components", "component weight must be positive")
		}
		weightSum += c.Weight
	}
	if math.Abs(weightSum-1) > 1e-9 {
		return DistributionSpec{}, core.NewParameterError("components", "component weights must sum to 1")
	}

	center := 0.0
	secondMoment := 0.0
	for _, c := range components {
		center += c.Weight * c.Location
		secondMoment += c.Weight * (c.Scale*c.Scale + c.Location*c.Location)
	}

	return DistributionSpec{
		Kind:         KindMixture,
		Components:   components,
		TrueCenter:   center,
		TrueVariance: secondMoment - center*center,
	}, nil
}

// Validate re-checks parameter invariants on a spec built by hand
func (s DistributionSpec) Validate() error {
	switch s.Kind {
	case KindNormal, KindLognormal:
		if s.Scale <= 0 {
			return core.NewParameterError("scale", "must be positive")
		}
	case KindStudentT:
		if s.Scale <= 0 {
			return core.NewParameterError("scale", "must be positive")
		}
		if s.DegreesOfFreedom <= 0 {
			return core.NewParameterError("degrees_of_freedom", "must be positive")
		}
	case KindMixture:
		if _, err := NewMixtureSpec(s.Components); err != nil {
			return err
		}
	default:
		return core.NewParameterError("kind", "unknown distribution kind")
	}
	return nil
}
