package app

import (
	"normsim/domain/experiment"
)

// CanonicalSpecs returns the four study distributions: standard normal,
// lognormal(0, 1), Student-t with 4 degrees of freedom, and the symmetric
// bimodal mixture of N(-2, 1) and N(+2, 1)
func CanonicalSpecs() ([]experiment.DistributionSpec, error) {
	normal, err := experiment.NewNormalSpec(0, 1)
	if err != nil {
		return nil, err
	}
	lognormal, err := experiment.NewLognormalSpec(0, 1)
	if err != nil {
		return nil, err
	}
	studentT, err := experiment.NewStudentTSpec(0, 1, 4)
	if err != nil {
		return nil, err
	}
	mix, err := experiment.NewMixtureSpec([]experiment.MixtureComponent{
		{Weight: 0.5, Location: -2, Scale: 1},
		{Weight: 0.5, Location: 2, Scale: 1},
	})
	if err != nil {
		return nil, err
	}
	return []experiment.DistributionSpec{normal, lognormal, studentT, mix}, nil
}
