package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Caller errors: malformed specs or estimator configuration. Never retried.
	ErrInvalidParameter = errors.New("invalid parameter")

	// A procedure's mathematical precondition was violated by the data
	// (e.g. a non-positive value reaching the log transform). Surfaces as a
	// batch-level failure, never swallowed per-trial.
	ErrInvalidDomain = errors.New("domain precondition violated")

	// Defensive guard; unreachable when sample sizes are validated up front.
	ErrEmptySample = errors.New("empty sample")

	// Aggregating a batch that never reached the Complete state is a usage
	// error, not a statistical one.
	ErrIncompleteBatch = errors.New("batch is not complete")
)

// Error constructors with context

func NewParameterError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidParameter, field, reason)
}

// Error checking helpers

func IsParameterError(err error) bool {
	return errors.Is(err, ErrInvalidParameter)
}

func IsDomainError(err error) bool {
	return errors.Is(err, ErrInvalidDomain)
}

func IsEmptySampleError(err error) bool {
	return errors.Is(err, ErrEmptySample)
}
