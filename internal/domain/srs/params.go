package srs

import "github.com/fathomdev/fathom-api/internal/domain"

// Params defines the configurable parameters of the scheduling algorithm.
type Params struct {
	// InitialEaseFactor is assumed for a card that has never been studied.
	InitialEaseFactor float64

	// MinEaseFactor and MaxEaseFactor bound the ease factor; the
	// algorithm clamps to them on every step, not just at the output.
	MinEaseFactor float64
	MaxEaseFactor float64

	// InitialInterval is the interval in days after the first successful
	// review.
	InitialInterval int

	// SecondInterval is the fixed interval in days after the second
	// successful review. It is a fixed bootstrap step, not derived from
	// the ease factor.
	SecondInterval int

	// FailureInterval is the interval in days a failed review resets to,
	// regardless of prior progress.
	FailureInterval int
}

// NewDefaultParams creates a Params instance with the standard values.
func NewDefaultParams() *Params {
	return &Params{
		InitialEaseFactor: 1.8,
		MinEaseFactor:     domain.MinEaseFactor,
		MaxEaseFactor:     domain.MaxEaseFactor,
		InitialInterval:   1,
		SecondInterval:    3,
		FailureInterval:   1,
	}
}
