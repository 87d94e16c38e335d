package srs

import (
	"time"

	"github.com/fathomdev/fathom-api/internal/domain"
)

// Service defines the interface for scheduling operations. It exists so
// that the review orchestrator can be tested against a stub scheduler.
type Service interface {
	// ComputeNextState computes the progress resulting from one review.
	// A nil prior means the card has never been studied by this learner.
	// Pure and deterministic; never fails for a valid grade.
	ComputeNextState(
		prior *domain.LearningProgress,
		grade domain.Grade,
		reviewedAt time.Time,
	) domain.LearningProgress
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a scheduler with the default parameters.
func NewDefaultService() Service {
	return &defaultService{params: NewDefaultParams()}
}

// NewServiceWithParams creates a scheduler with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{params: params}
}

func (s *defaultService) ComputeNextState(
	prior *domain.LearningProgress,
	grade domain.Grade,
	reviewedAt time.Time,
) domain.LearningProgress {
	return ComputeNextState(prior, grade, reviewedAt, s.params)
}
