// Package srs implements the spaced-repetition scheduler: an SM-2 variant
// that maps a learner's prior progress on a card and a review grade to the
// next ease factor, interval, and due date. Everything in this package is
// pure, with no I/O, clocks, or randomness, which is what makes the
// scheduling core testable in isolation from storage and transport.
package srs

import (
	"math"
	"time"

	"github.com/fathomdev/fathom-api/internal/domain"
)

// calculateNewEaseFactor determines the new ease factor after a review.
//
// Only successful reviews adjust the ease factor; a failed review leaves
// it untouched so that a run of lapses cannot drive a card's difficulty
// weighting below what its successful history established. On success the
// adjustment is derived from how far the grade fell short of perfect:
//
//	delta = 0.1 - (3-grade) * (0.15 + (3-grade)*0.05)
//
// which works out to +0.1 for a perfect recall and -0.1 for an adequate
// one. The result is clamped to [params.MinEaseFactor, params.MaxEaseFactor]
// on every call.
func calculateNewEaseFactor(currentEF float64, grade domain.Grade, params *Params) float64 {
	if !grade.Successful() {
		return currentEF
	}

	shortfall := float64(domain.GradeEasy - grade)
	newEF := currentEF + (0.1 - shortfall*(0.15+shortfall*0.05))

	if newEF < params.MinEaseFactor {
		newEF = params.MinEaseFactor
	}
	if newEF > params.MaxEaseFactor {
		newEF = params.MaxEaseFactor
	}

	return newEF
}

// calculateNewInterval determines the next interval in days.
//
// A failed review resets the interval to params.FailureInterval no matter
// how long it had grown. Successful reviews walk the classic SM-2
// bootstrap: the first success schedules params.InitialInterval, the
// second a fixed params.SecondInterval, and from then on the interval
// grows multiplicatively by the new ease factor.
//
// The multiplicative step rounds half away from zero (math.Round); the
// operands here are always positive, so an exact .5 always rounds up.
// TestSteadyStateRounding pins that case.
func calculateNewInterval(currentInterval int, newEF float64, grade domain.Grade, params *Params) int {
	if !grade.Successful() {
		return params.FailureInterval
	}

	switch currentInterval {
	case 0:
		return params.InitialInterval
	case 1:
		return params.SecondInterval
	default:
		return int(math.Round(float64(currentInterval) * newEF))
	}
}

// ComputeNextState computes the learning progress that results from
// reviewing a card at reviewedAt with the given grade. A nil prior means
// the card has never been studied: the initial ease factor is assumed and
// the prior interval is zero.
//
// The next study date is reviewedAt plus the new interval in calendar
// days (AddDate), so reviews land on the same wall-clock time of the
// target day across DST transitions rather than drifting by 24h
// multiples.
//
// The function is total over valid grades and never fails; grade
// validation is the caller's responsibility (the API boundary rejects
// out-of-range grades before they reach the scheduler).
func ComputeNextState(
	prior *domain.LearningProgress,
	grade domain.Grade,
	reviewedAt time.Time,
	params *Params,
) domain.LearningProgress {
	currentEF := params.InitialEaseFactor
	currentInterval := 0
	if prior != nil {
		currentEF = prior.EaseFactor
		currentInterval = prior.Interval
	}

	newEF := calculateNewEaseFactor(currentEF, grade, params)
	newInterval := calculateNewInterval(currentInterval, newEF, grade, params)

	return domain.LearningProgress{
		EaseFactor:    newEF,
		Interval:      newInterval,
		NextStudyDate: reviewedAt.AddDate(0, 0, newInterval),
	}
}
