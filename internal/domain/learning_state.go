package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Ease factor bounds. These are data-model invariants: no persisted
// LearningState may carry an ease factor outside this range, and the
// scheduler clamps to it on every step.
const (
	MinEaseFactor = 1.3
	MaxEaseFactor = 2.5
)

// LearningState validation errors
var (
	// ErrStateCardIDEmpty is returned when a learning state's card ID is empty or nil.
	ErrStateCardIDEmpty = errors.New("learning state card ID cannot be empty")

	// ErrStateUserIDEmpty is returned when a learning state's user ID is empty or nil.
	ErrStateUserIDEmpty = errors.New("learning state user ID cannot be empty")

	// ErrInvalidEaseFactor is returned when an ease factor is outside [1.3, 2.5].
	ErrInvalidEaseFactor = errors.New("ease factor must be between 1.3 and 2.5")

	// ErrInvalidInterval is returned when an interval is negative.
	ErrInvalidInterval = errors.New("interval must be greater than or equal to 0")
)

// LearningProgress is the scheduling triple the scheduler computes for a
// review: the new ease factor, the new interval in days, and the date the
// card next becomes due.
type LearningProgress struct {
	EaseFactor    float64   `json:"ease_factor"`
	Interval      int       `json:"interval"`
	NextStudyDate time.Time `json:"next_study_date"`
}

// LearningState is one learner's scheduling record for one card, keyed by
// the (CardID, UserID) pair. It does not exist until the learner's first
// review of the card; every later review of the same card updates the
// same row. An interval of zero means the card has never been
// successfully reviewed.
type LearningState struct {
	CardID        uuid.UUID `json:"card_id"`
	UserID        uuid.UUID `json:"user_id"`
	EaseFactor    float64   `json:"ease_factor"`
	Interval      int       `json:"interval"`
	NextStudyDate time.Time `json:"next_study_date"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewLearningState creates a learning state for the given card and
// learner from a computed progress triple.
// Returns an error if validation fails.
func NewLearningState(cardID, userID uuid.UUID, progress LearningProgress) (*LearningState, error) {
	now := time.Now().UTC()
	state := &LearningState{
		CardID:        cardID,
		UserID:        userID,
		EaseFactor:    progress.EaseFactor,
		Interval:      progress.Interval,
		NextStudyDate: progress.NextStudyDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := state.Validate(); err != nil {
		return nil, err
	}

	return state, nil
}

// Progress returns the scheduling triple held by the state.
func (s *LearningState) Progress() LearningProgress {
	return LearningProgress{
		EaseFactor:    s.EaseFactor,
		Interval:      s.Interval,
		NextStudyDate: s.NextStudyDate,
	}
}

// Due reports whether the card is due for review at the given time.
func (s *LearningState) Due(now time.Time) bool {
	return !s.NextStudyDate.After(now)
}

// Validate checks if the LearningState has valid data.
func (s *LearningState) Validate() error {
	if s.CardID == uuid.Nil {
		return ErrStateCardIDEmpty
	}

	if s.UserID == uuid.Nil {
		return ErrStateUserIDEmpty
	}

	if s.EaseFactor < MinEaseFactor || s.EaseFactor > MaxEaseFactor {
		return ErrInvalidEaseFactor
	}

	if s.Interval < 0 {
		return ErrInvalidInterval
	}

	return nil
}
