package domain

import "errors"

// Grade is a learner's self-reported recall quality for a single review.
// Grades two and above count as a successful recall; below two the review
// is treated as a failure by the scheduler.
type Grade int

// Possible grade values, from total failure to perfect recall.
const (
	GradeForgot Grade = 0 // total recall failure
	GradeHard   Grade = 1 // recalled with difficulty
	GradeGood   Grade = 2 // recalled adequately
	GradeEasy   Grade = 3 // recalled perfectly
)

// ErrInvalidGrade is returned when a grade is outside the [0, 3] range.
var ErrInvalidGrade = errors.New("grade must be between 0 and 3")

// Valid reports whether the grade is within the accepted range.
func (g Grade) Valid() bool {
	return g >= GradeForgot && g <= GradeEasy
}

// Successful reports whether the grade counts as a successful recall.
func (g Grade) Successful() bool {
	return g >= GradeGood
}
