package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrGenerationFailed is returned when the model responded but yielded no usable card drafts
	ErrGenerationFailed = errors.New("failed to generate card drafts")

	// ErrInvalidResponse is returned when the LLM response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error during card drafting")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrEmptyTopic is returned when the requested topic is empty
	ErrEmptyTopic = errors.New("topic cannot be empty")
)
