// Package generation defines the boundary between the application core
// and external LLM services used to draft flashcards.
package generation

import "context"

// CardDraft is a proposed flashcard produced by a generator. Drafts are
// returned to the caller for review; nothing is persisted until the
// caller creates real cards from them.
type CardDraft struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Generator defines the interface for drafting flashcards on a topic.
type Generator interface {
	// GenerateDrafts creates up to count flashcard drafts about the given
	// topic. Returns at least one draft on success.
	GenerateDrafts(ctx context.Context, topic string, count int) ([]CardDraft, error)
}
