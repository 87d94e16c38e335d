package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fathomdev/fathom-api/internal/domain"
)

func TestDeckServiceCreateAndGet(t *testing.T) {
	t.Parallel()

	decks := newMemDeckStore()
	svc := NewDeckService(decks, nil)
	userID := uuid.New()

	deck, err := svc.CreateDeck(context.Background(), userID, "Spanish", "Core vocabulary")
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, deck.ID)

	got, err := svc.GetDeck(context.Background(), userID, deck.ID)
	require.NoError(t, err)
	assert.Equal(t, "Spanish", got.Name)
	assert.Equal(t, userID, got.CreatedBy)
}

func TestDeckServiceCreateRejectsEmptyName(t *testing.T) {
	t.Parallel()

	svc := NewDeckService(newMemDeckStore(), nil)

	_, err := svc.CreateDeck(context.Background(), uuid.New(), "", "")
	assert.ErrorIs(t, err, domain.ErrDeckNameEmpty)
}

func TestDeckServiceGetEnforcesOwnership(t *testing.T) {
	t.Parallel()

	decks := newMemDeckStore()
	svc := NewDeckService(decks, nil)
	owner := uuid.New()

	deck, err := svc.CreateDeck(context.Background(), owner, "Private", "")
	require.NoError(t, err)

	t.Run("missing deck", func(t *testing.T) {
		_, err := svc.GetDeck(context.Background(), owner, uuid.New())
		assert.ErrorIs(t, err, ErrDeckNotFound)
	})

	t.Run("foreign user", func(t *testing.T) {
		_, err := svc.GetDeck(context.Background(), uuid.New(), deck.ID)
		assert.ErrorIs(t, err, ErrNotOwned)
	})
}

func TestDeckServiceListPaginates(t *testing.T) {
	t.Parallel()

	decks := newMemDeckStore()
	svc := NewDeckService(decks, nil)
	userID := uuid.New()
	now := time.Now().UTC()

	for i := 0; i < 25; i++ {
		_, err := svc.CreateDeck(context.Background(), userID, "Deck", "")
		require.NoError(t, err)
	}
	// Another user's decks must not leak into the listing.
	_, err := svc.CreateDeck(context.Background(), uuid.New(), "Other", "")
	require.NoError(t, err)

	page, err := svc.ListDecks(context.Background(), userID, "", 10, now)
	require.NoError(t, err)
	assert.Len(t, page.Items, 10)
	assert.Equal(t, 25, page.Total)
	require.NotEmpty(t, page.NextCursor)

	seen := make(map[uuid.UUID]bool)
	for _, overview := range page.Items {
		seen[overview.ID] = true
	}

	cursor := page.NextCursor
	for cursor != "" {
		page, err = svc.ListDecks(context.Background(), userID, cursor, 10, now)
		require.NoError(t, err)
		for _, overview := range page.Items {
			assert.False(t, seen[overview.ID], "deck repeated across pages")
			seen[overview.ID] = true
		}
		cursor = page.NextCursor
	}
	assert.Len(t, seen, 25)
}

func TestDeckServiceDelete(t *testing.T) {
	t.Parallel()

	decks := newMemDeckStore()
	svc := NewDeckService(decks, nil)
	owner := uuid.New()

	deck, err := svc.CreateDeck(context.Background(), owner, "Ephemeral", "")
	require.NoError(t, err)

	require.ErrorIs(t, svc.DeleteDeck(context.Background(), uuid.New(), deck.ID), ErrNotOwned)

	require.NoError(t, svc.DeleteDeck(context.Background(), owner, deck.ID))

	_, err = svc.GetDeck(context.Background(), owner, deck.ID)
	assert.ErrorIs(t, err, ErrDeckNotFound)
}
