package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fathomdev/fathom-api/internal/domain"
)

func newCardFixture(t *testing.T) (CardService, *domain.Deck, uuid.UUID) {
	t.Helper()

	decks := newMemDeckStore()
	cards := newMemCardStore()
	userID := uuid.New()

	deck, err := domain.NewDeck(userID, "Geography", "")
	require.NoError(t, err)
	require.NoError(t, decks.Create(context.Background(), deck))

	return NewCardService(cards, decks, nil), deck, userID
}

func TestCardServiceCreateAndGet(t *testing.T) {
	t.Parallel()

	svc, deck, userID := newCardFixture(t)

	card, err := svc.CreateCard(context.Background(), userID, deck.ID, "Capital of France?", "Paris")
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, card.ID)

	got, err := svc.GetCard(context.Background(), userID, card.ID)
	require.NoError(t, err)
	assert.Equal(t, "Capital of France?", got.FrontContent)
	assert.Equal(t, "Paris", got.BackContent)
}

func TestCardServiceCreateValidation(t *testing.T) {
	t.Parallel()

	svc, deck, userID := newCardFixture(t)

	t.Run("empty front", func(t *testing.T) {
		_, err := svc.CreateCard(context.Background(), userID, deck.ID, "", "Paris")
		assert.Error(t, err)
	})

	t.Run("missing deck", func(t *testing.T) {
		_, err := svc.CreateCard(context.Background(), userID, uuid.New(), "Q", "A")
		assert.ErrorIs(t, err, ErrDeckNotFound)
	})

	t.Run("foreign deck", func(t *testing.T) {
		_, err := svc.CreateCard(context.Background(), uuid.New(), deck.ID, "Q", "A")
		assert.ErrorIs(t, err, ErrNotOwned)
	})
}

func TestCardServiceGetEnforcesOwnership(t *testing.T) {
	t.Parallel()

	svc, deck, userID := newCardFixture(t)

	card, err := svc.CreateCard(context.Background(), userID, deck.ID, "Q", "A")
	require.NoError(t, err)

	_, err = svc.GetCard(context.Background(), uuid.New(), card.ID)
	assert.ErrorIs(t, err, ErrNotOwned)

	_, err = svc.GetCard(context.Background(), userID, uuid.New())
	assert.ErrorIs(t, err, ErrCardNotFound)
}

func TestCardServiceListPaginates(t *testing.T) {
	t.Parallel()

	svc, deck, userID := newCardFixture(t)

	for i := 0; i < 15; i++ {
		_, err := svc.CreateCard(context.Background(), userID, deck.ID, "Q", "A")
		require.NoError(t, err)
	}

	page, err := svc.ListCards(context.Background(), userID, deck.ID, "", 10)
	require.NoError(t, err)
	assert.Len(t, page.Items, 10)
	assert.Equal(t, 15, page.Total)
	require.NotEmpty(t, page.NextCursor)

	page, err = svc.ListCards(context.Background(), userID, deck.ID, page.NextCursor, 10)
	require.NoError(t, err)
	assert.Len(t, page.Items, 5)
	assert.Empty(t, page.NextCursor)
}

func TestCardServiceDelete(t *testing.T) {
	t.Parallel()

	svc, deck, userID := newCardFixture(t)

	card, err := svc.CreateCard(context.Background(), userID, deck.ID, "Q", "A")
	require.NoError(t, err)

	require.ErrorIs(t, svc.DeleteCard(context.Background(), uuid.New(), card.ID), ErrNotOwned)
	require.NoError(t, svc.DeleteCard(context.Background(), userID, card.ID))

	_, err = svc.GetCard(context.Background(), userID, card.ID)
	assert.ErrorIs(t, err, ErrCardNotFound)
}
