package app

import (
	"errors"
	"math/rand"
	"testing"

	"memorymatch/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pairPositions(game *domain.Game, pairID int) []int {
	var out []int
	for i, c := range game.Deck {
		if c.PairID == pairID {
			out = append(out, i)
		}
	}
	return out
}

func TestStartGameDealsShuffledPairs(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(42)))

	game, evs, err := svc.StartGame(domain.DefaultPairCount)
	require.NoError(t, err)
	require.NotNil(t, game)

	assert.Equal(t, domain.PhasePlaying, game.Phase)
	assert.Len(t, game.Deck, 12)
	assert.NotEmpty(t, game.ID)
	for id := 0; id < domain.DefaultPairCount; id++ {
		assert.Len(t, pairPositions(game, id), 2, "pair %d", id)
	}

	require.Len(t, evs, 1)
	assert.Equal(t, EventGameStarted, evs[0].Kind)
	payload := evs[0].Payload.(GameStartedPayload)
	assert.Equal(t, game.ID, payload.GameID)
	assert.Equal(t, domain.DefaultPairCount, payload.PairCount)
	require.Len(t, payload.Cards, 12)
	for _, v := range payload.Cards {
		assert.Equal(t, domain.CardHidden, v.State)
		assert.Nil(t, v.PairID)
	}
}

func TestStartGameRejectsInvalidPairCount(t *testing.T) {
	svc := NewService(nil)
	_, _, err := svc.StartGame(0)
	require.ErrorIs(t, err, ErrInvalidPairCount)
}

func TestFlipAndResolveMatch(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(7)))
	game, _, err := svc.StartGame(domain.DefaultPairCount)
	require.NoError(t, err)

	pos := pairPositions(game, 2)

	evs, err := svc.FlipCard(game, pos[0])
	require.NoError(t, err)
	require.Len(t, evs, 1)
	first := evs[0].Payload.(CardFlippedPayload)
	assert.False(t, first.Locked)
	assert.Equal(t, 2, first.PairID)
	assert.Equal(t, domain.SelectionOne, first.Selection)

	evs, err = svc.FlipCard(game, pos[1])
	require.NoError(t, err)
	second := evs[0].Payload.(CardFlippedPayload)
	require.True(t, second.Locked)
	assert.Equal(t, game.Generation, second.Generation)

	evs, err = svc.ResolveSelection(game, second.Generation)
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, EventPairMatched, evs[0].Kind)
	matched := evs[0].Payload.(PairMatchedPayload)
	assert.Equal(t, PairMatchedPayload{First: pos[0], Second: pos[1], PairID: 2, Matches: 1}, matched)
	assert.True(t, game.Deck[pos[0]].Matched)
	assert.True(t, game.Deck[pos[1]].Matched)
	assert.Equal(t, domain.SelectionIdle, game.Selection())
}

func TestFlipAndResolveMismatch(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(7)))
	game, _, err := svc.StartGame(domain.DefaultPairCount)
	require.NoError(t, err)

	three := pairPositions(game, 3)[0]
	four := pairPositions(game, 4)[0]

	_, err = svc.FlipCard(game, three)
	require.NoError(t, err)
	evs, err := svc.FlipCard(game, four)
	require.NoError(t, err)
	gen := evs[0].Payload.(CardFlippedPayload).Generation

	evs, err = svc.ResolveSelection(game, gen)
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, EventPairMismatched, evs[0].Kind)
	assert.Equal(t, PairMismatchedPayload{First: three, Second: four}, evs[0].Payload)
	assert.False(t, game.FaceUp(three))
	assert.False(t, game.FaceUp(four))
	assert.Equal(t, domain.SelectionIdle, game.Selection())
}

func TestFlipWhileLockedIsIgnored(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(1)))
	game := domain.NewGame("locked", domain.NewDeck(3))

	_, err := svc.FlipCard(game, 0)
	require.NoError(t, err)
	_, err = svc.FlipCard(game, 2)
	require.NoError(t, err)

	evs, err := svc.FlipCard(game, 4)
	assert.Nil(t, evs)
	require.ErrorIs(t, err, domain.ErrInputLocked)
	assert.True(t, IsIgnoredTap(err))
	assert.Equal(t, []int{0, 2}, game.Pending())
}

func TestResolveCompletesGame(t *testing.T) {
	svc := NewService(nil)
	game := domain.NewGame("done", domain.NewDeck(1))

	_, err := svc.FlipCard(game, 0)
	require.NoError(t, err)
	_, err = svc.FlipCard(game, 1)
	require.NoError(t, err)

	evs, err := svc.ResolveSelection(game, game.Generation)
	require.NoError(t, err)
	require.Len(t, evs, 2)
	assert.Equal(t, EventPairMatched, evs[0].Kind)
	assert.Equal(t, EventGameCompleted, evs[1].Kind)
	assert.Equal(t, GameCompletedPayload{GameID: "done", Moves: 1, Matches: 1}, evs[1].Payload)
	assert.Equal(t, domain.PhaseCompleted, game.Phase)
}

func TestResolveStaleGenerationIsDropped(t *testing.T) {
	svc := NewService(nil)
	game := domain.NewGame("stale", domain.NewDeck(2))
	_, _ = svc.FlipCard(game, 0)
	_, _ = svc.FlipCard(game, 1)

	evs, err := svc.ResolveSelection(game, game.Generation+1)
	assert.Nil(t, evs)
	assert.True(t, errors.Is(err, domain.ErrStaleResolution))
	assert.False(t, IsIgnoredTap(err))
	assert.Equal(t, domain.SelectionAwaitingResolution, game.Selection())
}

func TestNilGame(t *testing.T) {
	svc := NewService(nil)
	_, err := svc.FlipCard(nil, 0)
	require.ErrorIs(t, err, ErrNoGame)
	_, err = svc.ResolveSelection(nil, 1)
	require.ErrorIs(t, err, ErrNoGame)
}
