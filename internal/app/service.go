package app

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"memorymatch/internal/domain"

	"github.com/google/uuid"
)

// Service contains memory game use-cases operating on domain state.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with provided rng or a time-seeded default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

var (
	ErrInvalidPairCount = errors.New("pair count must be positive")
	ErrNoGame           = errors.New("no game in progress")
)

// StartGame deals a freshly shuffled deck of pairCount pairs.
func (s *Service) StartGame(pairCount int) (*domain.Game, []Event, error) {
	if pairCount <= 0 {
		return nil, nil, fmt.Errorf("%w: %d", ErrInvalidPairCount, pairCount)
	}

	deck := domain.ShuffleDeck(s.rng, domain.NewDeck(pairCount))
	game := domain.NewGame(uuid.NewString(), deck)

	return game, []Event{
		{
			Kind: EventGameStarted,
			Payload: GameStartedPayload{
				GameID:    game.ID,
				PairCount: pairCount,
				Cards:     domain.BuildCardViews(game),
			},
		},
	}, nil
}

// FlipCard processes a tap on the card at index. Ignored taps return the
// domain error and no events.
func (s *Service) FlipCard(game *domain.Game, index int) ([]Event, error) {
	if game == nil {
		return nil, ErrNoGame
	}

	sel, err := game.Select(index)
	if err != nil {
		return nil, err
	}

	locked := sel == domain.SelectionAwaitingResolution
	return []Event{
		{
			Kind: EventCardFlipped,
			Payload: CardFlippedPayload{
				Index:      index,
				PairID:     game.Deck[index].PairID,
				Selection:  sel,
				Locked:     locked,
				Generation: game.Generation,
			},
		},
	}, nil
}

// ResolveSelection settles the locked selection scheduled under generation.
func (s *Service) ResolveSelection(game *domain.Game, generation uint64) ([]Event, error) {
	if game == nil {
		return nil, ErrNoGame
	}

	res, err := game.Resolve(generation)
	if err != nil {
		return nil, err
	}

	var events []Event
	if res.Matched {
		events = append(events, Event{
			Kind: EventPairMatched,
			Payload: PairMatchedPayload{
				First:   res.First,
				Second:  res.Second,
				PairID:  res.PairID,
				Matches: game.Matches,
			},
		})
	} else {
		events = append(events, Event{
			Kind:    EventPairMismatched,
			Payload: PairMismatchedPayload{First: res.First, Second: res.Second},
		})
	}

	if game.Phase == domain.PhaseCompleted {
		events = append(events, Event{
			Kind: EventGameCompleted,
			Payload: GameCompletedPayload{
				GameID:  game.ID,
				Moves:   game.Moves,
				Matches: game.Matches,
			},
		})
	}

	return events, nil
}

// IsIgnoredTap reports whether err is a rejection that leaves the game unchanged.
func IsIgnoredTap(err error) bool {
	return errors.Is(err, domain.ErrIndexOutOfRange) ||
		errors.Is(err, domain.ErrCardMatched) ||
		errors.Is(err, domain.ErrCardPending) ||
		errors.Is(err, domain.ErrInputLocked) ||
		errors.Is(err, domain.ErrGameCompleted)
}
