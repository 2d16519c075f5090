package app

import "memorymatch/internal/domain"

// EventKind identifies emitted game events for adapter dispatch.
type EventKind string

const (
	EventGameStarted    EventKind = "game_started"
	EventCardFlipped    EventKind = "card_flipped"
	EventPairMatched    EventKind = "pair_matched"
	EventPairMismatched EventKind = "pair_mismatched"
	EventGameCompleted  EventKind = "game_completed"
)

// Event is an app event produced by a use-case.
type Event struct {
	Kind    EventKind
	Payload any
}

type GameStartedPayload struct {
	GameID    string
	PairCount int
	Cards     []domain.CardView
}

// CardFlippedPayload reports a face-up card. When Locked is true the
// adapter must schedule a resolution for Generation.
type CardFlippedPayload struct {
	Index      int
	PairID     int
	Selection  domain.Selection
	Locked     bool
	Generation uint64
}

type PairMatchedPayload struct {
	First   int
	Second  int
	PairID  int
	Matches int
}

type PairMismatchedPayload struct {
	First  int
	Second int
}

type GameCompletedPayload struct {
	GameID  string
	Moves   int
	Matches int
}
