package domain

// Phase represents the lifecycle stage of a memory game.
type Phase string

const (
	// PhasePlaying is the active state where cards can be flipped.
	PhasePlaying Phase = "playing"
	// PhaseCompleted is the state after every pair has been matched.
	PhaseCompleted Phase = "completed"
)

// Selection describes how many flipped cards are waiting for resolution.
type Selection int

const (
	// SelectionIdle means no card is pending.
	SelectionIdle Selection = iota
	// SelectionOne means one face-up card is waiting for its partner.
	SelectionOne
	// SelectionAwaitingResolution means two cards are face up and input is locked.
	SelectionAwaitingResolution
)

func (s Selection) String() string {
	switch s {
	case SelectionIdle:
		return "idle"
	case SelectionOne:
		return "one_selected"
	case SelectionAwaitingResolution:
		return "awaiting_resolution"
	default:
		return "unknown"
	}
}

// Card is a single tile in the memory deck.
type Card struct {
	PairID  int  // 0..pairCount-1, shared by exactly two cards
	Matched bool // set once the pair has been resolved as a match
}

// noCard marks an empty pending slot.
const noCard = -1
