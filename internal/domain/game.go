package domain

import "errors"

var (
	ErrIndexOutOfRange  = errors.New("card index out of range")
	ErrCardMatched      = errors.New("card already matched")
	ErrCardPending      = errors.New("card already face up")
	ErrInputLocked      = errors.New("selection awaiting resolution")
	ErrGameCompleted    = errors.New("game already completed")
	ErrNothingToResolve = errors.New("no selection awaiting resolution")
	ErrStaleResolution  = errors.New("resolution generation is stale")
)

// Game holds the authoritative state of one dealt deck.
type Game struct {
	ID    string
	Phase Phase
	Deck  []Card

	first  int
	second int

	// Generation increments every time two cards lock input. A deferred
	// resolution must present the generation it was scheduled for.
	Generation uint64

	Moves   int // resolved two-card attempts
	Matches int // matched pairs
}

// Resolution is the outcome of resolving a two-card selection.
type Resolution struct {
	First   int
	Second  int
	PairID  int // pair id of the first card
	Matched bool
}

// NewGame wraps an already shuffled deck in a fresh game.
func NewGame(id string, deck []Card) *Game {
	return &Game{
		ID:     id,
		Phase:  PhasePlaying,
		Deck:   deck,
		first:  noCard,
		second: noCard,
	}
}

// Selection reports the current selection state.
func (g *Game) Selection() Selection {
	switch {
	case g.second != noCard:
		return SelectionAwaitingResolution
	case g.first != noCard:
		return SelectionOne
	default:
		return SelectionIdle
	}
}

// Pending returns the indexes of face-up unresolved cards in flip order.
func (g *Game) Pending() []int {
	out := make([]int, 0, 2)
	if g.first != noCard {
		out = append(out, g.first)
	}
	if g.second != noCard {
		out = append(out, g.second)
	}
	return out
}

// FaceUp reports whether the card at index is currently shown.
func (g *Game) FaceUp(index int) bool {
	if index < 0 || index >= len(g.Deck) {
		return false
	}
	return g.Deck[index].Matched || index == g.first || index == g.second
}

// PairCount returns the number of distinct pairs in the deck.
func (g *Game) PairCount() int {
	return len(g.Deck) / 2
}

// Select flips the card at index. It returns the resulting selection state,
// or an error when the tap must be ignored; on error the game is unchanged.
func (g *Game) Select(index int) (Selection, error) {
	if g.Phase == PhaseCompleted {
		return g.Selection(), ErrGameCompleted
	}
	if index < 0 || index >= len(g.Deck) {
		return g.Selection(), ErrIndexOutOfRange
	}
	if g.second != noCard {
		return SelectionAwaitingResolution, ErrInputLocked
	}
	if g.Deck[index].Matched {
		return g.Selection(), ErrCardMatched
	}
	if index == g.first {
		return SelectionOne, ErrCardPending
	}

	if g.first == noCard {
		g.first = index
		return SelectionOne, nil
	}

	g.second = index
	g.Generation++
	return SelectionAwaitingResolution, nil
}

// Resolve settles the locked selection scheduled under generation. Equal
// pair ids become matched; anything else flips back. Either way the
// selection returns to idle.
func (g *Game) Resolve(generation uint64) (Resolution, error) {
	if g.second == noCard {
		return Resolution{}, ErrNothingToResolve
	}
	if generation != g.Generation {
		return Resolution{}, ErrStaleResolution
	}

	a, b := &g.Deck[g.first], &g.Deck[g.second]
	res := Resolution{
		First:   g.first,
		Second:  g.second,
		PairID:  a.PairID,
		Matched: a.PairID == b.PairID,
	}
	if res.Matched {
		a.Matched = true
		b.Matched = true
		g.Matches++
	}
	g.Moves++
	g.first = noCard
	g.second = noCard

	if g.AllMatched() {
		g.Phase = PhaseCompleted
	}
	return res, nil
}

// AllMatched reports whether every card in the deck is matched.
func (g *Game) AllMatched() bool {
	for _, c := range g.Deck {
		if !c.Matched {
			return false
		}
	}
	return len(g.Deck) > 0
}
