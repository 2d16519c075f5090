package bot

import (
	"math/rand"

	"memorymatch/internal/app"
	"memorymatch/internal/bot/brain"
	"memorymatch/internal/domain"
)

// GoodBot flips a random hidden card and forgets everything.
type GoodBot struct {
	rng *rand.Rand
}

func (b *GoodBot) CalculateMove(views []domain.CardView) (Move, error) {
	hidden, revealed := partition(views)
	if len(revealed) >= 2 {
		return Move{}, ErrAwaitingResolution
	}
	if len(hidden) == 0 {
		return Move{}, ErrNoMove
	}
	return Move{Index: hidden[b.rng.Intn(len(hidden))]}, nil
}

func (b *GoodBot) OnEvent(event app.Event) {}

// SmartBot plays with perfect recall: it completes a pair whenever it has
// seen both cards and otherwise explores cards it has never seen.
type SmartBot struct {
	rng    *rand.Rand
	memory *brain.GameMemory
}

func NewSmartBot(rng *rand.Rand) *SmartBot {
	return &SmartBot{rng: rng, memory: brain.NewMemory(0)}
}

func (b *SmartBot) CalculateMove(views []domain.CardView) (Move, error) {
	if len(b.memory.Status) != len(views) {
		b.memory.Reset(len(views))
	}
	hidden, revealed := partition(views)
	for _, v := range views {
		switch v.State {
		case domain.CardRevealed:
			b.memory.MarkSeen(v.Index, *v.PairID)
		case domain.CardMatched:
			b.memory.MarkMatched(v.Index, v.Index, *v.PairID)
		}
	}

	switch len(revealed) {
	case 0:
		if first, _, ok := b.memory.KnownPair(); ok {
			return Move{Index: first}, nil
		}
	case 1:
		up := views[revealed[0]]
		if partner, ok := b.memory.Partner(*up.PairID, up.Index); ok {
			return Move{Index: partner}, nil
		}
	default:
		return Move{}, ErrAwaitingResolution
	}

	for _, i := range b.memory.Unknown() {
		if views[i].State == domain.CardHidden {
			return Move{Index: i}, nil
		}
	}
	if len(hidden) == 0 {
		return Move{}, ErrNoMove
	}
	return Move{Index: hidden[b.rng.Intn(len(hidden))]}, nil
}

func (b *SmartBot) OnEvent(event app.Event) {
	switch p := event.Payload.(type) {
	case app.GameStartedPayload:
		b.memory.Reset(len(p.Cards))
	case app.CardFlippedPayload:
		b.memory.MarkSeen(p.Index, p.PairID)
	case app.PairMatchedPayload:
		b.memory.MarkMatched(p.First, p.Second, p.PairID)
	}
}

// partition returns indexes of hidden and revealed cards.
func partition(views []domain.CardView) (hidden, revealed []int) {
	for i, v := range views {
		switch v.State {
		case domain.CardHidden:
			hidden = append(hidden, i)
		case domain.CardRevealed:
			revealed = append(revealed, i)
		}
	}
	return hidden, revealed
}
