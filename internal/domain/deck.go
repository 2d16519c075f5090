package domain

import "math/rand"

// DefaultPairCount is the number of distinct pairs dealt when nothing else is configured.
const DefaultPairCount = 6

// NewDeck returns an ordered deck holding every pair id in 0..pairCount-1 twice.
func NewDeck(pairCount int) []Card {
	if pairCount < 0 {
		pairCount = 0
	}
	deck := make([]Card, 0, pairCount*2)
	for id := 0; id < pairCount; id++ {
		deck = append(deck, Card{PairID: id}, Card{PairID: id})
	}
	return deck
}

// ShuffleDeck returns a shuffled copy of the given deck.
func ShuffleDeck(rng *rand.Rand, deck []Card) []Card {
	out := make([]Card, len(deck))
	copy(out, deck)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// PairCounts returns how many times each pair id occurs in the deck.
func PairCounts(deck []Card) map[int]int {
	counts := make(map[int]int, len(deck)/2)
	for _, c := range deck {
		counts[c.PairID]++
	}
	return counts
}
