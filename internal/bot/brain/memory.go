package brain

// CardStatus represents what the bot knows about a specific card.
type CardStatus int

const (
	StatusUnknown CardStatus = iota // Never seen face up
	StatusSeen                      // Seen face up, pair id remembered
	StatusMatched                   // Out of play
)

// GameMemory stores the bot's private view of one deck: every pair id it
// has seen and which cards are already matched.
type GameMemory struct {
	Status  []CardStatus
	PairIDs []int // valid where Status != StatusUnknown
}

// NewMemory initializes a fresh memory for a deck of size cards.
func NewMemory(size int) *GameMemory {
	m := &GameMemory{}
	m.Reset(size)
	return m
}

// Reset forgets everything and resizes the memory for a new deck.
func (m *GameMemory) Reset(size int) {
	if size < 0 {
		size = 0
	}
	m.Status = make([]CardStatus, size)
	m.PairIDs = make([]int, size)
}

func (m *GameMemory) valid(index int) bool {
	return index >= 0 && index < len(m.Status)
}

// MarkSeen records the pair id of a card that was face up.
func (m *GameMemory) MarkSeen(index, pairID int) {
	if !m.valid(index) || m.Status[index] == StatusMatched {
		return
	}
	m.Status[index] = StatusSeen
	m.PairIDs[index] = pairID
}

// MarkMatched records that both cards of a pair left play.
func (m *GameMemory) MarkMatched(first, second, pairID int) {
	for _, i := range []int{first, second} {
		if !m.valid(i) {
			continue
		}
		m.Status[i] = StatusMatched
		m.PairIDs[i] = pairID
	}
}

// Partner returns a remembered, unmatched card with pairID other than except.
func (m *GameMemory) Partner(pairID, except int) (int, bool) {
	for i, st := range m.Status {
		if i != except && st == StatusSeen && m.PairIDs[i] == pairID {
			return i, true
		}
	}
	return 0, false
}

// KnownPair returns two remembered, unmatched cards sharing a pair id.
func (m *GameMemory) KnownPair() (int, int, bool) {
	firstByPair := make(map[int]int)
	for i, st := range m.Status {
		if st != StatusSeen {
			continue
		}
		if j, ok := firstByPair[m.PairIDs[i]]; ok {
			return j, i, true
		}
		firstByPair[m.PairIDs[i]] = i
	}
	return 0, 0, false
}

// Unknown returns the indexes never seen face up, in deck order.
func (m *GameMemory) Unknown() []int {
	var out []int
	for i, st := range m.Status {
		if st == StatusUnknown {
			out = append(out, i)
		}
	}
	return out
}

// IsMatched returns true if the card is already out of the game.
func (m *GameMemory) IsMatched(index int) bool {
	return m.valid(index) && m.Status[index] == StatusMatched
}
