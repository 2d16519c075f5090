package bot

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// BotLevel selects a strategy.
type BotLevel int

const (
	BotLevelGood  BotLevel = iota // flips random hidden cards
	BotLevelSmart                 // remembers every card it has seen
)

// ParseLevel maps "good" or "smart" to a BotLevel.
func ParseLevel(name string) (BotLevel, error) {
	switch strings.ToLower(name) {
	case "good":
		return BotLevelGood, nil
	case "smart":
		return BotLevelSmart, nil
	default:
		return 0, fmt.Errorf("unknown bot level: %q", name)
	}
}

func (l BotLevel) String() string {
	switch l {
	case BotLevelGood:
		return "good"
	case BotLevelSmart:
		return "smart"
	default:
		return fmt.Sprintf("BotLevel(%d)", int(l))
	}
}

// NewBrain creates a new AI brain based on the specified level. rng may be
// nil to use a time-seeded default.
func NewBrain(level BotLevel, rng *rand.Rand) (Brain, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	switch level {
	case BotLevelGood:
		return &GoodBot{rng: rng}, nil
	case BotLevelSmart:
		return NewSmartBot(rng), nil
	default:
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
}
