package bot

import (
	"errors"
	"math/rand"
	"testing"

	"memorymatch/internal/app"
	"memorymatch/internal/domain"
)

func view(index int, state domain.CardState, pairID int) domain.CardView {
	v := domain.CardView{Index: index, State: state}
	if state != domain.CardHidden {
		id := pairID
		v.PairID = &id
	}
	return v
}

func hiddenViews(n int) []domain.CardView {
	views := make([]domain.CardView, n)
	for i := range views {
		views[i] = view(i, domain.CardHidden, 0)
	}
	return views
}

func TestSmartBot_CompletesRememberedPair(t *testing.T) {
	bot := NewSmartBot(rand.New(rand.NewSource(1)))
	bot.OnEvent(app.Event{Kind: app.EventGameStarted, Payload: app.GameStartedPayload{Cards: hiddenViews(6)}})
	bot.OnEvent(app.Event{Kind: app.EventCardFlipped, Payload: app.CardFlippedPayload{Index: 4, PairID: 1}})
	bot.OnEvent(app.Event{Kind: app.EventCardFlipped, Payload: app.CardFlippedPayload{Index: 2, PairID: 0}})

	// Card 0 is face up with pair 1; the bot saw the other 1 at index 4.
	views := hiddenViews(6)
	views[0] = view(0, domain.CardRevealed, 1)

	move, err := bot.CalculateMove(views)
	if err != nil {
		t.Fatalf("CalculateMove failed: %v", err)
	}
	if move.Index != 4 {
		t.Errorf("SmartBot should complete the pair at 4, played %d", move.Index)
	}
}

func TestSmartBot_LeadsWithKnownPair(t *testing.T) {
	bot := NewSmartBot(rand.New(rand.NewSource(1)))
	bot.OnEvent(app.Event{Kind: app.EventGameStarted, Payload: app.GameStartedPayload{Cards: hiddenViews(6)}})
	for _, p := range []app.CardFlippedPayload{{Index: 1, PairID: 2}, {Index: 3, PairID: 0}, {Index: 5, PairID: 2}} {
		bot.OnEvent(app.Event{Kind: app.EventCardFlipped, Payload: p})
	}

	move, err := bot.CalculateMove(hiddenViews(6))
	if err != nil {
		t.Fatalf("CalculateMove failed: %v", err)
	}
	if move.Index != 1 {
		t.Errorf("SmartBot should lead with the known pair at 1, played %d", move.Index)
	}
}

func TestSmartBot_ExploresUnknownCards(t *testing.T) {
	bot := NewSmartBot(rand.New(rand.NewSource(1)))
	bot.OnEvent(app.Event{Kind: app.EventCardFlipped, Payload: app.CardFlippedPayload{Index: 0, PairID: 0}})

	views := hiddenViews(4)
	views[1] = view(1, domain.CardRevealed, 1)

	move, err := bot.CalculateMove(views)
	if err != nil {
		t.Fatalf("CalculateMove failed: %v", err)
	}
	if move.Index != 0 && move.Index != 2 && move.Index != 3 {
		t.Errorf("SmartBot flipped a face-up card: %d", move.Index)
	}
}

func TestBots_RefuseWhenLockedOrFinished(t *testing.T) {
	locked := hiddenViews(4)
	locked[0] = view(0, domain.CardRevealed, 0)
	locked[2] = view(2, domain.CardRevealed, 1)

	finished := []domain.CardView{view(0, domain.CardMatched, 0), view(1, domain.CardMatched, 0)}

	for _, level := range []BotLevel{BotLevelGood, BotLevelSmart} {
		brain, err := NewBrain(level, rand.New(rand.NewSource(1)))
		if err != nil {
			t.Fatalf("NewBrain(%s) failed: %v", level, err)
		}
		if _, err := brain.CalculateMove(locked); !errors.Is(err, ErrAwaitingResolution) {
			t.Errorf("%s: locked board error = %v, want ErrAwaitingResolution", level, err)
		}
		if _, err := brain.CalculateMove(finished); !errors.Is(err, ErrNoMove) {
			t.Errorf("%s: finished board error = %v, want ErrNoMove", level, err)
		}
	}
}

func TestGoodBot_OnlyFlipsHiddenCards(t *testing.T) {
	bot := &GoodBot{rng: rand.New(rand.NewSource(3))}
	views := []domain.CardView{
		view(0, domain.CardMatched, 0),
		view(1, domain.CardRevealed, 1),
		view(2, domain.CardHidden, 0),
		view(3, domain.CardMatched, 0),
	}
	for i := 0; i < 20; i++ {
		move, err := bot.CalculateMove(views)
		if err != nil {
			t.Fatalf("CalculateMove failed: %v", err)
		}
		if move.Index != 2 {
			t.Fatalf("GoodBot flipped %d, the only hidden card is 2", move.Index)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    BotLevel
		wantErr bool
	}{
		{name: "good", want: BotLevelGood},
		{name: "Smart", want: BotLevelSmart},
		{name: "god", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.name)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseLevel(%q) error = %v, wantErr %t", tt.name, err, tt.wantErr)
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseLevel(%q) = %s, want %s", tt.name, got, tt.want)
		}
	}
	if _, err := NewBrain(BotLevel(9), nil); err == nil {
		t.Errorf("NewBrain should reject unknown levels")
	}
}
