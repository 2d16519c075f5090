package terminal

import (
	"testing"

	"memorymatch/internal/domain"

	"github.com/nsf/termbox-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionForKey(t *testing.T) {
	tests := []struct {
		name string
		ev   termbox.Event
		want Action
	}{
		{name: "arrow up", ev: termbox.Event{Type: termbox.EventKey, Key: termbox.KeyArrowUp}, want: ActionUp},
		{name: "arrow down", ev: termbox.Event{Type: termbox.EventKey, Key: termbox.KeyArrowDown}, want: ActionDown},
		{name: "arrow left", ev: termbox.Event{Type: termbox.EventKey, Key: termbox.KeyArrowLeft}, want: ActionLeft},
		{name: "arrow right", ev: termbox.Event{Type: termbox.EventKey, Key: termbox.KeyArrowRight}, want: ActionRight},
		{name: "space", ev: termbox.Event{Type: termbox.EventKey, Key: termbox.KeySpace}, want: ActionFlip},
		{name: "enter", ev: termbox.Event{Type: termbox.EventKey, Key: termbox.KeyEnter}, want: ActionFlip},
		{name: "n", ev: termbox.Event{Type: termbox.EventKey, Ch: 'n'}, want: ActionNewGame},
		{name: "h", ev: termbox.Event{Type: termbox.EventKey, Ch: 'h'}, want: ActionHint},
		{name: "q", ev: termbox.Event{Type: termbox.EventKey, Ch: 'q'}, want: ActionQuit},
		{name: "esc", ev: termbox.Event{Type: termbox.EventKey, Key: termbox.KeyEsc}, want: ActionQuit},
		{name: "other rune", ev: termbox.Event{Type: termbox.EventKey, Ch: 'x'}, want: ActionNone},
		{name: "resize", ev: termbox.Event{Type: termbox.EventResize}, want: ActionNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ActionForKey(tt.ev))
		})
	}
}

func TestApply(t *testing.T) {
	c, sched := newTestController(t)

	running, err := Apply(c, ActionRight)
	require.NoError(t, err)
	assert.True(t, running)
	assert.Equal(t, 1, c.Cursor())

	_, err = Apply(c, ActionFlip)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, c.Game().Pending())

	oldID := c.Game().ID
	_, err = Apply(c, ActionNewGame)
	require.NoError(t, err)
	assert.NotEqual(t, oldID, c.Game().ID)
	assert.Equal(t, 0, c.Cursor())
	assert.Empty(t, sched.timers)

	running, err = Apply(c, ActionQuit)
	require.NoError(t, err)
	assert.False(t, running)
}

func TestCardLabel(t *testing.T) {
	zero, last := 0, 31
	assert.Equal(t, "[ ]", CardLabel(domain.CardView{State: domain.CardHidden}))
	assert.Equal(t, "[A]", CardLabel(domain.CardView{State: domain.CardRevealed, PairID: &zero}))
	assert.Equal(t, "[6]", CardLabel(domain.CardView{State: domain.CardMatched, PairID: &last}))
}
