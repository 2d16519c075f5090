package terminal

import (
	"context"
	"fmt"
	"log/slog"

	"memorymatch/internal/domain"

	"github.com/nsf/termbox-go"
)

// Action is what a key press asks the loop to do.
type Action int

const (
	ActionNone Action = iota
	ActionUp
	ActionDown
	ActionLeft
	ActionRight
	ActionFlip
	ActionNewGame
	ActionHint
	ActionQuit
)

// pairSymbols labels pair ids on screen; config caps pairs at 32.
const pairSymbols = "ABCDEFGHIJKLMNOPQRSTUVWXYZ123456"

const (
	cellWidth  = 5
	cellHeight = 2
	helpLine   = "arrows: move  space/enter: flip  h: hint  n: new game  q: quit"
)

// ActionForKey maps a termbox key event to an action.
func ActionForKey(ev termbox.Event) Action {
	if ev.Type != termbox.EventKey {
		return ActionNone
	}
	switch ev.Key {
	case termbox.KeyArrowUp:
		return ActionUp
	case termbox.KeyArrowDown:
		return ActionDown
	case termbox.KeyArrowLeft:
		return ActionLeft
	case termbox.KeyArrowRight:
		return ActionRight
	case termbox.KeySpace, termbox.KeyEnter:
		return ActionFlip
	case termbox.KeyEsc, termbox.KeyCtrlC:
		return ActionQuit
	}
	switch ev.Ch {
	case 'n', 'N':
		return ActionNewGame
	case 'h', 'H':
		return ActionHint
	case 'q', 'Q':
		return ActionQuit
	case ' ':
		return ActionFlip
	}
	return ActionNone
}

// Apply performs action on the controller and reports whether to keep running.
func Apply(c *Controller, action Action) (bool, error) {
	switch action {
	case ActionUp:
		c.MoveCursor(0, -1)
	case ActionDown:
		c.MoveCursor(0, 1)
	case ActionLeft:
		c.MoveCursor(-1, 0)
	case ActionRight:
		c.MoveCursor(1, 0)
	case ActionFlip:
		c.Flip()
	case ActionNewGame:
		if err := c.NewGame(); err != nil {
			return false, err
		}
	case ActionHint:
		c.Hint()
	case ActionQuit:
		return false, nil
	}
	return true, nil
}

// CardLabel renders one card face for the grid.
func CardLabel(v domain.CardView) string {
	if v.State == domain.CardHidden || v.PairID == nil {
		return "[ ]"
	}
	id := *v.PairID
	if id < 0 || id >= len(pairSymbols) {
		return fmt.Sprintf("%3d", id)
	}
	return "[" + string(pairSymbols[id]) + "]"
}

// Run plays until the user quits or ctx is cancelled. It owns the terminal
// for its whole lifetime.
func Run(ctx context.Context, c *Controller, logger *slog.Logger) error {
	if err := termbox.Init(); err != nil {
		return fmt.Errorf("failed to init terminal: %w", err)
	}
	defer termbox.Close()
	termbox.SetInputMode(termbox.InputEsc)

	keys := make(chan termbox.Event)
	stop := make(chan struct{})
	polled := make(chan struct{})
	go func() {
		defer close(polled)
		for {
			ev := termbox.PollEvent()
			if ev.Type == termbox.EventInterrupt {
				return
			}
			// After stop, events are dropped until the interrupt arrives.
			select {
			case keys <- ev:
			case <-stop:
			}
		}
	}()
	defer func() {
		close(stop)
		termbox.Interrupt()
		<-polled
	}()
	defer c.Close()

	if c.Game() == nil {
		if err := c.NewGame(); err != nil {
			return err
		}
	}

	for {
		if err := draw(c); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			logger.Info("terminal loop cancelled", "error", ctx.Err())
			return nil
		case ev := <-keys:
			if ev.Type == termbox.EventError {
				return fmt.Errorf("terminal input failed: %w", ev.Err)
			}
			running, err := Apply(c, ActionForKey(ev))
			if err != nil {
				return err
			}
			if !running {
				return nil
			}
		case pending := <-c.Resolutions():
			c.Resolve(pending)
		}
	}
}

func draw(c *Controller) error {
	if err := termbox.Clear(termbox.ColorDefault, termbox.ColorDefault); err != nil {
		return fmt.Errorf("failed to clear terminal: %w", err)
	}

	cols := c.Columns()
	if cols <= 0 {
		cols = 1
	}
	rows := 0
	if g := c.Game(); g != nil {
		for _, v := range domain.BuildCardViews(g) {
			x := (v.Index % cols) * cellWidth
			y := (v.Index / cols) * cellHeight
			fg, bg := termbox.ColorDefault, termbox.ColorDefault
			switch v.State {
			case domain.CardMatched:
				fg = termbox.ColorGreen
			case domain.CardRevealed:
				fg = termbox.ColorYellow | termbox.AttrBold
			}
			if v.Index == c.Cursor() {
				fg |= termbox.AttrReverse
			}
			drawText(x, y, CardLabel(v), fg, bg)
		}
		rows = (len(g.Deck) + cols - 1) / cols
	}

	y := rows*cellHeight + 1
	drawText(0, y, c.StatusLine(), termbox.ColorDefault, termbox.ColorDefault)
	drawText(0, y+1, helpLine, termbox.ColorBlue, termbox.ColorDefault)

	return termbox.Flush()
}

func drawText(x, y int, text string, fg, bg termbox.Attribute) {
	for _, r := range text {
		termbox.SetCell(x, y, r, fg, bg)
		x++
	}
}
