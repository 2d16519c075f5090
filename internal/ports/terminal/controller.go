package terminal

import (
	"fmt"
	"log/slog"
	"sync"

	"memorymatch/internal/app"
	"memorymatch/internal/bot"
	"memorymatch/internal/config"
	"memorymatch/internal/domain"
	"memorymatch/internal/ports"
)

// PendingResolution identifies one scheduled reveal. The game id keeps a
// timer from an earlier deck from resolving a new deck that happens to reach
// the same generation.
type PendingResolution struct {
	GameID     string
	Generation uint64
}

// Controller owns the game for the terminal client. All methods must be
// called from the single loop goroutine; scheduled reveals arrive on
// Resolutions and are applied with Resolve.
type Controller struct {
	cfg       config.GameConfig
	svc       *app.Service
	scheduler ports.Scheduler
	logger    *slog.Logger

	game   *domain.Game
	cursor int
	status string
	hints  *bot.Agent

	cancelResolve func()
	resolutions   chan PendingResolution
	done          chan struct{}
	closeOnce     sync.Once
}

// NewController wires a controller. logger may be nil.
func NewController(cfg config.GameConfig, svc *app.Service, scheduler ports.Scheduler, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		cfg:         cfg,
		svc:         svc,
		scheduler:   scheduler,
		logger:      logger.With("component", "terminal"),
		resolutions: make(chan PendingResolution, 1),
		done:        make(chan struct{}),
	}
}

// EnableHints lets agent suggest cards. The agent sees every event the
// player sees from the next game on.
func (c *Controller) EnableHints(agent *bot.Agent) {
	c.hints = agent
}

func (c *Controller) observe(events []app.Event) {
	if c.hints == nil {
		return
	}
	for _, ev := range events {
		c.hints.OnGameEvent(ev)
	}
}

// Hint moves the cursor to the card the hint agent would flip.
func (c *Controller) Hint() {
	if c.hints == nil || c.game == nil {
		return
	}
	move, err := c.hints.Play(c.game)
	if err != nil {
		c.logger.Debug("no hint available", "error", err)
		return
	}
	c.cursor = move.Index
	c.status = fmt.Sprintf("Hint from %s", c.hints.Name)
}

// Game returns the current game, nil before NewGame.
func (c *Controller) Game() *domain.Game { return c.game }

// Cursor returns the highlighted card index.
func (c *Controller) Cursor() int { return c.cursor }

// Status returns the last outcome message.
func (c *Controller) Status() string { return c.status }

// Columns returns the grid width.
func (c *Controller) Columns() int { return c.cfg.Columns }

// Resolutions delivers reveals whose delay has elapsed.
func (c *Controller) Resolutions() <-chan PendingResolution { return c.resolutions }

// NewGame deals a fresh deck and cancels any reveal scheduled for the old one.
func (c *Controller) NewGame() error {
	c.cancelPending()

	game, events, err := c.svc.StartGame(c.cfg.PairCount)
	if err != nil {
		return fmt.Errorf("failed to start game: %w", err)
	}
	c.game = game
	c.observe(events)
	c.cursor = 0
	c.status = fmt.Sprintf("New game: %d pairs", c.cfg.PairCount)
	c.logger.Info("game started", "game_id", game.ID, "pairs", c.cfg.PairCount)
	return nil
}

// MoveCursor moves the highlight by dx columns and dy rows, staying on the board.
func (c *Controller) MoveCursor(dx, dy int) {
	if c.game == nil || len(c.game.Deck) == 0 {
		return
	}
	cols := c.cfg.Columns
	if cols <= 0 {
		cols = 1
	}
	row, col := c.cursor/cols, c.cursor%cols
	col += dx
	row += dy
	if col < 0 || col >= cols || row < 0 {
		return
	}
	next := row*cols + col
	if next >= len(c.game.Deck) {
		return
	}
	c.cursor = next
}

// Flip taps the card under the cursor.
func (c *Controller) Flip() {
	c.FlipAt(c.cursor)
}

// FlipAt taps the card at index. Ignored taps leave the game untouched.
func (c *Controller) FlipAt(index int) {
	events, err := c.svc.FlipCard(c.game, index)
	if err != nil {
		if app.IsIgnoredTap(err) {
			c.logger.Debug("tap ignored", "index", index, "error", err)
		} else {
			c.logger.Warn("flip failed", "index", index, "error", err)
		}
		return
	}
	c.observe(events)

	for _, ev := range events {
		p, ok := ev.Payload.(app.CardFlippedPayload)
		if !ok || !p.Locked {
			continue
		}
		c.schedule(PendingResolution{GameID: c.game.ID, Generation: p.Generation})
	}
}

func (c *Controller) schedule(pending PendingResolution) {
	c.cancelPending()
	c.cancelResolve = c.scheduler.AfterFunc(c.cfg.ResolutionDelay(), func() {
		select {
		case c.resolutions <- pending:
		case <-c.done:
		}
	})
	c.logger.Debug("resolution scheduled", "game_id", pending.GameID, "generation", pending.Generation, "delay", c.cfg.ResolutionDelay())
}

func (c *Controller) cancelPending() {
	if c.cancelResolve != nil {
		c.cancelResolve()
		c.cancelResolve = nil
	}
}

// Resolve applies a reveal delivered on Resolutions. Reveals for another
// game or an older generation are dropped.
func (c *Controller) Resolve(pending PendingResolution) {
	if c.game == nil || pending.GameID != c.game.ID {
		c.logger.Debug("resolution for replaced game dropped", "game_id", pending.GameID)
		return
	}

	events, err := c.svc.ResolveSelection(c.game, pending.Generation)
	if err != nil {
		c.logger.Debug("resolution dropped", "generation", pending.Generation, "error", err)
		return
	}
	c.cancelResolve = nil
	c.observe(events)

	for _, ev := range events {
		switch p := ev.Payload.(type) {
		case app.PairMatchedPayload:
			c.status = fmt.Sprintf("Match! %d of %d pairs", p.Matches, c.game.PairCount())
		case app.PairMismatchedPayload:
			c.status = "No match"
		case app.GameCompletedPayload:
			c.status = fmt.Sprintf("Completed in %d moves. Press n for a new game.", p.Moves)
			c.logger.Info("game completed", "game_id", p.GameID, "moves", p.Moves)
		}
	}
}

// Locked reports whether input is waiting for a reveal.
func (c *Controller) Locked() bool {
	return c.game != nil && c.game.Selection() == domain.SelectionAwaitingResolution
}

// StatusLine summarises progress for the bottom of the screen.
func (c *Controller) StatusLine() string {
	if c.game == nil {
		return "Press n to start"
	}
	line := fmt.Sprintf("Moves: %d  Matches: %d/%d", c.game.Moves, c.game.Matches, c.game.PairCount())
	if c.Locked() {
		line += "  [locked]"
	}
	if c.status != "" {
		line += "  " + c.status
	}
	return line
}

// Close cancels any scheduled reveal and releases a timer blocked on delivery.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
	c.cancelPending()
}
