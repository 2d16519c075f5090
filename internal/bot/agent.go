package bot

import (
	"fmt"

	"memorymatch/internal/app"
	"memorymatch/internal/domain"
)

// Agent represents an autonomous bot player.
type Agent struct {
	ID       string
	Name     string
	Strategy Brain
}

// Play asks the agent to pick the next card from what a player can see.
func (a *Agent) Play(game *domain.Game) (Move, error) {
	if game == nil {
		return Move{}, app.ErrNoGame
	}
	return a.Strategy.CalculateMove(domain.BuildCardViews(game))
}

// OnGameEvent notifies the agent of a game event.
func (a *Agent) OnGameEvent(event app.Event) {
	a.Strategy.OnEvent(event)
}

// Result summarises one simulated game.
type Result struct {
	GameID  string
	Moves   int
	Matches int
}

// Simulate plays one full game of pairCount pairs with no reveal delay,
// feeding the agent every event a player would see.
func Simulate(svc *app.Service, agent *Agent, pairCount int) (Result, error) {
	game, events, err := svc.StartGame(pairCount)
	if err != nil {
		return Result{}, err
	}
	notify(agent, events)

	// Each move flips two cards; the worst sensible game takes cards^2 flips.
	maxFlips := 4 * len(game.Deck) * len(game.Deck)
	for flips := 0; game.Phase != domain.PhaseCompleted; flips++ {
		if flips > maxFlips {
			return Result{}, fmt.Errorf("game %s not finished after %d flips", game.ID, flips)
		}

		move, err := agent.Play(game)
		if err != nil {
			return Result{}, fmt.Errorf("agent %s failed to move: %w", agent.Name, err)
		}
		events, err := svc.FlipCard(game, move.Index)
		if err != nil {
			return Result{}, fmt.Errorf("agent %s flipped card %d: %w", agent.Name, move.Index, err)
		}
		notify(agent, events)

		if game.Selection() == domain.SelectionAwaitingResolution {
			events, err := svc.ResolveSelection(game, game.Generation)
			if err != nil {
				return Result{}, err
			}
			notify(agent, events)
		}
	}

	return Result{GameID: game.ID, Moves: game.Moves, Matches: game.Matches}, nil
}

func notify(agent *Agent, events []app.Event) {
	for _, ev := range events {
		agent.OnGameEvent(ev)
	}
}
