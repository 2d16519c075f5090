package bot

import (
	"errors"

	"memorymatch/internal/app"
	"memorymatch/internal/domain"
)

var (
	ErrNoMove             = errors.New("no hidden card left to flip")
	ErrAwaitingResolution = errors.New("two cards already face up")
)

// Move represents the decision made by the AI.
type Move struct {
	Index int
}

// Brain is the interface that all bot strategies must implement. A brain only
// ever sees player-visible card views and the events a player receives.
type Brain interface {
	CalculateMove(views []domain.CardView) (Move, error)
	OnEvent(event app.Event)
}
