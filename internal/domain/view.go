package domain

// CardState is the visible state of one card on the board.
type CardState string

const (
	CardHidden   CardState = "hidden"
	CardRevealed CardState = "revealed"
	CardMatched  CardState = "matched"
)

// CardView is what a player is allowed to see of a card. Hidden cards never
// carry their pair id.
type CardView struct {
	Index  int       `json:"index"`
	State  CardState `json:"state"`
	PairID *int      `json:"pair_id,omitempty"`
}

// BuildCardViews projects the deck into player-visible views.
func BuildCardViews(g *Game) []CardView {
	views := make([]CardView, len(g.Deck))
	for i, c := range g.Deck {
		v := CardView{Index: i, State: CardHidden}
		switch {
		case c.Matched:
			v.State = CardMatched
		case g.FaceUp(i):
			v.State = CardRevealed
		}
		if v.State != CardHidden {
			id := c.PairID
			v.PairID = &id
		}
		views[i] = v
	}
	return views
}
