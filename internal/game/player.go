package game

// Player is a connection-scoped participant. The id is the connection id.
// The hand holds response cards in draw order.
type Player struct {
	ID      string
	Name    string
	Hand    []Card
	Score   int
	IsJudge bool
}

func (p *Player) handIndex(cardID string) int {
	for i, c := range p.Hand {
		if c.ID == cardID {
			return i
		}
	}
	return -1
}

// takeCard removes the card at index i, preserving the order of the rest.
func (p *Player) takeCard(i int) Card {
	c := p.Hand[i]
	p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
	return c
}
