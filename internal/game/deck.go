package game

import "math/rand/v2"

// Deck is an ordered pile of same-kind cards. It is not safe for concurrent
// use on its own; the owning room's lock covers it.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// NewDeck copies the given cards and shuffles them. rand.Shuffle performs a
// Fisher-Yates pass, so every permutation is equally likely.
func NewDeck(cards []Card, rng *rand.Rand) *Deck {
	d := &Deck{cards: append([]Card(nil), cards...), rng: rng}
	d.shuffle()
	return d
}

func (d *Deck) shuffle() {
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw removes and returns the top card. ok is false when the deck is
// exhausted; callers refill from their discard pile or tolerate a short
// hand.
func (d *Deck) Draw() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	c := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return c, true
}

// Refill shuffles the given cards into the deck. Used to turn an exhausted
// discard pile back into a drawable deck.
func (d *Deck) Refill(cards []Card) {
	d.cards = append(d.cards, cards...)
	d.shuffle()
}

func (d *Deck) Len() int { return len(d.cards) }
