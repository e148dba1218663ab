package game

import "fmt"

// CardKind separates the two disjoint card pools.
type CardKind string

const (
	PromptCard   CardKind = "prompt"
	ResponseCard CardKind = "response"
)

// Card is immutable once created. At any moment it lives in exactly one
// container: a deck, a hand, the submission pile, or a discard pile.
type Card struct {
	ID   string   `json:"id"`
	Text string   `json:"text"`
	Kind CardKind `json:"kind"`
}

// BuildCards turns raw deck text into cards with stable ids.
func BuildCards(kind CardKind, texts []string) []Card {
	prefix := "r"
	if kind == PromptCard {
		prefix = "p"
	}
	cards := make([]Card, 0, len(texts))
	for i, text := range texts {
		cards = append(cards, Card{
			ID:   fmt.Sprintf("%s%03d", prefix, i+1),
			Text: text,
			Kind: kind,
		})
	}
	return cards
}
