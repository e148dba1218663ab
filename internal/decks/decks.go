// Package decks supplies the card content games draw from. The content is
// opaque to the game core: two ordered sets of text items, one per card
// kind. Defaults are embedded; either pool can be swapped for an external
// JSON file (an array of strings).
package decks

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/yashantgyawali/ncah/internal/game"
)

//go:embed prompts.json
var defaultPrompts []byte

//go:embed responses.json
var defaultResponses []byte

// Source holds the two text pools and hands them to the game as freshly
// built card universes.
type Source struct {
	prompts   []string
	responses []string
}

// Load builds a source from the given files, falling back to the embedded
// defaults for any empty path.
func Load(promptPath, responsePath string) (*Source, error) {
	prompts, err := load(promptPath, defaultPrompts)
	if err != nil {
		return nil, fmt.Errorf("prompt deck: %w", err)
	}
	responses, err := load(responsePath, defaultResponses)
	if err != nil {
		return nil, fmt.Errorf("response deck: %w", err)
	}
	return &Source{prompts: prompts, responses: responses}, nil
}

// Default returns the embedded decks.
func Default() (*Source, error) {
	return Load("", "")
}

func load(path string, fallback []byte) ([]string, error) {
	data := fallback
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, err
		}
	}
	var texts []string
	if err := json.Unmarshal(data, &texts); err != nil {
		return nil, err
	}
	if len(texts) == 0 {
		return nil, fmt.Errorf("deck is empty")
	}
	return texts, nil
}

func (s *Source) Prompts() []game.Card {
	return game.BuildCards(game.PromptCard, s.prompts)
}

func (s *Source) Responses() []game.Card {
	return game.BuildCards(game.ResponseCard, s.responses)
}
