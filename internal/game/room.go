package game

import (
	"math/rand/v2"
	"strings"
	"sync"
)

// MinRoomCodeLen is the minimum accepted length of a room code.
const MinRoomCodeLen = 4

// Config carries the fixed game constants a room is created with.
type Config struct {
	HandSize   int
	RoundLimit int
}

// DefaultConfig is seven-card hands with games ending at round ten.
func DefaultConfig() Config {
	return Config{HandSize: 7, RoundLimit: 10}
}

type submission struct {
	playerID string
	card     Card
}

// Room owns one isolated game instance. Every exported method takes the
// room lock; mutations and the snapshot views they broadcast are computed
// inside the same critical section, so no delivery can observe a torn
// state. Operations against different rooms are fully independent.
type Room struct {
	mu sync.Mutex

	code   string
	cfg    Config
	rng    *rand.Rand
	status Status
	hostID string

	// join order, which also defines the judge rotation
	players []*Player

	promptDeck      *Deck
	responseDeck    *Deck
	promptDiscard   []Card
	responseDiscard []Card

	currentPrompt *Card
	submissions   []submission
	judgeIndex    int
	round         int
}

// NewRoom builds a waiting room around freshly shuffled copies of the two
// card universes.
func NewRoom(code string, prompts, responses []Card, cfg Config, rng *rand.Rand) *Room {
	return &Room{
		code:         code,
		cfg:          cfg,
		rng:          rng,
		status:       StatusWaiting,
		promptDeck:   NewDeck(prompts, rng),
		responseDeck: NewDeck(responses, rng),
	}
}

// NormalizeCode case-folds and validates a client-supplied room code. Codes
// are case-insensitive on the wire and stored upper-cased.
func NormalizeCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) < MinRoomCodeLen {
		return "", ErrInvalidRoomCode
	}
	return code, nil
}

func (r *Room) Code() string { return r.code }

// Empty reports whether the last player has left.
func (r *Room) Empty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players) == 0
}

// Join adds a player, or returns the current state unchanged when the same
// connection joins twice. The first joiner in the room's history becomes
// host. Joining is only possible while the room is waiting.
func (r *Room) Join(connID, name string) ([]Delivery, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.playerByID(connID) != nil {
		return r.deliveries(), nil
	}
	if r.status != StatusWaiting {
		return nil, ErrRoomNotJoinable
	}
	if len(r.players) == 0 {
		r.hostID = connID
	}
	r.players = append(r.players, &Player{ID: connID, Name: name})
	return r.deliveries(), nil
}

// Leave removes the player immediately regardless of phase. Their hand and
// any pending submission move to the response discard so the card universe
// stays whole. removed is false when the connection was not a member.
func (r *Room) Leave(connID string) (deliveries []Delivery, removed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := -1
	for i, p := range r.players {
		if p.ID == connID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, false
	}
	p := r.players[idx]
	wasJudge := p.IsJudge
	r.responseDiscard = append(r.responseDiscard, p.Hand...)
	p.Hand = nil
	r.discardSubmission(connID)
	r.players = append(r.players[:idx], r.players[idx+1:]...)
	if idx < r.judgeIndex {
		r.judgeIndex--
	}
	if len(r.players) == 0 {
		r.status = StatusEmpty
		return nil, true
	}
	if r.hostID == connID {
		r.hostID = r.players[0].ID
	}
	if wasJudge && (r.status == StatusPlaying || r.status == StatusJudging) {
		r.assignJudge(0)
	}
	r.reevaluate()
	return r.deliveries(), true
}

// Start begins the first round. Calls from non-hosts or undersized lobbies
// are silently ignored per the protocol-violation policy.
func (r *Room) Start(connID string) []Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status != StatusWaiting || connID != r.hostID || len(r.players) < 2 {
		return nil
	}
	r.round = 1
	r.status = StatusPlaying
	r.assignJudge(0)
	r.startRound()
	// the opening deal covers the judge too, so everyone starts with a
	// full hand
	r.deal(r.players[r.judgeIndex])
	return r.deliveries()
}

// Submit moves a card from the sender's hand into the submission pile.
// Stale or malicious calls (wrong phase, judge, duplicate, unowned card)
// are ignored without mutation or broadcast.
func (r *Room) Submit(connID, cardID string) []Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status != StatusPlaying {
		return nil
	}
	p := r.playerByID(connID)
	if p == nil || p.IsJudge {
		return nil
	}
	for _, s := range r.submissions {
		if s.playerID == connID {
			return nil
		}
	}
	i := p.handIndex(cardID)
	if i == -1 {
		return nil
	}
	r.submissions = append(r.submissions, submission{playerID: connID, card: p.takeCard(i)})
	r.reevaluate()
	return r.deliveries()
}

// SelectWinner closes the round: the winning submitter scores, the prompt
// and every submitted card move to their discard piles, the round counter
// increments, and the judge role rotates in join order. The game finishes
// when the round counter reaches the limit; otherwise the next round is
// dealt.
func (r *Room) SelectWinner(connID, winnerID string) []Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status != StatusJudging {
		return nil
	}
	if r.players[r.judgeIndex].ID != connID {
		return nil
	}
	var won bool
	for _, s := range r.submissions {
		if s.playerID == winnerID {
			won = true
			break
		}
	}
	if !won {
		return nil
	}
	// submission entries are dropped when their owner leaves, so the
	// winner is still present
	r.playerByID(winnerID).Score++
	if r.currentPrompt != nil {
		r.promptDiscard = append(r.promptDiscard, *r.currentPrompt)
		r.currentPrompt = nil
	}
	for _, s := range r.submissions {
		r.responseDiscard = append(r.responseDiscard, s.card)
	}
	r.submissions = nil
	r.round++
	r.assignJudge((r.judgeIndex + 1) % len(r.players))
	if r.round >= r.cfg.RoundLimit {
		r.status = StatusFinished
		return r.deliveries()
	}
	r.status = StatusPlaying
	r.startRound()
	return r.deliveries()
}

// End finishes the game early. Host only, and only while a game is in
// progress.
func (r *Room) End(connID string) []Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	if connID != r.hostID {
		return nil
	}
	if r.status != StatusPlaying && r.status != StatusJudging {
		return nil
	}
	r.status = StatusFinished
	return r.deliveries()
}

// startRound is the shared entry into playing: clears the pile, draws a
// prompt, and tops every non-judge hand up to the hand size.
func (r *Room) startRound() {
	r.submissions = nil
	if c, ok := r.drawPrompt(); ok {
		r.currentPrompt = &c
	} else {
		// both prompt piles exhausted: the round proceeds promptless
		r.currentPrompt = nil
	}
	for i, p := range r.players {
		if i == r.judgeIndex {
			continue
		}
		r.deal(p)
	}
}

func (r *Room) drawPrompt() (Card, bool) {
	if r.promptDeck.Len() == 0 && len(r.promptDiscard) > 0 {
		r.promptDeck.Refill(r.promptDiscard)
		r.promptDiscard = nil
	}
	return r.promptDeck.Draw()
}

// deal draws only the shortfall; cards already held are never discarded.
// An exhausted deck with an empty discard leaves the hand short.
func (r *Room) deal(p *Player) {
	for len(p.Hand) < r.cfg.HandSize {
		if r.responseDeck.Len() == 0 {
			if len(r.responseDiscard) == 0 {
				return
			}
			r.responseDeck.Refill(r.responseDiscard)
			r.responseDiscard = nil
		}
		c, ok := r.responseDeck.Draw()
		if !ok {
			return
		}
		p.Hand = append(p.Hand, c)
	}
}

// assignJudge moves the judge flag to players[i]. A pending submission by
// the incoming judge goes back to their hand: the judge never has an entry
// in the pile.
func (r *Room) assignJudge(i int) {
	r.judgeIndex = i
	for j, p := range r.players {
		p.IsJudge = j == i
	}
	judge := r.players[i]
	for k, s := range r.submissions {
		if s.playerID == judge.ID {
			judge.Hand = append(judge.Hand, s.card)
			r.submissions = append(r.submissions[:k], r.submissions[k+1:]...)
			break
		}
	}
}

// discardSubmission drops a player's pending submission, if any, into the
// response discard.
func (r *Room) discardSubmission(playerID string) {
	for i, s := range r.submissions {
		if s.playerID == playerID {
			r.responseDiscard = append(r.responseDiscard, s.card)
			r.submissions = append(r.submissions[:i], r.submissions[i+1:]...)
			return
		}
	}
}

// reevaluate recomputes the playing<->judging boundary after the player or
// submission set changed. Judging requires every still-present non-judge to
// have submitted, and at least one submission.
func (r *Room) reevaluate() {
	eligible := len(r.players) - 1
	switch r.status {
	case StatusPlaying:
		if eligible > 0 && len(r.submissions) == eligible {
			r.toJudging()
		}
	case StatusJudging:
		if eligible <= 0 || len(r.submissions) < eligible {
			r.status = StatusPlaying
		}
	}
}

// toJudging reshuffles the pile on every entry so position carries no
// authorship signal.
func (r *Room) toJudging() {
	r.status = StatusJudging
	r.rng.Shuffle(len(r.submissions), func(i, j int) {
		r.submissions[i], r.submissions[j] = r.submissions[j], r.submissions[i]
	})
}

func (r *Room) playerByID(id string) *Player {
	for _, p := range r.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}
