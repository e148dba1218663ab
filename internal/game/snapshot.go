package game

// Status is the room lifecycle state.
type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusPlaying  Status = "playing"
	StatusJudging  Status = "judging"
	StatusFinished Status = "finished"
	StatusEmpty    Status = "empty"
)

// PlayerInfo is the public view of a player. Hands are exposed by size
// only.
type PlayerInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
	IsJudge  bool   `json:"isJudge"`
	HandSize int    `json:"handSize"`
}

// SubmissionView is one entry of the randomized pile shown to the judge.
type SubmissionView struct {
	PlayerID string `json:"playerId"`
	Card     Card   `json:"card"`
}

// Snapshot is the broadcastable projection of a room. Hand carries only the
// recipient's own cards; Submissions is populated only for the judge while
// the room is judging.
type Snapshot struct {
	Code            string           `json:"code"`
	Status          Status           `json:"status"`
	Round           int              `json:"round"`
	HostID          string           `json:"hostId"`
	Prompt          string           `json:"prompt"`
	Players         []PlayerInfo     `json:"players"`
	SubmissionCount int              `json:"submissionCount"`
	Hand            []Card           `json:"hand,omitempty"`
	Submissions     []SubmissionView `json:"submissions,omitempty"`
}

// Delivery pairs a snapshot view with the connection it is addressed to.
type Delivery struct {
	PlayerID string
	Snapshot Snapshot
}

// deliveries projects one view per member from the current state. Callers
// hold r.mu, so every view in the batch reflects the same committed state.
func (r *Room) deliveries() []Delivery {
	base := Snapshot{
		Code:            r.code,
		Status:          r.status,
		Round:           r.round,
		HostID:          r.hostID,
		SubmissionCount: len(r.submissions),
		Players:         make([]PlayerInfo, 0, len(r.players)),
	}
	if r.currentPrompt != nil {
		base.Prompt = r.currentPrompt.Text
	}
	for _, p := range r.players {
		base.Players = append(base.Players, PlayerInfo{
			ID:       p.ID,
			Name:     p.Name,
			Score:    p.Score,
			IsJudge:  p.IsJudge,
			HandSize: len(p.Hand),
		})
	}
	out := make([]Delivery, 0, len(r.players))
	for _, p := range r.players {
		view := base
		view.Hand = append([]Card(nil), p.Hand...)
		if p.IsJudge && r.status == StatusJudging {
			subs := make([]SubmissionView, 0, len(r.submissions))
			for _, s := range r.submissions {
				subs = append(subs, SubmissionView{PlayerID: s.playerID, Card: s.card})
			}
			view.Submissions = subs
		}
		out = append(out, Delivery{PlayerID: p.ID, Snapshot: view})
	}
	return out
}

// SnapshotFor returns the view a given member would receive, for handlers
// and tests that need a one-off read.
func (r *Room) SnapshotFor(connID string) (Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.deliveries() {
		if d.PlayerID == connID {
			return d.Snapshot, true
		}
	}
	return Snapshot{}, false
}
