package game

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Sender is the outbound half of a connection. Send must not block the
// caller; sessions buffer and report overflow instead of stalling a room.
type Sender interface {
	Send(data []byte) error
}

type connState struct {
	sender   Sender
	roomCode string
}

// Dispatcher resolves connection-tagged events to rooms, executes them
// under the target room's lock, and fans the resulting snapshot views out
// to every member. A connection belongs to at most one room at a time;
// joining a second room implicitly leaves the first.
type Dispatcher struct {
	registry *Registry
	log      zerolog.Logger

	mu    sync.Mutex
	conns map[string]*connState
}

func NewDispatcher(registry *Registry, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		log:      log,
		conns:    make(map[string]*connState),
	}
}

// Attach registers a connection's outbound channel. Events for unattached
// connections are dropped.
func (d *Dispatcher) Attach(connID string, s Sender) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.conns[connID] = &connState{sender: s}
}

// Join validates the request, moves the connection into the room, and
// broadcasts the new state. Validation errors are returned for delivery to
// the originating connection only; nothing is mutated on error.
func (d *Dispatcher) Join(connID, code, name string) error {
	code, err := NormalizeCode(code)
	if err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" {
		return ErrInvalidName
	}
	d.mu.Lock()
	st, ok := d.conns[connID]
	if !ok {
		d.mu.Unlock()
		return nil
	}
	prev := st.roomCode
	d.mu.Unlock()
	if prev != "" && prev != code {
		d.leaveRoom(connID, prev)
	}
	room := d.registry.GetOrCreate(code)
	deliveries, err := room.Join(connID, name)
	if err != nil {
		if room.Empty() {
			d.registry.Remove(code)
		}
		return err
	}
	d.mu.Lock()
	if st, ok := d.conns[connID]; ok {
		st.roomCode = code
	}
	d.mu.Unlock()
	d.log.Debug().Str("conn", connID).Str("room", code).Msg("joined room")
	d.broadcast(deliveries)
	return nil
}

// StartGame begins the game in the caller's room. Silently ignored unless
// the caller is host of a waiting room with at least two players.
func (d *Dispatcher) StartGame(connID string) {
	if room := d.roomFor(connID); room != nil {
		d.broadcast(room.Start(connID))
	}
}

// SubmitCard plays a response card for the current round.
func (d *Dispatcher) SubmitCard(connID, cardID string) {
	if room := d.roomFor(connID); room != nil {
		d.broadcast(room.Submit(connID, cardID))
	}
}

// SelectWinner records the judge's choice for the current round.
func (d *Dispatcher) SelectWinner(connID, winnerID string) {
	if room := d.roomFor(connID); room != nil {
		d.broadcast(room.SelectWinner(connID, winnerID))
	}
}

// EndGame finishes the caller's game early (host only).
func (d *Dispatcher) EndGame(connID string) {
	if room := d.roomFor(connID); room != nil {
		d.broadcast(room.End(connID))
	}
}

// Leave handles an explicit leave without tearing the connection down.
func (d *Dispatcher) Leave(connID string) {
	d.mu.Lock()
	var code string
	if st, ok := d.conns[connID]; ok {
		code = st.roomCode
		st.roomCode = ""
	}
	d.mu.Unlock()
	if code != "" {
		d.leaveRoom(connID, code)
	}
}

// Disconnect is an implicit leave plus connection table cleanup. Never an
// error: disconnection is a first-class state transition.
func (d *Dispatcher) Disconnect(connID string) {
	d.mu.Lock()
	var code string
	if st, ok := d.conns[connID]; ok {
		code = st.roomCode
	}
	delete(d.conns, connID)
	d.mu.Unlock()
	if code != "" {
		d.leaveRoom(connID, code)
	}
}

func (d *Dispatcher) roomFor(connID string) *Room {
	d.mu.Lock()
	var code string
	if st, ok := d.conns[connID]; ok {
		code = st.roomCode
	}
	d.mu.Unlock()
	if code == "" {
		return nil
	}
	room, ok := d.registry.Get(code)
	if !ok {
		return nil
	}
	return room
}

func (d *Dispatcher) leaveRoom(connID, code string) {
	room, ok := d.registry.Get(code)
	if !ok {
		return
	}
	deliveries, removed := room.Leave(connID)
	if !removed {
		return
	}
	if room.Empty() {
		d.registry.Remove(code)
		d.log.Info().Str("room", code).Msg("room emptied, destroyed")
		return
	}
	d.broadcast(deliveries)
}

// broadcast fans committed snapshot views out to their recipients. Delivery
// is fire-and-forget relative to the mutation that produced the views; a
// slow or dead connection only loses its own updates.
func (d *Dispatcher) broadcast(deliveries []Delivery) {
	for _, del := range deliveries {
		d.mu.Lock()
		st, ok := d.conns[del.PlayerID]
		d.mu.Unlock()
		if !ok {
			continue
		}
		data, err := json.Marshal(ServerMessage{Type: MsgState, Data: del.Snapshot})
		if err != nil {
			d.log.Error().Err(err).Msg("encoding snapshot")
			continue
		}
		if err := st.sender.Send(data); err != nil {
			d.log.Debug().Err(err).Str("conn", del.PlayerID).Msg("dropping state update")
		}
	}
}
