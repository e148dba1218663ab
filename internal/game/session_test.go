package game

import (
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, d *Dispatcher, id string) *Session {
	t.Helper()
	s := NewSession(id, &MockConn{}, d, zerolog.Nop())
	d.Attach(id, s)
	return s
}

func clientMsg(t *testing.T, typ string, payload any) ClientMessage {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return ClientMessage{Type: typ, Data: data}
}

// drain decodes everything queued in the session's outbox.
func drain(t *testing.T, s *Session) []ServerMessage {
	t.Helper()
	var out []ServerMessage
	for {
		select {
		case data := <-s.outbox:
			var msg ServerMessage
			require.NoError(t, json.Unmarshal(data, &msg))
			out = append(out, msg)
		default:
			return out
		}
	}
}

func lastStateOf(t *testing.T, msgs []ServerMessage) Snapshot {
	t.Helper()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Type != MsgState {
			continue
		}
		raw, err := json.Marshal(msgs[i].Data)
		require.NoError(t, err)
		var snap Snapshot
		require.NoError(t, json.Unmarshal(raw, &snap))
		return snap
	}
	t.Fatal("no state message queued")
	return Snapshot{}
}

func TestSession_JoinErrorGoesToOriginOnly(t *testing.T) {
	d, _ := newTestDispatcher()
	s1 := newTestSession(t, d, "c1")
	s2 := newTestSession(t, d, "c2")

	s1.handle(clientMsg(t, MsgJoin, JoinPayload{Room: "ab", Name: "alice"}))

	msgs := drain(t, s1)
	require.Len(t, msgs, 1)
	assert.Equal(t, MsgError, msgs[0].Type)
	assert.Empty(t, drain(t, s2), "bystanders hear nothing")
}

func TestSession_MalformedPayloadIgnored(t *testing.T) {
	d, reg := newTestDispatcher()
	s := newTestSession(t, d, "c1")

	s.handle(ClientMessage{Type: MsgJoin, Data: json.RawMessage(`"not an object"`)})
	s.handle(ClientMessage{Type: "unheard-of", Data: nil})

	assert.Empty(t, drain(t, s))
	assert.Equal(t, 0, reg.Len())
}

// Drives a full two-player round through the message layer: join, start,
// submit, select.
func TestSession_GameFlow(t *testing.T) {
	d, _ := newTestDispatcher()
	s1 := newTestSession(t, d, "c1")
	s2 := newTestSession(t, d, "c2")

	s1.handle(clientMsg(t, MsgJoin, JoinPayload{Room: "ABCD", Name: "alice"}))
	s2.handle(clientMsg(t, MsgJoin, JoinPayload{Room: "abcd", Name: "bob"}))
	s1.handle(clientMsg(t, MsgStart, struct{}{}))

	state := lastStateOf(t, drain(t, s1))
	require.Equal(t, StatusPlaying, state.Status)

	judgeSess, otherSess := s1, s2
	if !state.Players[0].IsJudge {
		judgeSess, otherSess = s2, s1
	}
	otherState := lastStateOf(t, drain(t, otherSess))
	require.NotEmpty(t, otherState.Hand)

	otherSess.handle(clientMsg(t, MsgSubmit, SubmitPayload{CardID: otherState.Hand[0].ID}))

	judgeState := lastStateOf(t, drain(t, judgeSess))
	require.Equal(t, StatusJudging, judgeState.Status)
	require.Len(t, judgeState.Submissions, 1)

	judgeSess.handle(clientMsg(t, MsgSelect, SelectPayload{
		PlayerID: judgeState.Submissions[0].PlayerID,
	}))

	final := lastStateOf(t, drain(t, judgeSess))
	assert.Equal(t, 2, final.Round)
	assert.Equal(t, StatusPlaying, final.Status)
	for _, p := range final.Players {
		if p.ID == judgeState.Submissions[0].PlayerID {
			assert.Equal(t, 1, p.Score)
		}
	}
}

func TestSession_LeaveMessage(t *testing.T) {
	d, reg := newTestDispatcher()
	s := newTestSession(t, d, "c1")

	s.handle(clientMsg(t, MsgJoin, JoinPayload{Room: "ABCD", Name: "alice"}))
	require.Equal(t, 1, reg.Len())

	s.handle(clientMsg(t, MsgLeave, struct{}{}))
	assert.Equal(t, 0, reg.Len())
}

func TestSession_SendDropsWhenFull(t *testing.T) {
	s := NewSession("c1", &MockConn{}, nil, zerolog.Nop())

	for i := 0; i < outboxSize; i++ {
		require.NoError(t, s.Send([]byte("x")))
	}
	assert.ErrorIs(t, s.Send([]byte("overflow")), ErrSlowConsumer)
}

func TestSession_SendAfterClose(t *testing.T) {
	conn := &MockConn{}
	conn.On("Close", "").Return()
	s := NewSession("c1", conn, nil, zerolog.Nop())

	s.close()

	assert.ErrorIs(t, s.Send([]byte("x")), ErrSessionClosed)
	conn.AssertExpectations(t)
}
