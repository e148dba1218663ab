package game

import "encoding/json"

// ClientMessage is the inbound JSON envelope. Data is decoded per Type.
type ClientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// ServerMessage is the outbound JSON envelope.
type ServerMessage struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

const (
	MsgJoin   = "join"
	MsgStart  = "start"
	MsgSubmit = "submit"
	MsgSelect = "select"
	MsgEnd    = "end"
	MsgLeave  = "leave"

	MsgWelcome = "welcome"
	MsgState   = "state"
	MsgError   = "error"
)

type JoinPayload struct {
	Room string `json:"room"`
	Name string `json:"name"`
}

type SubmitPayload struct {
	CardID string `json:"cardId"`
}

type SelectPayload struct {
	PlayerID string `json:"playerId"`
}

type WelcomePayload struct {
	ConnID string `json:"connId"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
