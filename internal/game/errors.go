package game

import "errors"

var (
	ErrInvalidRoomCode = errors.New("invalid room code")
	ErrInvalidName     = errors.New("invalid player name")
	ErrRoomNotJoinable = errors.New("room is not joinable")
	ErrSlowConsumer    = errors.New("outbound queue full")
	ErrSessionClosed   = errors.New("session closed")
)

// errorCode maps a validation error to its wire code.
func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRoomCode):
		return "invalid_room_code"
	case errors.Is(err, ErrInvalidName):
		return "invalid_name"
	case errors.Is(err, ErrRoomNotJoinable):
		return "room_not_joinable"
	default:
		return "unknown"
	}
}
