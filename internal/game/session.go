package game

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	pingInterval = 25 * time.Second
	pongWait     = time.Minute
	closeWait    = 20 * time.Second

	outboxSize = 64

	// inbound events per second per connection, with a small burst
	inboundRate  = 10
	inboundBurst = 20
)

// Conn is the duplex channel a session runs on.
type Conn interface {
	Write(data []byte) error
	Read() ([]byte, error)
	Ping() error
	Close(reason string)
}

type wsConn struct {
	sock *websocket.Conn
}

// newWSConn wraps a gorilla connection and arms the pong handler so idle
// but healthy connections are not reaped.
func newWSConn(sock *websocket.Conn) *wsConn {
	sock.SetPongHandler(func(string) error {
		return sock.SetReadDeadline(time.Now().Add(pongWait))
	})
	return &wsConn{sock: sock}
}

func (wc *wsConn) Write(data []byte) error {
	return wc.sock.WriteMessage(websocket.TextMessage, data)
}

func (wc *wsConn) Read() ([]byte, error) {
	_, p, err := wc.sock.ReadMessage()
	return p, err
}

func (wc *wsConn) Ping() error {
	return wc.sock.WriteMessage(websocket.PingMessage, nil)
}

func (wc *wsConn) Close(reason string) {
	wc.sock.SetWriteDeadline(time.Now().Add(closeWait))
	wc.sock.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason))
	wc.sock.Close()
}

// Session pumps one connection in and out of the dispatcher. It owns the
// outbound buffer, the keepalive ticker, and the per-connection rate limit.
type Session struct {
	id         string
	conn       Conn
	dispatcher *Dispatcher
	limiter    *rate.Limiter
	outbox     chan []byte
	done       chan struct{}
	closeOnce  sync.Once
	log        zerolog.Logger
}

func NewSession(id string, conn Conn, d *Dispatcher, log zerolog.Logger) *Session {
	return &Session{
		id:         id,
		conn:       conn,
		dispatcher: d,
		limiter:    rate.NewLimiter(inboundRate, inboundBurst),
		outbox:     make(chan []byte, outboxSize),
		done:       make(chan struct{}),
		log:        log.With().Str("conn", id).Logger(),
	}
}

// Send queues data for the write pump without blocking. A consumer that
// cannot keep up loses updates instead of stalling the room that produced
// them.
func (s *Session) Send(data []byte) error {
	select {
	case <-s.done:
		return ErrSessionClosed
	default:
	}
	select {
	case s.outbox <- data:
		return nil
	default:
		return ErrSlowConsumer
	}
}

// Run drives both pumps. It returns once the socket is gone and the
// implicit leave has been dispatched.
func (s *Session) Run() {
	s.dispatcher.Attach(s.id, s)
	s.sendMessage(ServerMessage{Type: MsgWelcome, Data: WelcomePayload{ConnID: s.id}})
	go s.writePump()
	s.readPump()
	s.close()
	s.dispatcher.Disconnect(s.id)
}

func (s *Session) readPump() {
	for {
		data, err := s.conn.Read()
		if err != nil {
			s.log.Debug().Err(err).Msg("read loop ended")
			return
		}
		if !s.limiter.Allow() {
			s.log.Debug().Msg("rate limit exceeded, dropping message")
			continue
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.log.Debug().Err(err).Msg("malformed message")
			continue
		}
		s.handle(msg)
	}
}

func (s *Session) handle(msg ClientMessage) {
	switch msg.Type {
	case MsgJoin:
		var p JoinPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return
		}
		if err := s.dispatcher.Join(s.id, p.Room, p.Name); err != nil {
			s.sendError(err)
		}
	case MsgStart:
		s.dispatcher.StartGame(s.id)
	case MsgSubmit:
		var p SubmitPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return
		}
		s.dispatcher.SubmitCard(s.id, p.CardID)
	case MsgSelect:
		var p SelectPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return
		}
		s.dispatcher.SelectWinner(s.id, p.PlayerID)
	case MsgEnd:
		s.dispatcher.EndGame(s.id)
	case MsgLeave:
		s.dispatcher.Leave(s.id)
	default:
		s.log.Debug().Str("type", msg.Type).Msg("unknown message type")
	}
}

func (s *Session) writePump() {
	pings := time.NewTicker(pingInterval)
	defer pings.Stop()
	for {
		select {
		case data := <-s.outbox:
			if err := s.conn.Write(data); err != nil {
				s.close()
				return
			}
		case <-pings.C:
			if err := s.conn.Ping(); err != nil {
				s.close()
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *Session) sendError(err error) {
	s.sendMessage(ServerMessage{
		Type: MsgError,
		Data: ErrorPayload{Code: errorCode(err), Message: err.Error()},
	})
}

func (s *Session) sendMessage(msg ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	if err := s.Send(data); err != nil {
		s.log.Debug().Err(err).Msg("dropping outbound message")
	}
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.conn.Close("")
	})
}
