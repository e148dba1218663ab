package game

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Sender ---

type MockSender struct {
	mock.Mock

	mu   sync.Mutex
	sent [][]byte
}

func (m *MockSender) Send(data []byte) error {
	m.mu.Lock()
	m.sent = append(m.sent, append([]byte(nil), data...))
	m.mu.Unlock()
	args := m.Called(data)
	return args.Error(0)
}

func (m *MockSender) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

// lastState decodes the most recent state message the sender received.
func (m *MockSender) lastState(t *testing.T) Snapshot {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.sent) - 1; i >= 0; i-- {
		var msg struct {
			Type string   `json:"type"`
			Data Snapshot `json:"data"`
		}
		require.NoError(t, json.Unmarshal(m.sent[i], &msg))
		if msg.Type == MsgState {
			return msg.Data
		}
	}
	t.Fatal("no state message received")
	return Snapshot{}
}

// --- Conn ---

type MockConn struct {
	mock.Mock
}

func (m *MockConn) Write(data []byte) error {
	args := m.Called(data)
	return args.Error(0)
}

func (m *MockConn) Read() ([]byte, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockConn) Ping() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockConn) Close(reason string) {
	m.Called(reason)
}

// --- CardSource ---

type stubSource struct {
	prompts   []Card
	responses []Card
}

func (s stubSource) Prompts() []Card   { return s.prompts }
func (s stubSource) Responses() []Card { return s.responses }
