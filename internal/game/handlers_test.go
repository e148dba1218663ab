package game

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomCodeHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	d, _ := newTestDispatcher()
	h := NewHandler(d, zerolog.Nop())
	r := gin.New()
	h.Register(r)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/rooms/code", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.GreaterOrEqual(t, len(body.Code), MinRoomCodeLen)

	normalized, err := NormalizeCode(body.Code)
	require.NoError(t, err)
	assert.Equal(t, body.Code, normalized)
}

func TestConnectHandler_RejectsPlainHTTP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	d, _ := newTestDispatcher()
	h := NewHandler(d, zerolog.Nop())
	r := gin.New()
	h.Register(r)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code, "upgrade handshake required")
}
