package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.Addr)
	assert.Equal(t, 7, cfg.HandSize)
	assert.Equal(t, 10, cfg.RoundLimit)
	assert.False(t, cfg.Debug)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("ADDR", ":8080")
	t.Setenv("HAND_SIZE", "5")
	t.Setenv("ROUND_LIMIT", "3")
	t.Setenv("DEBUG", "true")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 5, cfg.HandSize)
	assert.Equal(t, 3, cfg.RoundLimit)
	assert.True(t, cfg.Debug)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoad_RejectsMalformedValues(t *testing.T) {
	t.Setenv("HAND_SIZE", "seven")

	_, err := Load()
	assert.Error(t, err)
}
