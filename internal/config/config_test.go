package config_test

import (
	"testing"
	"time"

	"aicreat-gateway/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := config.FromEnv()

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.CreativeAPIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.CreativeAPITimeout)
	assert.Equal(t, 2*time.Second, cfg.PollInterval)
	assert.Equal(t, 5*time.Second, cfg.PollErrorInterval)
	assert.Equal(t, 30*time.Minute, cfg.PollMaxWait)
	assert.Equal(t, 0, cfg.PollMaxErrors)
	assert.Equal(t, 600.0, cfg.DisplayWidth)
	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.IsDevelopment())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("CREATIVE_API_BASE_URL", "https://creative.example.com")
	t.Setenv("POLL_INTERVAL", "500ms")
	t.Setenv("POLL_MAX_WAIT", "0")
	t.Setenv("POLL_MAX_ERRORS", "10")
	t.Setenv("DISPLAY_WIDTH", "800")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := config.FromEnv()

	require.NoError(t, err)
	assert.Equal(t, "https://creative.example.com", cfg.CreativeAPIBaseURL)
	assert.Equal(t, 500*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, time.Duration(0), cfg.PollMaxWait)
	assert.Equal(t, 10, cfg.PollMaxErrors)
	assert.Equal(t, 800.0, cfg.DisplayWidth)
	assert.False(t, cfg.IsDevelopment())
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing secret", map[string]string{}, "JWT_SECRET is required"},
		{"bad duration", map[string]string{"JWT_SECRET": "s", "POLL_INTERVAL": "soon"}, "POLL_INTERVAL"},
		{"bad int", map[string]string{"JWT_SECRET": "s", "POLL_MAX_ERRORS": "many"}, "POLL_MAX_ERRORS"},
		{"half supabase", map[string]string{"JWT_SECRET": "s", "SUPABASE_URL": "https://x.supabase.co"}, "must be set together"},
		{"zero display", map[string]string{"JWT_SECRET": "s", "DISPLAY_WIDTH": "-1"}, "DISPLAY_WIDTH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := config.FromEnv()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
