package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"aicreat-gateway/internal/logging"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductionLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter("production", &buf)

	logger.Debug().Msg("hidden")
	logger.Info().Str("job_id", "j1").Msg("job started")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "job started", entry["message"])
	assert.Equal(t, "j1", entry["job_id"])
	assert.Equal(t, "aicreat-gateway", entry["service"])
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}

func TestDevelopmentLoggerIsVerbose(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter("development", &buf)

	logger.Debug().Msg("poll tick")

	assert.Equal(t, zerolog.DebugLevel, logger.GetLevel())
	assert.Contains(t, buf.String(), "poll tick")
}
