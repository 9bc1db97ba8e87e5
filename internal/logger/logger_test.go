package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriterAddsComponent(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("FBURN_LOG_LEVEL", "")

	var buf bytes.Buffer
	log := NewWithWriter(&buf, "daemon")
	log.Info().Int("vehicles", 2).Msg("poll complete")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "daemon", line["component"])
	assert.Equal(t, "poll complete", line["message"])
	assert.Equal(t, float64(2), line["vehicles"])
}

func TestLevelFromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("FBURN_LOG_LEVEL", "warn")

	var buf bytes.Buffer
	log := NewWithWriter(&buf, "test")
	log.Info().Msg("hidden")
	assert.Empty(t, buf.String())

	log.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}
