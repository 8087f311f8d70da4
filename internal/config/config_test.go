package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "base", cfg.Processing.WhisperModel)
	assert.Equal(t, 5, cfg.Processing.SummarySentenceCount)
	assert.Equal(t, 5, cfg.Processing.KeyPointCount)
	assert.Equal(t, 100, cfg.Processing.MaxFileSizeMB)
	assert.Equal(t, 300, cfg.Processing.TranscribeTimeoutSec)
	assert.False(t, cfg.Processing.MockMode)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("VOICEAID_MOCK_MODE", "true")
	t.Setenv("VOICEAID_WHISPER_MODEL", "small")
	t.Setenv("VOICEAID_MAX_FILE_SIZE_MB", "25")
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("VOICEAID_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Processing.MockMode)
	assert.Equal(t, "small", cfg.Processing.WhisperModel)
	assert.Equal(t, 25, cfg.Processing.MaxFileSizeMB)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
}
