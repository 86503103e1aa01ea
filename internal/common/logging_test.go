package common

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerWithOutput_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput("warn", &buf)

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewLoggerFromConfig_FileTee(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rhsheets.log")
	logger := NewLoggerFromConfig(LoggingConfig{Level: "debug", Format: "json", FilePath: path})

	logger.WithField("run_id", "r-1").Debug().Msg("tee")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"run_id":"r-1"`)
	assert.Contains(t, string(data), `"message":"tee"`)
}
