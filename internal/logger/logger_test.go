package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"finance-tracker/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	require.NoError(t, Init(config.LogConfig{File: path, Level: "debug", Format: "json"}))
	t.Cleanup(func() { _ = Close() })

	Log.WithField("user_id", 7).Debug("hello")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(raw, &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "debug", entry["level"])
	assert.EqualValues(t, 7, entry["user_id"])
	assert.Contains(t, entry["file"], "logger_test.go:")
}

func TestInit_UnknownLevelFallsBackToInfo(t *testing.T) {
	require.NoError(t, Init(config.LogConfig{Level: "chatty"}))
	assert.Equal(t, logrus.InfoLevel, Log.GetLevel())
}

func TestClose_ReleasesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, Init(config.LogConfig{File: path}))
	file := logFile
	require.NotNil(t, file)

	require.NoError(t, Close())
	assert.Nil(t, logFile)
	assert.Same(t, os.Stdout, Log.Out)
	assert.Error(t, file.Close(), "file should already be closed")

	// closing twice is harmless
	assert.NoError(t, Close())
}

func TestInit_ReplacesPreviousFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(config.LogConfig{File: filepath.Join(dir, "first.log")}))
	first := logFile
	require.NoError(t, Init(config.LogConfig{File: filepath.Join(dir, "second.log")}))
	t.Cleanup(func() { _ = Close() })

	assert.Error(t, first.Close())
	assert.NotSame(t, first, logFile)
}
