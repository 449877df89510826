package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"DEBUG":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		" Error ": zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for name, want := range cases {
		assert.Equal(t, want, ParseLevel(name), "level %q", name)
	}
}

func TestGetZapLevelFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	assert.Equal(t, zapcore.WarnLevel, GetZapLevelFromEnv())
}

func TestInitLogger(t *testing.T) {
	t.Cleanup(func() { Log = zap.NewNop().Sugar() })
	assert.NotNil(t, Log, "default logger must be usable before init")

	var out bytes.Buffer
	log, err := InitLogger(Options{Level: "warn", Output: &out})
	require.NoError(t, err)
	assert.Same(t, log, Log)

	Log.Infow("Request accepted", "request", 1)
	Log.Warnw("Inconsistent trial statistics", "trial", "t1")
	SyncLogger()

	lines := bytes.Split(bytes.TrimSpace(out.Bytes()), []byte("\n"))
	require.Len(t, lines, 1, "info entries are below the configured level")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "Inconsistent trial statistics", entry["msg"])
	assert.Equal(t, "t1", entry["trial"])
	assert.Contains(t, entry, "ts")
}

func TestInitLogger_LevelFromEnv(t *testing.T) {
	t.Cleanup(func() { Log = zap.NewNop().Sugar() })
	t.Setenv("LOG_LEVEL", "debug")

	var out bytes.Buffer
	_, err := InitLogger(Options{Output: &out})
	require.NoError(t, err)

	Log.Debugw("Request arrived", "request", 7)
	SyncLogger()
	assert.Contains(t, out.String(), `"msg":"Request arrived"`)
}
