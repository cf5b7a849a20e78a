package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Must run before any other test in this package calls Init, since
// initOnce only ever fires once per test binary.
func TestForServiceReturnsNilBeforeInit(t *testing.T) {
	assert.False(t, IsInitialized())
	assert.Nil(t, ForService("generator"))
}

func TestInitCreatesLogsDirectoryAndLoggers(t *testing.T) {
	t.Chdir(t.TempDir())

	Init()

	assert.True(t, IsInitialized())
	assert.NotNil(t, Structured())
	assert.NotNil(t, HumanReadable())

	info, err := os.Stat("logs")
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestForServiceAddsServiceAttribute(t *testing.T) {
	log := ForService("generator")
	require.NotNil(t, log)

	var buf bytes.Buffer
	require.NoError(t, SetOutput(&buf, &buf))
	defer func() {
		require.NoError(t, SetOutput(os.Stderr, os.Stderr))
	}()

	ForService("generator").Info("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "generator", entry["service"])
}

func TestSetOutputRejectsNilWriters(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, SetOutput(nil, &buf))
	assert.Error(t, SetOutput(&buf, nil))
}

func TestNewFileLoggerWritesRotatingJSONLog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "generator.log")
	levelVar := new(slog.LevelVar)

	log, closeFn, err := NewFileLogger(path, "generator", levelVar)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, closeFn())
	}()

	log.Info("tone queue started")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
	assert.Equal(t, "generator", entry["service"])
	assert.Equal(t, "tone queue started", entry["msg"])
}

func TestDefaultReplaceAttrFormatsCustomLevelNames(t *testing.T) {
	attr := defaultReplaceAttr(nil, slog.Attr{Key: slog.LevelKey, Value: slog.AnyValue(LevelTrace)})
	assert.Equal(t, "TRACE", attr.Value.String())

	attr = defaultReplaceAttr(nil, slog.Attr{Key: slog.LevelKey, Value: slog.AnyValue(LevelFatal)})
	assert.Equal(t, "FATAL", attr.Value.String())
}
