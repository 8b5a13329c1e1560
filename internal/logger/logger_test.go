package logger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T, level zapcore.Level) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(level)
	prev := log
	log = New(core)
	t.Cleanup(func() { log = prev })
	return logs
}

func TestInit(t *testing.T) {
	prev := log
	defer func() { log = prev }()

	Init("debug")
	assert.NotNil(t, log)
	assert.True(t, log.Desugar().Core().Enabled(zapcore.DebugLevel))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel(" error "))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("verbose"))
}

func TestInfo(t *testing.T) {
	logs := observe(t, zapcore.InfoLevel)

	Info("HTTP request", "method", "GET", "status", 200)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "HTTP request", entry.Message)
	assert.Equal(t, "GET", entry.ContextMap()["method"])
	assert.EqualValues(t, 200, entry.ContextMap()["status"])
}

func TestError(t *testing.T) {
	logs := observe(t, zapcore.InfoLevel)

	Error("test error")

	require.Equal(t, 1, logs.FilterMessage("test error").Len())
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[0].Level)
}

func TestDebugFilteredAtInfo(t *testing.T) {
	logs := observe(t, zapcore.InfoLevel)

	Debug("hidden")
	Debugf("hidden %s", "too")

	assert.Equal(t, 0, logs.Len())
}

func TestDebugf(t *testing.T) {
	logs := observe(t, zapcore.DebugLevel)

	Debugf("test %s", "debug")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "test debug", logs.All()[0].Message)
}

func TestInfofErrorf(t *testing.T) {
	logs := observe(t, zapcore.InfoLevel)

	Infof("test %s", "message")
	Errorf("test %s", "error")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "test message", logs.All()[0].Message)
	assert.Equal(t, "test error", logs.All()[1].Message)
}

func TestWithError(t *testing.T) {
	logs := observe(t, zapcore.InfoLevel)

	WithError(assert.AnError).Info("test with error")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, assert.AnError.Error(), logs.All()[0].ContextMap()["error"])
}

func TestWithFields(t *testing.T) {
	logs := observe(t, zapcore.InfoLevel)

	WithFields(map[string]interface{}{
		"key1": "value1",
		"key2": 123,
	}).Info("test with fields")

	require.Equal(t, 1, logs.Len())
	ctx := logs.All()[0].ContextMap()
	assert.Equal(t, "value1", ctx["key1"])
	assert.EqualValues(t, 123, ctx["key2"])
}

func TestSetReturnsPrevious(t *testing.T) {
	orig := log
	defer func() { log = orig }()

	core, _ := observer.New(zapcore.InfoLevel)
	next := New(core)

	assert.Same(t, orig, Set(next))
	assert.Same(t, next, Set(orig))
}

func TestChildLoggersReportCallSite(t *testing.T) {
	logs := observe(t, zapcore.InfoLevel)

	WithError(assert.AnError).Error("store failed")
	WithFields(map[string]interface{}{"class_id": 3}).Warnw("notice skipped")
	Info("direct")

	require.Equal(t, 3, logs.Len())
	for _, entry := range logs.All() {
		assert.True(t, entry.Caller.Defined)
		assert.True(t, strings.HasSuffix(entry.Caller.File, "logger_test.go"), entry.Caller.File)
	}
}
