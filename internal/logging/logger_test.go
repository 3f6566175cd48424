package logging

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T, o Options) *observer.ObservedLogs {
	t.Helper()
	lvl, err := ParseLevel(o.Level)
	require.NoError(t, err)
	core, logs := observer.New(lvl)
	InitializeWithCore(core, o)
	t.Cleanup(CloseAll)
	return logs
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"":        zapcore.InfoLevel,
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestCategoryLoggerNamesEntries(t *testing.T) {
	logs := observe(t, Options{Level: "debug"})

	Perception("strategy for %s", "device")
	APIDebug("status=%d", 200)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "perception", entries[0].LoggerName)
	assert.Equal(t, "strategy for device", entries[0].Message)
	assert.Equal(t, "api", entries[1].LoggerName)
	assert.Equal(t, zapcore.DebugLevel, entries[1].Level)
}

func TestLevelFiltering(t *testing.T) {
	logs := observe(t, Options{Level: "warn"})

	PerceptionDebug("hidden")
	Perception("hidden")
	PerceptionWarn("shown")
	PerceptionError("shown")

	assert.Equal(t, 2, logs.Len())
}

func TestDisabledCategoryIsNoop(t *testing.T) {
	logs := observe(t, Options{
		Level:      "debug",
		Categories: map[string]bool{"api": false, "perception": true},
	})

	assert.False(t, IsCategoryEnabled(CategoryAPI))
	assert.True(t, IsCategoryEnabled(CategoryPerception))
	assert.True(t, IsCategoryEnabled(CategoryBoot), "missing categories default to enabled")

	API("dropped")
	Perception("kept")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "kept", logs.All()[0].Message)
}

func TestRequestLoggerAddsCorrelationID(t *testing.T) {
	logs := observe(t, Options{Level: "debug"})

	WithRequestID(CategoryAdvisor, "req-1").WithField("kind", "transport").Warn("failed")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-1", fields["req"])
	assert.Equal(t, "transport", fields["kind"])
}

func TestGetBeforeInitializeIsSafe(t *testing.T) {
	CloseAll()
	assert.NotPanics(t, func() {
		Get(CategoryBoot).Info("nobody listens")
		StartTimer(CategoryAPI, "noop").Stop()
	})
}

func TestTimerStopWithThreshold(t *testing.T) {
	logs := observe(t, Options{Level: "debug"})

	StartTimer(CategoryCLI, "fast").StopWithThreshold(time.Hour)
	timer := StartTimer(CategoryCLI, "slow")
	time.Sleep(5 * time.Millisecond)
	elapsed := timer.StopWithThreshold(time.Millisecond)

	assert.GreaterOrEqual(t, elapsed, 5*time.Millisecond)
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, zapcore.DebugLevel, logs.All()[0].Level)
	assert.Equal(t, zapcore.WarnLevel, logs.All()[1].Level)
	assert.Contains(t, logs.All()[1].Message, "slow took")
}

func TestInitializeWritesFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nova.log")
	require.NoError(t, Initialize(Options{Level: "info", Format: "json", File: path}))

	Boot("to file")
	CloseAll()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"msg":"to file"`), string(data))
}

func TestInitializeRejectsUnknownFormat(t *testing.T) {
	err := Initialize(Options{Format: "xml"})
	assert.Error(t, err)
}

func TestConcurrentGet(t *testing.T) {
	observe(t, Options{Level: "info"})

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Get(CategoryPerception).Info("hello")
		}()
	}
	wg.Wait()
}
