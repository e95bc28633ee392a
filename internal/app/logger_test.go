package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogLevelFromString(t *testing.T) {
	tests := []struct {
		input string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{" warning ", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.WarnLevel},
		{"verbose", zapcore.WarnLevel},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, LogLevelFromString(tt.input))
		})
	}
}

func TestZapLogger_Formats(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewZapLogger(zap.New(core))

	l.Debug("hidden %d", 1)
	l.Info("completed %s", "t1")
	l.Warn("pinned project %s missing", "p1")
	l.Error("save failed: %v", assert.AnError)

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "completed t1", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Contains(t, entries[2].Message, "save failed")
}

func TestBuildLogger(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		l, err := BuildLogger(LoggerOptions{Level: "debug", Format: format})
		require.NoError(t, err)
		assert.NotNil(t, l)
	}
}

func TestSetLogger(t *testing.T) {
	prev := GetLogger()
	defer SetLogger(prev)

	nop := NewNopLogger()
	SetLogger(nop)
	assert.Same(t, nop, GetLogger())

	SetLogger(nil)
	assert.Same(t, nop, GetLogger(), "nil must not replace the logger")
}
