package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDefaultIsNop(t *testing.T) {
	require.NotNil(t, L())
	assert.False(t, L().Core().Enabled(zapcore.ErrorLevel))
}

func TestSetLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	restore := SetLogger(zap.New(core))

	L().Debug("hello", zap.Int("n", 1))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "hello", logs.All()[0].Message)

	restore()
	L().Debug("dropped")
	assert.Equal(t, 1, logs.Len())
}

func TestSetLoggerNil(t *testing.T) {
	restore := SetLogger(nil)
	defer restore()
	assert.NotNil(t, L())
}

func TestNew(t *testing.T) {
	l, err := New(Options{Level: "debug"})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = New(Options{Level: "warn", JSON: true})
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))

	_, err = New(Options{Level: "loud"})
	assert.Error(t, err)
}
