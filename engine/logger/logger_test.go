package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	l, err := New(Config{Level: "debug", Name: "oxy-rt"})
	require.NoError(t, err)
	assert.NotNil(t, l)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = New(Config{Encoding: "json"})
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug").Level())
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warn").Level())
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error").Level())
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("verbose").Level())
}
