package engine

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-rt/engine/config"
	"github.com/Carmen-Shannon/oxy-rt/engine/window"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewEngineRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.FPS = 0

	e, err := NewEngine(cfg)
	assert.Nil(t, e)
	assert.ErrorIs(t, err, config.ErrInvalidFPS)
}

func TestBuilderOptions(t *testing.T) {
	log := zaptest.NewLogger(t)
	reg := prometheus.NewRegistry()
	e := &engine{chartWidth: 800, chartHeight: 400}

	for _, opt := range []EngineBuilderOption{
		WithLogger(log),
		WithRegisterer(reg),
		WithChartSize(320, 200),
		WithChartSize(0, 100),
		WithProfiling(true),
		WithWindowOptions(window.WithTitle("a")),
		WithWindowOptions(window.WithTitle("b")),
	} {
		opt(e)
	}

	assert.Same(t, log, e.logger)
	assert.Same(t, reg, e.registerer)
	assert.Equal(t, 320, e.chartWidth, "non-positive sizes are ignored")
	assert.Equal(t, 200, e.chartHeight)
	assert.True(t, e.profiling)
	assert.Len(t, e.windowOptions, 2)
}

func TestWithLoggerIgnoresNil(t *testing.T) {
	log := zaptest.NewLogger(t)
	e := &engine{logger: log}

	WithLogger(nil)(e)
	require.NotNil(t, e.logger)
	assert.Same(t, log, e.logger)
}
