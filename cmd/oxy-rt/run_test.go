package main

import (
	"flag"
	"testing"

	"github.com/Carmen-Shannon/oxy-rt/common"
	"github.com/Carmen-Shannon/oxy-rt/engine/config"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
)

func defaultFlags() flags {
	return flags{fps: 15, tile: 16, scheduler: "default", timestampPeriod: 1}
}

func TestBuildConfigDefaults(t *testing.T) {
	cfg, err := buildConfig(defaultFlags())
	require.NoError(t, err)

	assert.True(t, cfg.Resolution.Tracks())
	assert.Equal(t, uint32(16), cfg.Resolution.WorkgroupDim())
	assert.Equal(t, uint32(15), cfg.FPS)
	assert.Equal(t, config.SchedulerDefault, cfg.Scheduler)
	assert.True(t, cfg.VSync)
}

func TestBuildConfigFixed(t *testing.T) {
	f := defaultFlags()
	f.width, f.height = 1920, 1080
	f.scheduler = "bench"
	f.chart = "latency.png"
	f.noVSync = true

	cfg, err := buildConfig(f)
	require.NoError(t, err)

	size, ok := cfg.Resolution.FixedSize()
	require.True(t, ok)
	assert.Equal(t, common.Size{Width: 1920, Height: 1080}, size)
	assert.Equal(t, uint32(16), cfg.Resolution.WorkgroupDim(), "gcd 120 is clamped")
	assert.Equal(t, config.SchedulerBench, cfg.Scheduler)
	assert.Equal(t, "latency.png", cfg.ChartPath)
	assert.False(t, cfg.VSync)
}

func TestBuildConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(f *flags)
	}{
		{"zero fps", func(f *flags) { f.fps = 0 }},
		{"zero tile", func(f *flags) { f.tile = 0 }},
		{"width only", func(f *flags) { f.width = 100 }},
		{"negative", func(f *flags) { f.height = -1 }},
		{"unknown scheduler", func(f *flags) { f.scheduler = "fast" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := defaultFlags()
			tt.modify(&f)
			_, err := buildConfig(f)
			assert.Error(t, err)
		})
	}
}

func TestParseFlags(t *testing.T) {
	app := cli.NewApp()
	set := flag.NewFlagSet("oxy-rt", flag.ContinueOnError)
	set.Int("fps", 15, "")
	set.Int("tile", 16, "")
	set.Int("width", 0, "")
	set.Int("height", 0, "")
	set.String("scheduler", "default", "")
	set.String("title", "oxy-rt", "")
	set.Float64("timestamp-period", 1, "")
	require.NoError(t, set.Parse([]string{"--fps", "30", "--scheduler", "bench", "--width", "64", "--height", "32"}))

	f := parseFlags(cli.NewContext(app, set, nil))
	assert.Equal(t, 30, f.fps)
	assert.Equal(t, "bench", f.scheduler)
	assert.Equal(t, 64, f.width)
	assert.Equal(t, 32, f.height)
	assert.Equal(t, "oxy-rt", f.title)
}

func TestNewRegistry(t *testing.T) {
	reg := newRegistry()
	n, err := testutil.GatherAndCount(reg, "go_goroutines")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
