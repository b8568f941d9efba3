package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Carmen-Shannon/oxy-rt/common"
	"github.com/Carmen-Shannon/oxy-rt/engine"
	"github.com/Carmen-Shannon/oxy-rt/engine/config"
	"github.com/Carmen-Shannon/oxy-rt/engine/logger"
	"github.com/Carmen-Shannon/oxy-rt/engine/window"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

// flags is the parsed command line, separated from cli.Context so it can be tested.
type flags struct {
	fps             int
	tile            int
	width           int
	height          int
	scheduler       string
	chart           string
	metricsAddr     string
	timestampPeriod float64
	profile         bool
	noVSync         bool
	logLevel        string
	logFormat       string
	title           string
}

func parseFlags(ctx *cli.Context) flags {
	return flags{
		fps:             ctx.Int("fps"),
		tile:            ctx.Int("tile"),
		width:           ctx.Int("width"),
		height:          ctx.Int("height"),
		scheduler:       ctx.String("scheduler"),
		chart:           ctx.String("chart"),
		metricsAddr:     ctx.String("metrics-addr"),
		timestampPeriod: ctx.Float64("timestamp-period"),
		profile:         ctx.Bool("profile"),
		noVSync:         ctx.Bool("no-vsync"),
		logLevel:        ctx.String("log-level"),
		logFormat:       ctx.String("log-format"),
		title:           ctx.String("title"),
	}
}

// buildConfig maps flags onto a validated config. A fixed resolution needs both dimensions.
func buildConfig(f flags) (config.Config, error) {
	if f.fps < 0 || f.tile < 0 || f.width < 0 || f.height < 0 {
		return config.Config{}, errors.New("numeric flags must not be negative")
	}
	kind, err := config.ParseSchedulerKind(f.scheduler)
	if err != nil {
		return config.Config{}, err
	}

	opts := []config.ConfigBuilderOption{
		config.WithFPS(uint32(f.fps)),
		config.WithScheduler(kind),
		config.WithTimestampPeriod(float32(f.timestampPeriod)),
		config.WithCollector(config.DefaultCollectInterval, f.chart),
		config.WithVSync(!f.noVSync),
	}
	switch {
	case f.width > 0 && f.height > 0:
		opts = append(opts, config.WithFixedResolution(uint32(f.width), uint32(f.height)))
	case f.width > 0 || f.height > 0:
		return config.Config{}, errors.New("--width and --height must be given together")
	default:
		opts = append(opts, config.WithWorkgroupTile(uint32(f.tile)))
	}
	return config.New(opts...)
}

func run(ctx *cli.Context) error {
	f := parseFlags(ctx)

	log, err := logger.New(logger.Config{Level: f.logLevel, Encoding: f.logFormat, Name: "oxy-rt"})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	cfg, err := buildConfig(f)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	engineOptions := []engine.EngineBuilderOption{
		engine.WithLogger(log),
		engine.WithWindowOptions(window.WithTitle(common.Coalesce(f.title, "oxy-rt"))),
		engine.WithProfiling(f.profile),
	}
	if f.metricsAddr != "" {
		reg := newRegistry()
		serveMetrics(f.metricsAddr, reg, log)
		engineOptions = append(engineOptions, engine.WithRegisterer(reg))
	}

	e, err := engine.NewEngine(cfg, engineOptions...)
	if err != nil {
		return err
	}
	return e.Run()
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// serveMetrics exposes reg on addr/metrics in the background. A listener failure is logged, not fatal.
func serveMetrics(addr string, reg *prometheus.Registry, log *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn("metrics server stopped", zap.String("addr", addr), zap.Error(err))
		}
	}()
	log.Info("serving metrics", zap.String("addr", addr))
}
