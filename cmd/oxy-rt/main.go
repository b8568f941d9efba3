package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "oxy-rt"
	app.Usage = "run a compute shader into a texture and draw it to a window"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.IntFlag{
			Name:   "fps",
			Value:  15,
			Usage:  "fixed update rate, also the resize debounce rate",
			EnvVar: "OXYRT_FPS",
		},
		cli.IntFlag{
			Name:   "tile",
			Value:  16,
			Usage:  "workgroup tile size when the render target tracks the window",
			EnvVar: "OXYRT_TILE",
		},
		cli.IntFlag{
			Name:   "width",
			Usage:  "fixed render target width (with --height)",
			EnvVar: "OXYRT_WIDTH",
		},
		cli.IntFlag{
			Name:   "height",
			Usage:  "fixed render target height (with --width)",
			EnvVar: "OXYRT_HEIGHT",
		},
		cli.StringFlag{
			Name:   "scheduler",
			Value:  "default",
			Usage:  "completion tracking strategy: default or bench",
			EnvVar: "OXYRT_SCHEDULER",
		},
		cli.StringFlag{
			Name:   "chart",
			Usage:  "write the bench latency chart to this PNG file",
			EnvVar: "OXYRT_CHART",
		},
		cli.StringFlag{
			Name:   "metrics-addr",
			Usage:  "serve Prometheus metrics on this address, e.g. :9090",
			EnvVar: "OXYRT_METRICS_ADDR",
		},
		cli.Float64Flag{
			Name:   "timestamp-period",
			Value:  1.0,
			Usage:  "nanoseconds per GPU timestamp tick",
			EnvVar: "OXYRT_TIMESTAMP_PERIOD",
		},
		cli.BoolFlag{
			Name:   "profile",
			Usage:  "log fps and memory once per second",
			EnvVar: "OXYRT_PROFILE",
		},
		cli.BoolFlag{
			Name:   "no-vsync",
			Usage:  "present immediately when the surface supports it",
			EnvVar: "OXYRT_NO_VSYNC",
		},
		cli.StringFlag{
			Name:   "log-level",
			Value:  "info",
			Usage:  "debug, info, warn or error",
			EnvVar: "OXYRT_LOG_LEVEL",
		},
		cli.StringFlag{
			Name:   "log-format",
			Value:  "console",
			Usage:  "console or json",
			EnvVar: "OXYRT_LOG_FORMAT",
		},
		cli.StringFlag{
			Name:   "title",
			Value:  "oxy-rt",
			Usage:  "window title",
			EnvVar: "OXYRT_TITLE",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "oxy-rt: %v\n", err)
		os.Exit(1)
	}
}
