package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/vonpupp/ord-plan/internal/commands"
	"github.com/vonpupp/ord-plan/internal/core/config"
	"github.com/vonpupp/ord-plan/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, build() falls back
	// to runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var logCloser func()

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "ord-plan",
		Usage:     "Generate recurring events into a hierarchical outline file",
		UsageText: "ord-plan [global options] command [command options]",
		Description: `ord-plan expands cron-style event rules over a date range and writes the
result into an outline file organized Year > Week > Date > Events.

Existing content in the target file is preserved across runs: events you
edited by hand stay untouched and new occurrences are appended under the
matching date heading.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("ORD_PLAN_LOG_LEVEL"),
				Value:       "warn",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to stderr)",
				Sources:     cli.EnvVars("ORD_PLAN_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("ORD_PLAN_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, closer, err := logutils.New(flags.LogLevel, flags.LogFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	app = commands.NewGenerateCmd(flags).Register(app)
	app = commands.NewValidateCmd(flags).Register(app)

	exitCode := 0
	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
