// Command raster2sensor manages wheat-trial plots in an OGC SensorThings
// API and drives OGC API Processes workflows around them.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/phenocover/raster2sensor/internal/logging"
)

var version = "dev"

var (
	logLevelFlag = &cli.StringFlag{
		Name:  "log-level",
		Usage: "Log level (debug, info, warn, error)",
		Value: "info",
	}
	logDirFlag = &cli.StringFlag{
		Name:  "log-dir",
		Usage: "Directory for rotated log files",
		Value: "./logs",
	}
	noFileLogFlag = &cli.BoolFlag{
		Name:  "no-file-log",
		Usage: "Disable log file output",
	}
	jsonLogFlag = &cli.BoolFlag{
		Name:  "json-log",
		Usage: "Emit JSON console logs instead of pretty output",
	}
	timeoutFlag = &cli.DurationFlag{
		Name:    "timeout",
		Aliases: []string{"t"},
		Usage:   "HTTP client timeout (e.g. 30s, 1m)",
		Value:   30 * time.Second,
	}
	tokenFlag = &cli.StringFlag{
		Name:  "token",
		Usage: "Bearer token for secured endpoints",
	}
)

func main() {
	cmd := &cli.Command{
		Name:    "raster2sensor",
		Usage:   "Manage trial plots and processing workflows on OGC SensorThings",
		Version: version,
		Flags: []cli.Flag{
			logLevelFlag, logDirFlag, noFileLogFlag, jsonLogFlag, timeoutFlag, tokenFlag,
		},
		Commands: []*cli.Command{
			newPlotsCommand(),
			newProcessesCommand(),
			newLogsCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loggerFromCommand builds the process logger from the global flags,
// optionally overridden by a loaded config's logging section.
func loggerFromCommand(cmd *cli.Command, override *logging.Config) (zerolog.Logger, error) {
	cfg := logging.DefaultConfig()
	if override != nil {
		cfg = *override
	}
	cfg.Level = logging.LogLevel(cmd.String(logLevelFlag.Name))
	if dir := cmd.String(logDirFlag.Name); dir != "" {
		cfg.Dir = dir
	}
	if cmd.Bool(noFileLogFlag.Name) {
		cfg.File = false
	}
	if cmd.Bool(jsonLogFlag.Name) {
		cfg.Pretty = false
	}
	return logging.Setup(cfg)
}

// newLogsCommand manages the on-disk log-file lifecycle.
func newLogsCommand() *cli.Command {
	return &cli.Command{
		Name:  "logs",
		Usage: "Manage log files",
		Commands: []*cli.Command{
			{
				Name:  "cleanup",
				Usage: "Remove log files older than the retention window",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "max-age",
						Usage: "Retention window for log files",
						Value: 30 * 24 * time.Hour,
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					removed, err := logging.CleanupOldLogs(cmd.String(logDirFlag.Name), cmd.Duration("max-age"))
					if err != nil {
						return err
					}
					fmt.Fprintf(os.Stderr, "Removed %d old log file(s)\n", len(removed))
					return nil
				},
			},
		},
	}
}
