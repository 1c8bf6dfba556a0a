package main

import (
	"fmt"
	"log/slog"
	"os"

	"git.sr.ht/~spc/go-log"
	"github.com/urfave/cli/v2"

	"github.com/redhatinsights/propmerge/internal/conf"
	"github.com/redhatinsights/propmerge/internal/l10n"
)

// Version is set at build time.
var Version = "dev"

const (
	metadataConfig = "config"
	metadataLogger = "logger"
)

func main() {
	log.SetFlags(0)

	if err := newApp().Run(os.Args); err != nil {
		log.Fatalf("%v", err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:                 "propmerge",
		Version:              Version,
		Usage:                l10n.T("merge external property files into a property namespace"),
		EnableBashCompletion: true,
		DefaultCommand:       "merge",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: conf.DefaultPath,
				Usage: l10n.T("read configuration from `FILE`"),
			},
			&cli.StringFlag{
				Name:  "drop-in-dir",
				Value: conf.DefaultDropInDir,
				Usage: l10n.T("read drop-in configuration files from `DIR`"),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: l10n.T("set log `LEVEL` (error, warn, info, debug), overriding the configuration"),
			},
		},
		Before: beforeAction,
		Commands: []*cli.Command{
			mergeCommand(),
			slotsCommand(),
		},
	}
}

// beforeAction reads the layered configuration and sets up logging for
// every command.
func beforeAction(c *cli.Context) error {
	cs := &conf.ConfigSource{
		Path:      c.String("config"),
		DropInDir: c.String("drop-in-dir"),
	}
	config, err := cs.Read()
	if err != nil {
		return cli.Exit(fmt.Errorf(l10n.T("cannot read configuration: %w"), err), 1)
	}

	level := config.LogLevel
	if c.IsSet("log-level") {
		level, err = parseLogLevel(c.String("log-level"))
		if err != nil {
			return cli.Exit(err, 1)
		}
	}

	c.App.Metadata[metadataConfig] = config
	c.App.Metadata[metadataLogger] = slog.New(newGoLogHandler(level))
	return nil
}

func appConfig(c *cli.Context) conf.Config {
	return c.App.Metadata[metadataConfig].(conf.Config)
}

func appLogger(c *cli.Context) *slog.Logger {
	return c.App.Metadata[metadataLogger].(*slog.Logger)
}
