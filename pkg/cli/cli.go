package cli

import (
	"context"
	"io"
	"os"

	"github.com/secmon-lab/docdesk/pkg/cli/config"
	"github.com/secmon-lab/docdesk/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func Run(ctx context.Context, args []string, version string) error {
	if err := config.LoadEnvFile(os.Getenv("DOCDESK_ENV_FILE")); err != nil {
		return err
	}

	app := newApp(version, os.Stdout, os.Stderr)
	if err := app.Run(ctx, args); err != nil {
		logging.Default().Error("failed to run app", "error", err)
		return err
	}

	return nil
}

func newApp(version string, out, errOut io.Writer) *cli.Command {
	var loggerCfg config.Logger
	var sentryCfg config.Sentry
	var remoteCfg config.Remote
	var closers []func()

	flags := loggerCfg.Flags()
	flags = append(flags, sentryCfg.Flags()...)
	flags = append(flags, remoteCfg.Flags()...)

	return &cli.Command{
		Name:      "docdesk",
		Usage:     "Console client for sources, model configs and documents of the knowledge service",
		Version:   version,
		Flags:     flags,
		Writer:    out,
		ErrWriter: errOut,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			closeLog, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closers = append(closers, closeLog)

			flush, err := sentryCfg.Configure(version)
			if err != nil {
				return ctx, err
			}
			closers = append(closers, flush)

			logging.Default().Debug("Starting docdesk",
				"logger", &loggerCfg,
				"sentry", &sentryCfg,
				"remote", &remoteCfg)
			return logging.With(ctx, logging.Default()), nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdSource(&remoteCfg),
			cmdModel(&remoteCfg),
			cmdSections(&remoteCfg),
			cmdSearch(&remoteCfg),
		},
	}
}
