package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rickgao/market-pricer/internal/config"
)

// options are the persistent flags shared by every command.
type options struct {
	configPath string
	envFile    string
	logLevel   string
	logFormat  string
}

// newRootCmd builds the command tree. The returned cleanup ends any session a
// command started and must run after Execute.
func newRootCmd(in io.Reader, out, errOut io.Writer) (*cobra.Command, func()) {
	opts := &options{}
	var a *app

	root := &cobra.Command{
		Use:   "pricer",
		Short: "Competitive price adjustment for warframe.market listings",
		Long: `pricer signs in to warframe.market, compares each of your visible listings
with the online competition and recommends (or applies) a better price.

Run without a subcommand for the interactive menu.

Credentials are read from PRICER_EMAIL, PRICER_PASSWORD and PRICER_DEVICE_ID,
optionally loaded from a .env file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadAndValidate(opts.configPath)
			if err != nil {
				return err
			}
			if opts.envFile != "" {
				cfg.Session.EnvFile = opts.envFile
			}
			if opts.logLevel != "" {
				cfg.Logging.Level = opts.logLevel
			}
			if opts.logFormat != "" {
				cfg.Logging.Format = opts.logFormat
			}

			logger, err := newLogger(errOut, cfg.Logging)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			a = newApp(cfg, logger, in, out)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(cmd.Context(), a)
		},
	}

	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "configs/pricer.yaml", "path to config file (missing file uses defaults)")
	flags.StringVar(&opts.envFile, "env-file", "", "credentials file (default from config)")
	flags.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")
	flags.StringVar(&opts.logFormat, "log-format", "", "text or json")

	appFn := func() *app { return a }
	root.AddCommand(
		newAdjustCmd(appFn),
		newStatusCmd(appFn),
		newOrdersCmd(appFn),
		newMarketCmd(appFn),
		newVersionCmd(),
	)

	cleanup := func() {
		if a != nil {
			a.close()
		}
	}
	return root, cleanup
}

// newLogger builds the process logger. Logs go to w so stdout stays
// reserved for reports.
func newLogger(w io.Writer, cfg config.LoggingConfig) (*slog.Logger, error) {
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	hopts := &slog.HandlerOptions{Level: level}

	switch cfg.Format {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, hopts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, hopts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
}
