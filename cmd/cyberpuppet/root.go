package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ayusman/cyberpuppet/internal/config"
	"github.com/ayusman/cyberpuppet/internal/logging"
)

// globals is the state shared by every subcommand after setup.
type globals struct {
	cfg config.Config
	log zerolog.Logger

	verbose   bool
	logLevel  string
	logFormat string
}

func newRootCommand() *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:     "cyberpuppet",
		Short:   "Puppeteer a 3D character with hand gestures",
		Version: version,
		Long: `Cyber Puppet watches your hand through the webcam, recognises a small
set of gestures and makes an on-screen puppet jump, spin, wave and clap
in response. The puppet is served as a web page on a local address.

Settings come from CYBERPUPPET_* environment variables (and .env files);
flags override them.`,
		PersistentPreRunE: g.setup,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	root.PersistentFlags().StringVar(&g.logFormat, "log-format", "", "log format: auto, console, json")
	root.SetVersionTemplate("cyberpuppet {{.Version}}\n")

	root.AddCommand(
		newServeCommand(g),
		newReplayCommand(g),
		newGesturesCommand(),
	)
	return root
}

func (g *globals) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	switch {
	case g.logLevel != "":
		cfg.LogLevel = g.logLevel
	case g.verbose:
		cfg.LogLevel = "debug"
	}
	if g.logFormat != "" {
		cfg.LogFormat = g.logFormat
	}

	lc := logging.DefaultConfig()
	lc.Level = cfg.LogLevel
	lc.Format = cfg.LogFormat
	g.log = logging.New(lc)
	logging.SetDefault(g.log)

	g.cfg = cfg
	cmd.SetContext(logging.WithLogger(cmd.Context(), g.log))
	return nil
}
