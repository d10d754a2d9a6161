package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/dshills/menuconf/internal/app"
)

// cli holds the flags shared by every command.
type cli struct {
	opts app.Options
}

func newCLI() *cli {
	return &cli{}
}

// rootCommand creates the command tree. Without a subcommand the menu runs.
func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "menuconf",
		Short: "Browse and edit typed settings in the terminal",
		Long: `menuconf shows a registry of typed settings grouped into sections.
Values are stepped with the arrow keys, edited inline or picked from a
list, and saved to a values file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          c.runMenu,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&c.opts.ConfigPath, "config", "c", "", "preferences file (TOML)")
	flags.StringVar(&c.opts.ValuesPath, "values", "", "values file (default: user config dir)")
	flags.StringVar(&c.opts.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&c.opts.LogFile, "log-file", "", "write logs to this file")
	flags.StringVar(&c.opts.Language, "lang", "", "label language, e.g. de-DE")
	flags.BoolVar(&c.opts.Watch, "watch", true, "reload the preferences file while the menu is open")

	root.AddCommand(
		c.runCommand(),
		c.dumpCommand(),
		c.getCommand(),
		c.findCommand(),
		c.setCommand(),
		c.resetCommand(),
		versionCommand(),
	)
	return root
}

// open creates the application for one command. Non-interactive commands
// log to stderr unless a log file is set.
func (c *cli) open(cmd *cobra.Command, logOutput io.Writer) (*app.Application, error) {
	opts := c.opts
	if logOutput == nil {
		logOutput = cmd.ErrOrStderr()
	}
	opts.LogOutput = logOutput
	return app.New(opts)
}
