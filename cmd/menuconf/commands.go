package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/dshills/menuconf/internal/app"
	"github.com/dshills/menuconf/internal/registry"
	"github.com/dshills/menuconf/internal/search"
	"github.com/dshills/menuconf/internal/setting"
	"github.com/dshills/menuconf/internal/store"
)

var errNoTerminal = errors.New("the menu needs an interactive terminal")

func (c *cli) runCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Open the settings menu",
		Args:  cobra.NoArgs,
		RunE:  c.runMenu,
	}
}

func (c *cli) runMenu(cmd *cobra.Command, _ []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNoTerminal
	}

	// The screen owns the terminal; logs go to --log-file or nowhere.
	application, err := c.open(cmd, io.Discard)
	if err != nil {
		return err
	}
	defer application.Shutdown()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return application.Run(ctx, screen)
}

func (c *cli) dumpCommand() *cobra.Command {
	var format, group string
	var modified bool

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print every setting",
		Long: `Print every setting with its current value.

Formats: text (a table), yaml (full descriptions) and toml (the values
file format).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := c.open(cmd, nil)
			if err != nil {
				return err
			}
			defer application.Shutdown()

			reg := application.Registry()
			out := cmd.OutOrStdout()
			if format == "toml" {
				data, err := store.Marshal(store.Snapshot(reg, modified))
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			}

			views := filterViews(reg.Describe(nil), group, modified)
			switch format {
			case "text":
				return writeTable(out, views)
			case "yaml":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(views); err != nil {
					return err
				}
				return enc.Close()
			default:
				return fmt.Errorf("unknown format %q", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, yaml, toml")
	cmd.Flags().StringVarP(&group, "group", "g", "", "only this group")
	cmd.Flags().BoolVarP(&modified, "modified", "m", false, "only values that differ from the default")
	return cmd
}

func filterViews(views []registry.View, group string, modified bool) []registry.View {
	out := views[:0]
	for _, v := range views {
		if group != "" && v.Group != group {
			continue
		}
		if modified && !v.Modified {
			continue
		}
		out = append(out, v)
	}
	return out
}

func writeTable(w io.Writer, views []registry.View) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tGROUP\tKIND\tVALUE")
	for _, v := range views {
		mark := ""
		if v.Modified {
			mark = " *"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s%s\n", v.Name, v.Group, v.Kind, v.Value, mark)
	}
	return tw.Flush()
}

func (c *cli) getCommand() *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "get <name>...",
		Short: "Print settings by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := c.open(cmd, nil)
			if err != nil {
				return err
			}
			defer application.Shutdown()

			for _, name := range args {
				v, err := application.View(name)
				if err != nil {
					return err
				}
				value := v.Value
				if raw {
					value = v.Raw
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", name, value)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print the canonical value instead of the display text")
	return cmd
}

func (c *cli) findCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "find <query>",
		Short: "Search settings by name or label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := c.open(cmd, nil)
			if err != nil {
				return err
			}
			defer application.Shutdown()

			hits := search.New(search.DefaultWeights()).Find(application.Registry(), args[0], limit)
			if len(hits) == 0 {
				return fmt.Errorf("%w: nothing matches %q", app.ErrUnknownSetting, args[0])
			}
			env := application.Env()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, h := range hits {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", h.Setting.Name, h.Setting.Label, setting.Stringify(env, h.Setting))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "show at most this many settings, 0 for all")
	return cmd
}

func (c *cli) setCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <name> <value>",
		Short: "Change a setting and save it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := c.open(cmd, nil)
			if err != nil {
				return err
			}
			defer application.Shutdown()

			if err := application.Set(args[0], args[1]); err != nil {
				return err
			}
			return saveAndShow(cmd, application, args[0])
		},
	}
}

func (c *cli) resetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <name>",
		Short: "Restore a setting to its default and save it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := c.open(cmd, nil)
			if err != nil {
				return err
			}
			defer application.Shutdown()

			if err := application.Reset(args[0]); err != nil {
				return err
			}
			return saveAndShow(cmd, application, args[0])
		},
	}
}

func saveAndShow(cmd *cobra.Command, application *app.Application, name string) error {
	if err := application.Save(); err != nil {
		return err
	}
	v, err := application.View(name)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", name, v.Value)
	return nil
}

func versionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			detailed, _ := cmd.Flags().GetBool("detailed")
			if detailed {
				fmt.Fprintf(cmd.OutOrStdout(), "menuconf %s (commit %s, built %s)\n", version, commit, date)
				return
			}
			fmt.Fprintf(cmd.OutOrStdout(), "menuconf %s\n", version)
		},
	}
	cmd.Flags().Bool("detailed", false, "Show detailed version information")
	return cmd
}
