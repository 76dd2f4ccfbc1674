// Package main is the entry point for sshlm, a line-mode wrapper for
// interactive ssh sessions.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/sshlm/internal/app"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	cmd := newRootCmd(func(opts app.Options) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
		defer stop()

		application, err := app.New(opts)
		if err != nil {
			return err
		}
		return application.Run(ctx)
	})

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// flags holds the command line flags that override settings.
type flags struct {
	configPath string
	password   string
	logLevel   string
	logFile    string
	command    string
}

// newRootCmd builds the command line. start receives the parsed options.
func newRootCmd(start func(app.Options) error) *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "sshlm [flags] <destination> [-- extra ssh args]",
		Short: "Line-mode terminal for interactive ssh sessions",
		Long: `sshlm runs ssh on a pseudo-terminal and relays your keystrokes to it.

Press Ctrl+] to switch to line mode, where a whole line is edited locally and
sent when you press Enter. Press Ctrl+] again to go back to passing every key
through. Ctrl+\ asks whether to end the session.`,
		Example: `  sshlm user@example.com
  sshlm -c ~/sshlm.yaml example.com -- -p 2222
  sshlm --command bash localhost`,
		Args:          cobra.MinimumNArgs(1),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options(cmd, args)
			if err != nil {
				return err
			}
			return start(opts)
		},
	}
	cmd.SetVersionTemplate(fmt.Sprintf("sshlm %s\nCommit: %s\nBuilt: %s\n", version, commit, date))

	fl := cmd.Flags()
	fl.StringVarP(&f.configPath, "config", "c", "", "config file (default is $XDG_CONFIG_HOME/sshlm/config.toml)")
	fl.StringVar(&f.password, "password", "", "password to type when the session asks for one")
	fl.StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	fl.StringVar(&f.logFile, "log-file", "", `log file, or "off"`)
	fl.StringVar(&f.command, "command", "", `transport command the destination is appended to (default "ssh -t")`)

	return cmd
}

// options turns the parsed command line into application options.
func (f *flags) options(cmd *cobra.Command, args []string) (app.Options, error) {
	opts := app.Options{
		ConfigPath:  f.configPath,
		Destination: args[0],
		Args:        args[1:],
		Password:    f.password,
	}

	fl := cmd.Flags()
	if fl.Changed("log-level") {
		opts.Settings = append(opts.Settings, app.Setting{Path: "logging.level", Value: f.logLevel})
	}
	if fl.Changed("log-file") {
		opts.Settings = append(opts.Settings, app.Setting{Path: "logging.file", Value: f.logFile})
	}
	if fl.Changed("command") {
		command := strings.Fields(f.command)
		if len(command) == 0 {
			return app.Options{}, fmt.Errorf("--command must name a program")
		}
		opts.Settings = append(opts.Settings, app.Setting{Path: "session.command", Value: command})
	}
	return opts, nil
}
