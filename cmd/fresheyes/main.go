package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/holon-run/fresheyes/pkg/config"
	"github.com/holon-run/fresheyes/pkg/log"
	"github.com/holon-run/fresheyes/pkg/ui"
)

var (
	configPath string
	logLevel   string
	logFormat  string
	noColor    bool
)

// skipConfigLoad marks commands that run before a config file exists.
const skipConfigLoad = "fresheyes/skip-config-load"

// cfg is the effective configuration, loaded before any command runs.
var cfg = config.Default()

var rootCmd = &cobra.Command{
	Use:   "fresheyes [<owner> <repo> <pull-number>]",
	Short: "Mirror a GitHub pull request into your fork for a fresh review",
	Long: `fresheyes forks the repository a pull request belongs to, recreates the
pull request's base and head branches in the fork and opens the same pull
request there.

Called with three arguments it behaves like "fresheyes mirror".`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != 3 {
			return fmt.Errorf("expected <owner> <repo> <pull-number>, got %d argument(s)", len(args))
		}
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[skipConfigLoad] == "" {
			loaded, err := config.LoadFromCurrentDir(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}

		level, _ := cfg.ResolveLogLevel(logLevel)
		format, _ := cfg.ResolveLogFormat(logFormat)
		if err := log.Setup(level, format); err != nil {
			return err
		}
		if cfg.Path() != "" {
			log.Debug("loaded config", "path", cfg.Path())
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runMirror(cmd, args)
	},
}

func newPrinter(cmd *cobra.Command) *ui.Printer {
	return ui.NewPrinter(cmd.OutOrStdout(), !noColor)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: .fresheyes/config.yaml in this or a parent directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: console, json")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable coloured output")
	addMirrorFlags(rootCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	_ = log.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
