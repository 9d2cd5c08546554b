// Package cli implements the value-helper command line: the HTTP server and a
// terminal price comparison that can export, share or download the snapshot image.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"value-helper/config"
	"value-helper/logging"
)

// options are the persistent flags shared by every command
type options struct {
	configPath string
	logLevel   string
	backend    string

	cfg *config.Config
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "value-helper",
		Short:         "Compare unit prices and share the best deal as an image",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", config.PathFromEnv(), "Path to the YAML config file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&opts.backend, "backend", "", "Snapshot backend: auto, chrome, software")

	root.AddCommand(
		newServeCmd(opts),
		newCompareCmd(opts),
		newCategoriesCmd(opts),
	)
	return root
}

// load reads the config file and applies flag overrides
func (o *options) load() error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if o.backend != "" {
		cfg.Render.Backend = o.backend
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	logging.SetupWithLevel(logging.ParseLevel(cfg.Logging.Level))
	o.cfg = cfg
	return nil
}

// Execute runs the CLI. SIGINT and SIGTERM cancel the command context, which stops the
// server or dismisses a pending render.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}
