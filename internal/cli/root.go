// Package cli implements the storefront command line.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tair/storefront/pkg/config"
	"github.com/tair/storefront/pkg/logger"
)

// RootOptions holds global flags for all commands
type RootOptions struct {
	SeedFile string
	Format   string // "json" | "text"
}

// ValidFormats defines the allowed output formats
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the storefront CLI
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "storefront",
		Short:         "Storefront catalog, order ledger and admin analytics",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.SeedFile, "seed", "", "seed file (default: embedded seed, or SEED_FILE)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))

	return cmd
}

// loadConfig reads the environment and initializes logging for a command
func loadConfig(opts *RootOptions) *config.Config {
	cfg := config.Load()
	if opts.SeedFile != "" {
		cfg.SeedFile = opts.SeedFile
	}

	logger.Init(cfg.ServiceName, cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)
	return cfg
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
