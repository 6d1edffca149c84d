// Package cli implements the shop command line.
package cli

import (
	"log/slog"
	"os"

	"shop/internal/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RootOptions holds global flags and the configuration loaded from them.
type RootOptions struct {
	ConfigFile string
	Config     config.Config
}

// NewRootCommand creates the root command for the shop CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "shop",
		Short:         "Commerce backend with Stripe checkout",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(viper.New(), opts.ConfigFile)
			if err != nil {
				return err
			}
			opts.Config = cfg
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "path to a config file (yaml, json, toml or env)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewPromoteCommand(opts))

	return cmd
}
