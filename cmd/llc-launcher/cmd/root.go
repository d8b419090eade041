package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/llc-launcher/internal/version"
)

var (
	// configDir overrides the directory holding config.yaml.
	configDir string
	// logLevel overrides the configured console log level.
	logLevel string
	// skipSelfUpdate disables the self-update handoff for this run.
	skipSelfUpdate bool

	// rootCmd updates the localization and starts the game.
	rootCmd = &cobra.Command{
		Use:          "llc-launcher",
		Short:        "Keep the Limbus Company localization up to date and start the game",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return run(ctx, false)
		},
	}

	// updateCmd only installs or updates the localization.
	updateCmd = &cobra.Command{
		Use:          "update",
		Short:        "Install or update the localization without starting the game",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return run(ctx, true)
		},
	}
)

// Execute runs the llc-launcher CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)
	rootCmd.AddCommand(updateCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().StringVarP(&configDir, "config", "c", "", "directory holding config.yaml (defaults to the user config directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "console log level: debug, info, warn or error")
	rootCmd.Flags().BoolVar(&skipSelfUpdate, "skip-self-update", false, "do not check for a newer launcher")
}
