package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/deskclock/internal/config"
	"github.com/oshokin/deskclock/internal/service/clockcore"
	"github.com/oshokin/deskclock/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string

	// rootCmd represents the base command for running the timekeeping daemon.
	rootCmd = &cobra.Command{
		Use:   "deskclock",
		Short: "Run the deskclock timekeeping daemon.",
		Long: `Starts the deskclock daemon: a wall-clock alarm scheduler, a pausable
stopwatch and a one-shot countdown timer running as background activity.

Alarms are provisioned from the settings YAML file and fire at most once
per matching minute. Matched alarms and finished timers are handed off to
sound, voice and notification collaborators without blocking the clock.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return clockcore.Run(ctx, &clockcore.Options{
				ConfigPath: configPath,
			})
		},
	}
)

// Execute runs the deskclock CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)
	attachAutostartCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
}
