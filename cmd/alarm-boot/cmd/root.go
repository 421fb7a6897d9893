package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/oshokin/alarm-bridge/internal/config"
	"github.com/oshokin/alarm-bridge/internal/service/boot"
	"github.com/oshokin/alarm-bridge/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// logLevel overrides the configured log level.
	logLevel string

	// rootCmd represents the boot recovery command.
	rootCmd = &cobra.Command{
		Use:   "alarm-boot",
		Short: "Stage the alarm reload directive after a reboot.",
		Long: `Handles the device restart signal once per boot.

Exact timers do not survive a reboot. This command stages a launch directive
tagged RESTARTED_AFTER_BOOT so the host application reloads its pending alarms
the next time it opens. It never starts the application itself.

Run it from the init system after login. It always exits with status 0;
problems are only logged.`,
		Args: cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			boot.Run(context.Background(), &boot.Options{
				ConfigPath: configPath,
				LogLevel:   logLevel,
			})
		},
	}
)

// Execute runs the alarm-boot CLI.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "", "log level override (debug, info, warn, error)")
}
