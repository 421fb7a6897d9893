package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/alarm-bridge/internal/config"
	"github.com/oshokin/alarm-bridge/internal/service/server"
	"github.com/oshokin/alarm-bridge/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// logLevel overrides the configured log level.
	logLevel string

	// rootCmd represents the base command for running the command channel.
	rootCmd = &cobra.Command{
		Use:   "alarm-bridge [listen-address]",
		Short: "Run the alarm command channel and deliver full-screen alarms.",
		Long: `Starts the gRPC command channel the host application uses to deliver alarms.

The channel answers canScheduleExactAlarms, openAlarmPermissionSettings,
bringToFront and showFullScreenAlarm. Alarms are posted to the tray under a
fixed id, so a repeated alarm replaces the previous one, and the host surface
is launched with a tagged payload.

Only the port from ServerAddress config is used for listening (e.g., :7000).
Listen address can be provided as argument to override config.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			return server.Run(ctx, &server.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
				LogLevel:      logLevel,
			})
		},
	}
)

// Execute runs the alarm-bridge CLI and exits with non-zero status on error.
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
