package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/alarm-bridge/internal/config"
	domain "github.com/oshokin/alarm-bridge/internal/domain/alarm"
	"github.com/oshokin/alarm-bridge/internal/logger"
	"github.com/oshokin/alarm-bridge/internal/service/client"
	"github.com/oshokin/alarm-bridge/internal/version"
)

var (
	// cfgPath stores the configuration file path.
	cfgPath string
	// serverAddress overrides the configured bridge address.
	serverAddress string
	// logLevel overrides the log level.
	logLevel string

	// rootCmd represents the base command of the control client.
	rootCmd = &cobra.Command{
		Use:   "alarm-ctl",
		Short: "Send commands to the alarm bridge and inspect its state.",
		Long: `Control client for the alarm bridge.

Channel commands are sent to a running alarm-bridge and print true or false.
The intent command reads what the host surface was opened for, and the alerts
commands inspect and clear posted alerts.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return logger.Configure(logLevel)
		},
	}
)

// Execute runs the alarm-ctl CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// channelCommand builds a subcommand that sends one argument-free command.
func channelCommand(use, short string, command domain.Command) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChannel(cmd, &client.Options{Command: command})
		},
	}
}

func alarmCommand() *cobra.Command {
	var (
		destination string
		distance    float64
	)

	cmd := &cobra.Command{
		Use:   "alarm",
		Short: "Fire a full-screen alarm.",
		Long: `Fires a full-screen alarm through the bridge.

Without flags the bridge uses its defaults ("Destino", 0 meters).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := &client.Options{Command: domain.CommandShowFullScreenAlarm}

			if cmd.Flags().Changed("destination") {
				opts.Destination = &destination
			}

			if cmd.Flags().Changed("distance") {
				opts.DistanceMeters = &distance
			}

			return runChannel(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&destination, "destination", "", "destination name shown in the alert")
	cmd.Flags().Float64Var(&distance, "distance", 0, "remaining distance in meters")

	return cmd
}

func invokeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "invoke <method>",
		Short: "Send a raw channel method without arguments.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChannel(cmd, &client.Options{Command: domain.Command(args[0])})
		},
	}
}

func intentCommand() *cobra.Command {
	var keep bool

	cmd := &cobra.Command{
		Use:   "intent",
		Short: "Report and consume the pending launch payload and restart directive.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := client.ReadIntent(cmd.Context(), &client.IntentOptions{
				ConfigPath: cfgPath,
				Keep:       keep,
				Output:     cmd.OutOrStdout(),
			})

			return err
		},
	}

	cmd.Flags().BoolVar(&keep, "keep", false, "leave the payloads in place")

	return cmd
}

func alertsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "alerts",
		Short: "List posted alerts.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return client.ListAlerts(cmd.Context(), &client.AlertsOptions{
				ConfigPath: cfgPath,
				Output:     cmd.OutOrStdout(),
			})
		},
	}
}

func dismissCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dismiss [alert-id]",
		Short: "Dismiss a posted alert (the alarm alert by default).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := domain.AlertID

			if len(args) > 0 {
				parsed, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("parse alert id: %w", err)
				}

				id = parsed
			}

			return client.DismissAlert(cmd.Context(), &client.AlertsOptions{ConfigPath: cfgPath}, id)
		},
	}
}

func runChannel(cmd *cobra.Command, opts *client.Options) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	opts.ConfigPath = cfgPath
	opts.ServerAddress = serverAddress
	opts.Output = cmd.OutOrStdout()

	return client.Run(ctx, opts)
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	flags.StringVarP(&serverAddress, "server", "s", "", "bridge address override")
	flags.StringVarP(&logLevel, "log-level", "l", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		channelCommand("can-schedule", "Check whether exact alarms may be scheduled.", domain.CommandCanScheduleExactAlarms),
		channelCommand("open-settings", "Open the exact alarm permission settings.", domain.CommandOpenAlarmPermissionSettings),
		channelCommand("front", "Bring the host application to the foreground.", domain.CommandBringToFront),
		alarmCommand(),
		invokeCommand(),
		intentCommand(),
		alertsCommand(),
		dismissCommand(),
	)
}
