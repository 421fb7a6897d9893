package client

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/oshokin/alarm-bridge/internal/config"
	domain "github.com/oshokin/alarm-bridge/internal/domain/alarm"
	"github.com/oshokin/alarm-bridge/internal/logger"
	"github.com/oshokin/alarm-bridge/internal/service/common"
)

// Options configures a single command sent to the bridge.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
	// ServerAddress overrides server address from config when specified.
	ServerAddress string
	// Command is the channel command to send.
	Command domain.Command
	// Destination is the optional alarm destination.
	Destination *string
	// DistanceMeters is the optional alarm distance.
	DistanceMeters *float64
	// Output receives the boolean result; defaults to stdout.
	Output io.Writer
}

// Run sends the command and prints its boolean result.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "alarm-ctl")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	serverAddress := cfg.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	client, err := common.Dial(ctx, serverAddress, common.WithCallTimeout(cfg.Timeout))
	if err != nil {
		return err
	}

	defer func() {
		_ = client.Close()
	}()

	logger.DebugKV(ctx, "Sending command", "server_address", serverAddress, "method", string(opts.Command))

	var result bool

	switch opts.Command {
	case domain.CommandCanScheduleExactAlarms:
		result, err = client.CanScheduleExactAlarms(ctx)
	case domain.CommandOpenAlarmPermissionSettings:
		result, err = client.OpenAlarmPermissionSettings(ctx)
	case domain.CommandBringToFront:
		result, err = client.BringToFront(ctx)
	case domain.CommandShowFullScreenAlarm:
		result, err = client.ShowFullScreenAlarm(ctx, opts.Destination, opts.DistanceMeters)
	default:
		result, err = client.Invoke(ctx, opts.Command, nil)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(output(opts.Output), strconv.FormatBool(result))

	return err
}

func output(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}

	return w
}
