package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/oshokin/alarm-bridge/internal/config"
	domain "github.com/oshokin/alarm-bridge/internal/domain/alarm"
	"github.com/oshokin/alarm-bridge/internal/logger"
	"github.com/oshokin/alarm-bridge/internal/repository/launch"
)

// IntentOptions configures the launch intent reader.
type IntentOptions struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
	// Keep leaves the pending payloads in place instead of consuming them.
	Keep bool
	// Output receives the report; defaults to stdout.
	Output io.Writer
}

// Intent is what the host surface learns when it opens.
type Intent struct {
	// Alarm is set when the surface was opened by a fired alarm.
	Alarm *domain.LaunchPayload
	// Restart is set when alarms must be reloaded after a reboot.
	Restart *domain.LaunchPayload
}

// ReadIntent consumes the pending launch payload and restart directive and prints them.
func ReadIntent(ctx context.Context, opts *IntentOptions) (*Intent, error) {
	ctx = logger.WithName(ctx, "alarm-ctl")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	intent := new(Intent)

	payload, err := pending(ctx, launch.NewFileRepository(cfg.PayloadFile), opts.Keep)
	if err != nil {
		return nil, fmt.Errorf("read launch payload: %w", err)
	}

	// A plain launcher start carries nothing the host must react to.
	if payload.IsAlarm() {
		intent.Alarm = payload
	}

	directive, err := pending(ctx, launch.NewFileRepository(cfg.DirectiveFile), opts.Keep)
	if err != nil {
		return nil, fmt.Errorf("read restart directive: %w", err)
	}

	if directive.IsRestart() {
		intent.Restart = directive
	}

	logger.DebugKV(ctx, "Launch intent read",
		"opened_by_alarm", intent.Alarm != nil,
		"restarted_after_boot", intent.Restart != nil,
	)

	if err = intent.write(output(opts.Output)); err != nil {
		return nil, err
	}

	return intent, nil
}

func pending(ctx context.Context, repo *launch.FileRepository, keep bool) (*domain.LaunchPayload, error) {
	var (
		payload *domain.LaunchPayload
		err     error
	)

	if keep {
		payload, err = repo.Load(ctx)
	} else {
		payload, err = repo.Take(ctx)
	}

	if errors.Is(err, launch.ErrNotFound) {
		return nil, nil //nolint:nilnil // Nothing pending is a normal launch.
	}

	return payload, err
}

// write prints one key: value pair per line.
func (i *Intent) write(w io.Writer) error {
	lines := [][2]string{
		{"opened_by_alarm", strconv.FormatBool(i.Alarm != nil)},
	}

	if i.Alarm != nil {
		lines = append(lines,
			[2]string{"destination", i.Alarm.Destination},
			[2]string{"distance_meters", strconv.FormatFloat(i.Alarm.DistanceMeters, 'f', -1, 64)},
			[2]string{"alarm_issued_at", i.Alarm.IssuedAt.Format(time.RFC3339)},
		)
	}

	lines = append(lines, [2]string{"restarted_after_boot", strconv.FormatBool(i.Restart != nil)})

	if i.Restart != nil {
		lines = append(lines, [2]string{"restart_issued_at", i.Restart.IssuedAt.Format(time.RFC3339)})
	}

	for _, line := range lines {
		if _, err := fmt.Fprintf(w, "%s: %s\n", line[0], line[1]); err != nil {
			return fmt.Errorf("write intent: %w", err)
		}
	}

	return nil
}
