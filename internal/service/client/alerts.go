package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/oshokin/alarm-bridge/internal/config"
	"github.com/oshokin/alarm-bridge/internal/logger"
	"github.com/oshokin/alarm-bridge/internal/repository/tray"
)

// AlertsOptions configures the tray commands.
type AlertsOptions struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
	// Output receives the table; defaults to stdout.
	Output io.Writer
}

// errInvalidAlertID is returned for negative alert ids.
var errInvalidAlertID = errors.New("invalid alert id")

// ListAlerts prints the posted alerts as a table.
func ListAlerts(ctx context.Context, opts *AlertsOptions) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	alerts, err := tray.NewFileRepository(cfg.TrayFile).List(ctx)
	if err != nil {
		return fmt.Errorf("list alerts: %w", err)
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(output(opts.Output))
	tw.AppendHeader(table.Row{"ID", "Title", "Body", "Flags", "Posted"})

	for _, alert := range alerts {
		posted := ""
		if !alert.PostedAt.IsZero() {
			posted = alert.PostedAt.Format(time.RFC3339)
		}

		tw.AppendRow(table.Row{alert.ID, alert.Title, alert.Body, alert.Flags.String(), posted})
	}

	tw.Render()

	return nil
}

// DismissAlert removes the alert with the given id from the tray.
// Ongoing alerts cannot be swiped away, so this is the only way to clear them.
func DismissAlert(ctx context.Context, opts *AlertsOptions, id int) error {
	ctx = logger.WithName(ctx, "alarm-ctl")

	if id < 0 {
		return fmt.Errorf("%w: %d", errInvalidAlertID, id)
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	if err = tray.NewFileRepository(cfg.TrayFile).Remove(ctx, id); err != nil {
		return fmt.Errorf("dismiss alert: %w", err)
	}

	logger.InfoKV(ctx, "Alert dismissed", "alert_id", id)

	return nil
}
