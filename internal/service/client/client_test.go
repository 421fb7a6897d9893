package client

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/alarm-bridge/internal/config"
	domain "github.com/oshokin/alarm-bridge/internal/domain/alarm"
	"github.com/oshokin/alarm-bridge/internal/repository/launch"
	"github.com/oshokin/alarm-bridge/internal/repository/tray"
)

// writeSettings saves a config pointing every file into a temp dir.
func writeSettings(t *testing.T) (string, *config.Config) {
	t.Helper()

	dir := t.TempDir()
	cfg := &config.Config{
		ServerAddress: "127.0.0.1:7002",
		PayloadFile:   filepath.Join(dir, "launch.json"),
		DirectiveFile: filepath.Join(dir, "restart.json"),
		TrayFile:      filepath.Join(dir, "tray.json"),
	}

	path := filepath.Join(dir, "settings.yaml")
	require.NoError(t, config.Save(path, cfg))

	return path, cfg
}

// TestReadIntent_ConsumesPayloads reports alarm and restart launches once.
func TestReadIntent_ConsumesPayloads(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfgPath, cfg := writeSettings(t)

	destination := "Work"
	distance := 42.7

	alarm := domain.NewAlarmPayload(domain.NewFireEvent(&destination, &distance), domain.LaunchNewTask)
	require.NoError(t, launch.NewFileRepository(cfg.PayloadFile).Save(ctx, alarm))
	require.NoError(t, launch.NewFileRepository(cfg.DirectiveFile).Save(ctx, domain.NewRestartDirective()))

	var out bytes.Buffer

	intent, err := ReadIntent(ctx, &IntentOptions{ConfigPath: cfgPath, Output: &out})
	require.NoError(t, err)
	require.NotNil(t, intent.Alarm)
	require.NotNil(t, intent.Restart)
	require.Equal(t, "Work", intent.Alarm.Destination)
	require.Contains(t, out.String(), "opened_by_alarm: true")
	require.Contains(t, out.String(), "destination: Work")
	require.Contains(t, out.String(), "distance_meters: 42.7")
	require.Contains(t, out.String(), "restarted_after_boot: true")

	out.Reset()

	intent, err = ReadIntent(ctx, &IntentOptions{ConfigPath: cfgPath, Output: &out})
	require.NoError(t, err)
	require.Nil(t, intent.Alarm)
	require.Nil(t, intent.Restart)
	require.Contains(t, out.String(), "opened_by_alarm: false")
	require.Contains(t, out.String(), "restarted_after_boot: false")
}

// TestReadIntent_KeepAndMainLaunch leaves payloads in place and ignores plain launcher starts.
func TestReadIntent_KeepAndMainLaunch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfgPath, cfg := writeSettings(t)

	require.NoError(t, launch.NewFileRepository(cfg.PayloadFile).Save(ctx, domain.NewMainPayload()))
	require.NoError(t, launch.NewFileRepository(cfg.DirectiveFile).Save(ctx, domain.NewRestartDirective()))

	var out bytes.Buffer

	intent, err := ReadIntent(ctx, &IntentOptions{ConfigPath: cfgPath, Keep: true, Output: &out})
	require.NoError(t, err)
	require.Nil(t, intent.Alarm)
	require.NotNil(t, intent.Restart)

	_, err = launch.NewFileRepository(cfg.DirectiveFile).Load(ctx)
	require.NoError(t, err)
}

// TestAlerts_ListAndDismiss renders the tray and clears an alert.
func TestAlerts_ListAndDismiss(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfgPath, cfg := writeSettings(t)

	destination := "Home"
	distance := 9.6
	event := domain.NewFireEvent(&destination, &distance)
	payload := domain.NewAlarmPayload(event, domain.LaunchNewTask)
	alert := domain.NewAlarmDescriptor(config.DefaultNotificationChannel, event, payload).Build(domain.AlertID)

	require.NoError(t, tray.NewFileRepository(cfg.TrayFile).Put(ctx, alert))

	var out bytes.Buffer

	opts := &AlertsOptions{ConfigPath: cfgPath, Output: &out}
	require.NoError(t, ListAlerts(ctx, opts))
	require.Contains(t, out.String(), "999")
	require.Contains(t, out.String(), "Você está a 10m do destino!")

	require.NoError(t, DismissAlert(ctx, opts, domain.AlertID))
	require.Error(t, DismissAlert(ctx, opts, -1))

	alerts, err := tray.NewFileRepository(cfg.TrayFile).List(ctx)
	require.NoError(t, err)
	require.Empty(t, alerts)
}
