package integration

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	domain "github.com/oshokin/alarm-bridge/internal/domain/alarm"
	"github.com/oshokin/alarm-bridge/internal/service/client"
)

// TestCtl_RunPrintsResults sends commands the way alarm-ctl does and checks the printed results.
func TestCtl_RunPrintsResults(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := startBridge(t, nil)

	destination := "Work"
	distance := 42.7

	var out bytes.Buffer

	require.NoError(t, client.Run(ctx, &client.Options{
		ConfigPath:     b.cfgPath,
		Command:        domain.CommandShowFullScreenAlarm,
		Destination:    &destination,
		DistanceMeters: &distance,
		Output:         &out,
	}))
	require.Equal(t, "true\n", out.String())

	b.writePermissions(t, "schedule_exact_alarm: false\n")
	out.Reset()

	require.NoError(t, client.Run(ctx, &client.Options{
		ConfigPath: b.cfgPath,
		Command:    domain.CommandCanScheduleExactAlarms,
		Output:     &out,
	}))
	require.Equal(t, "false\n", out.String())

	out.Reset()

	require.NoError(t, client.ListAlerts(ctx, &client.AlertsOptions{ConfigPath: b.cfgPath, Output: &out}))
	require.Contains(t, out.String(), "Você está a 43m do destino!")

	require.Error(t, client.Run(ctx, &client.Options{
		ConfigPath: b.cfgPath,
		Command:    domain.Command("snoozeAlarm"),
		Output:     &out,
	}))
}
