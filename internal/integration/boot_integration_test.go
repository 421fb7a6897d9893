package integration

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/alarm-bridge/internal/service/boot"
	"github.com/oshokin/alarm-bridge/internal/service/client"
)

// TestBoot_IntentAfterRestart stages the directive at boot and lets the surface consume it with the alarm payload.
func TestBoot_IntentAfterRestart(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := startBridge(t, nil)

	boot.Run(ctx, &boot.Options{ConfigPath: b.cfgPath})

	destination := "Home"
	distance := 120.2

	delivered, err := b.client.ShowFullScreenAlarm(ctx, &destination, &distance)
	require.NoError(t, err)
	require.True(t, delivered)

	var out bytes.Buffer

	intent, err := client.ReadIntent(ctx, &client.IntentOptions{ConfigPath: b.cfgPath, Output: &out})
	require.NoError(t, err)
	require.NotNil(t, intent.Restart)
	require.NotNil(t, intent.Alarm)
	require.Equal(t, "Home", intent.Alarm.Destination)
	require.Contains(t, out.String(), "restarted_after_boot: true")

	// Both payloads are consumed.
	intent, err = client.ReadIntent(ctx, &client.IntentOptions{ConfigPath: b.cfgPath, Output: &out})
	require.NoError(t, err)
	require.Nil(t, intent.Restart)
	require.Nil(t, intent.Alarm)
}
