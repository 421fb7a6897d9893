package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

// TestPrometheusSink_Counters verifies every method increments its labelled counter.
func TestPrometheusSink_Counters(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	s := NewPrometheusSink(reg)

	s.DeliveryOutcome(OutcomeDelivered)
	s.DeliveryOutcome(OutcomeDelivered)
	s.CapabilityDenied(CapabilityFullScreen)
	s.SurfaceLaunch(LaunchFallback)
	s.SurfaceLaunch(LaunchImmediate)
	s.RestartDirective(OutcomeEmitted)
	s.CommandHandled("showFullScreenAlarm", true)

	require.InDelta(t, 2, testutil.ToFloat64(s.deliveryOutcomesTotal.WithLabelValues(OutcomeDelivered)), 0)
	require.InDelta(t, 1, testutil.ToFloat64(s.capabilityDeniedTotal.WithLabelValues(CapabilityFullScreen)), 0)
	require.InDelta(t, 1, testutil.ToFloat64(s.surfaceLaunchesTotal.WithLabelValues(LaunchFallback)), 0)
	require.InDelta(t, 1, testutil.ToFloat64(s.restartDirectivesTotal.WithLabelValues(OutcomeEmitted)), 0)
	require.InDelta(t, 1, testutil.ToFloat64(s.commandsTotal.WithLabelValues("showFullScreenAlarm", "true")), 0)

	count, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	require.Equal(t, 6, count)
}

// TestPrometheusSink_DuplicateRegistration ensures a second sink on the same registry does not panic.
func TestPrometheusSink_DuplicateRegistration(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_ = NewPrometheusSink(reg)

	require.NotPanics(t, func() {
		second := NewPrometheusSink(reg)
		second.DeliveryOutcome(OutcomeFailed)
	})
}

// TestNoopSink satisfies the interface without side effects.
func TestNoopSink(t *testing.T) {
	t.Parallel()

	var s Sink = NewNoopSink()

	require.NotPanics(t, func() {
		s.DeliveryOutcome(OutcomeFailed)
		s.CapabilityDenied(CapabilityExactAlarms)
		s.SurfaceLaunch(LaunchFront)
		s.RestartDirective(OutcomeIgnored)
		s.CommandHandled("bringToFront", false)
	})
}
