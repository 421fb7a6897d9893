package delivery

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/oshokin/alarm-bridge/internal/domain/alarm"
	"github.com/oshokin/alarm-bridge/internal/metrics"
)

var (
	errTestQuery  = errors.New("test query error")
	errTestPost   = errors.New("test post error")
	errTestLaunch = errors.New("test launch error")
)

// fakeOracle answers from a queue of full-screen grants; the last answer repeats.
type fakeOracle struct {
	// grants are returned in order by CanShowFullScreenInterruption.
	grants []bool
	// err is returned by every query when set.
	err error
	// calls counts full-screen queries.
	calls int
}

func (f *fakeOracle) CanScheduleExactAlarms(context.Context) (bool, error) { return true, f.err }

func (f *fakeOracle) CanShowFullScreenInterruption(context.Context) (bool, error) {
	f.calls++

	if f.err != nil {
		return false, f.err
	}

	index := min(f.calls-1, len(f.grants)-1)

	return f.grants[index], nil
}

// sinkCall is one recorded presentation call.
type sinkCall struct {
	// kind is "post", "launch" or "front".
	kind string
	// alert is set for posts.
	alert *domain.Alert
	// payload is set for launches.
	payload *domain.LaunchPayload
}

// recordingSink records calls in order and keeps posted alerts keyed by id.
type recordingSink struct {
	calls     []sinkCall
	posted    map[int]*domain.Alert
	postErr   error
	launchErr error
	// failLaunchAt makes only the n-th launch (1-based) fail with launchErr.
	failLaunchAt int
	launches     int
	panicOnPost  bool
}

func newRecordingSink() *recordingSink {
	return &recordingSink{posted: make(map[int]*domain.Alert)}
}

func (s *recordingSink) Post(_ context.Context, alert *domain.Alert) error {
	if s.panicOnPost {
		panic("notification service died")
	}

	s.calls = append(s.calls, sinkCall{kind: "post", alert: alert})
	if s.postErr != nil {
		return s.postErr
	}

	s.posted[alert.ID] = alert

	return nil
}

func (s *recordingSink) BringToFront(context.Context) error {
	s.calls = append(s.calls, sinkCall{kind: "front"})

	return nil
}

func (s *recordingSink) Launch(_ context.Context, payload *domain.LaunchPayload) error {
	s.launches++
	s.calls = append(s.calls, sinkCall{kind: "launch", payload: payload})

	if s.launchErr != nil && (s.failLaunchAt == 0 || s.failLaunchAt == s.launches) {
		return s.launchErr
	}

	return nil
}

func (s *recordingSink) kinds() []string {
	kinds := make([]string, 0, len(s.calls))
	for _, call := range s.calls {
		kinds = append(kinds, call.kind)
	}

	return kinds
}

// countingMetrics records outcome and launch labels.
type countingMetrics struct {
	metrics.NoopSink

	outcomes []string
	launches []string
	denied   []string
}

func (m *countingMetrics) DeliveryOutcome(outcome string) { m.outcomes = append(m.outcomes, outcome) }
func (m *countingMetrics) SurfaceLaunch(reason string)    { m.launches = append(m.launches, reason) }
func (m *countingMetrics) CapabilityDenied(name string)   { m.denied = append(m.denied, name) }

func workEvent() domain.FireEvent {
	destination, distance := "Work", 42.7

	return domain.NewFireEvent(&destination, &distance)
}

// TestDeliver_Granted posts the alert and launches the surface once.
func TestDeliver_Granted(t *testing.T) {
	t.Parallel()

	sink := newRecordingSink()
	stats := new(countingMetrics)
	postedAt := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)

	c := NewCoordinator(
		&fakeOracle{grants: []bool{true}},
		sink,
		WithMetrics(stats),
		WithChannelID("test_channel"),
		WithClock(func() time.Time { return postedAt }),
	)

	outcome := c.Deliver(context.Background(), workEvent())
	require.True(t, outcome.IsDelivered())
	require.Equal(t, []string{"post", "launch"}, sink.kinds())

	alert := sink.calls[0].alert
	require.Equal(t, domain.AlertID, alert.ID)
	require.Equal(t, "test_channel", alert.ChannelID)
	require.Contains(t, alert.Title, "Work")
	require.Contains(t, alert.Body, "43m")
	require.Equal(t, domain.PriorityMax, alert.Priority)
	require.Equal(t, domain.CategoryAlarm, alert.Category)
	require.Equal(t, domain.VisibilityPublic, alert.Visibility)
	require.True(t, alert.Flags.Has(domain.FlagOngoing|domain.FlagInsistent|domain.FlagNoClear))
	require.False(t, alert.Flags.Has(domain.FlagAutoCancel))
	require.Equal(t, postedAt, alert.PostedAt)

	// The final launch and both alert actions share the tagged alarm payload.
	launched := sink.calls[1].payload
	require.Same(t, alert.FullScreenAction, launched)
	require.Same(t, alert.ContentAction, launched)
	require.True(t, launched.IsAlarm())
	require.Equal(t, "Work", launched.Destination)
	require.InDelta(t, 42.7, launched.DistanceMeters, 1e-9)
	require.True(t, launched.Flags.Has(alarmLaunchFlags))

	require.Equal(t, []string{metrics.OutcomeDelivered}, stats.outcomes)
	require.Equal(t, []string{metrics.LaunchImmediate}, stats.launches)
	require.Empty(t, stats.denied)
}

// TestDeliver_Denied launches the surface before building the alert and still posts it.
func TestDeliver_Denied(t *testing.T) {
	t.Parallel()

	sink := newRecordingSink()
	stats := new(countingMetrics)
	c := NewCoordinator(&fakeOracle{grants: []bool{false}}, sink, WithMetrics(stats))

	outcome := c.Deliver(context.Background(), workEvent())
	require.True(t, outcome.IsDelivered())
	require.Equal(t, []string{"launch", "post", "launch"}, sink.kinds())

	fallback := sink.calls[0].payload
	require.True(t, fallback.IsAlarm())
	require.Equal(t, "Work", fallback.Destination)
	require.False(t, fallback.Flags.Has(domain.LaunchExcludeFromRecents))

	alert := sink.posted[domain.AlertID]
	require.NotNil(t, alert)
	require.Contains(t, alert.Title, "Work")
	require.Contains(t, alert.Body, "43m")

	require.Equal(t, []string{metrics.LaunchFallback, metrics.LaunchImmediate}, stats.launches)
	require.Equal(t, []string{metrics.CapabilityFullScreen}, stats.denied)
}

// TestDeliver_TwiceKeepsOneAlert ensures repeated fires update the same alert.
func TestDeliver_TwiceKeepsOneAlert(t *testing.T) {
	t.Parallel()

	sink := newRecordingSink()
	c := NewCoordinator(&fakeOracle{grants: []bool{true}}, sink)

	require.True(t, c.Deliver(context.Background(), workEvent()).IsDelivered())
	require.True(t, c.Deliver(context.Background(), workEvent()).IsDelivered())

	require.Len(t, sink.posted, 1)
	require.Equal(t, sink.calls[0].alert.ID, sink.calls[2].alert.ID)
}

// TestDeliver_PermissionChangesBetweenCalls re-queries the oracle on every delivery.
func TestDeliver_PermissionChangesBetweenCalls(t *testing.T) {
	t.Parallel()

	oracle := &fakeOracle{grants: []bool{true, false, true}}
	sink := newRecordingSink()
	c := NewCoordinator(oracle, sink)

	for i := 0; i < 3; i++ {
		require.True(t, c.Deliver(context.Background(), workEvent()).IsDelivered())
	}

	require.Equal(t, 3, oracle.calls)
	require.Equal(t, []string{
		"post", "launch",
		"launch", "post", "launch",
		"post", "launch",
	}, sink.kinds())
}

// TestDeliver_Defaults covers an event built without arguments.
func TestDeliver_Defaults(t *testing.T) {
	t.Parallel()

	sink := newRecordingSink()
	c := NewCoordinator(&fakeOracle{grants: []bool{true}}, sink)

	require.True(t, c.Deliver(context.Background(), domain.NewFireEvent(nil, nil)).IsDelivered())

	alert := sink.posted[domain.AlertID]
	require.Equal(t, "🚨 ALARME - Destino", alert.Title)
	require.Equal(t, "Você está a 0m do destino!", alert.Body)
}

// TestDeliver_IgnoresCancellation runs to completion on an already canceled context.
func TestDeliver_IgnoresCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := newRecordingSink()
	c := NewCoordinator(&fakeOracle{grants: []bool{true}}, sink)

	require.True(t, c.Deliver(ctx, workEvent()).IsDelivered())
	require.Equal(t, []string{"post", "launch"}, sink.kinds())
}

// TestDeliver_Failures converts every collaborator failure into a failed outcome.
func TestDeliver_Failures(t *testing.T) {
	t.Parallel()

	t.Run("capability query", func(t *testing.T) {
		t.Parallel()

		sink := newRecordingSink()
		stats := new(countingMetrics)
		c := NewCoordinator(&fakeOracle{err: errTestQuery}, sink, WithMetrics(stats))

		outcome := c.Deliver(context.Background(), workEvent())
		require.False(t, outcome.IsDelivered())
		require.ErrorIs(t, outcome.Reason, domain.ErrCapabilityQuery)
		require.ErrorIs(t, outcome.Reason, errTestQuery)
		require.Empty(t, sink.calls)
		require.Equal(t, []string{metrics.OutcomeFailed}, stats.outcomes)
	})

	t.Run("fallback launch", func(t *testing.T) {
		t.Parallel()

		sink := newRecordingSink()
		sink.launchErr = errTestLaunch
		c := NewCoordinator(&fakeOracle{grants: []bool{false}}, sink)

		outcome := c.Deliver(context.Background(), workEvent())
		require.ErrorIs(t, outcome.Reason, domain.ErrPresentation)
		require.ErrorIs(t, outcome.Reason, errTestLaunch)
		require.Equal(t, []string{"launch"}, sink.kinds())
	})

	t.Run("post", func(t *testing.T) {
		t.Parallel()

		sink := newRecordingSink()
		sink.postErr = errTestPost
		c := NewCoordinator(&fakeOracle{grants: []bool{true}}, sink)

		outcome := c.Deliver(context.Background(), workEvent())
		require.ErrorIs(t, outcome.Reason, domain.ErrPresentation)
		require.ErrorIs(t, outcome.Reason, errTestPost)
		require.Equal(t, []string{"post"}, sink.kinds())
	})

	t.Run("final launch", func(t *testing.T) {
		t.Parallel()

		sink := newRecordingSink()
		sink.launchErr = errTestLaunch
		sink.failLaunchAt = 2
		c := NewCoordinator(&fakeOracle{grants: []bool{false}}, sink)

		outcome := c.Deliver(context.Background(), workEvent())
		require.ErrorIs(t, outcome.Reason, errTestLaunch)
		require.Equal(t, []string{"launch", "post", "launch"}, sink.kinds())
	})

	t.Run("panic", func(t *testing.T) {
		t.Parallel()

		sink := newRecordingSink()
		sink.panicOnPost = true
		c := NewCoordinator(&fakeOracle{grants: []bool{true}}, sink)

		var outcome domain.Outcome

		require.NotPanics(t, func() {
			outcome = c.Deliver(context.Background(), workEvent())
		})
		require.ErrorIs(t, outcome.Reason, domain.ErrPresentation)
	})
}
