package server

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	domain "github.com/oshokin/alarm-bridge/internal/domain/alarm"
)

var errTestCapability = errors.New("test capability error")

// fakeCapabilities returns configured answers.
type fakeCapabilities struct {
	// granted is the exact-alarm answer.
	granted bool
	// queryErr fails the exact-alarm query.
	queryErr error
	// openErr fails the settings launch.
	openErr error
	// panics makes every call panic.
	panics bool
}

func (f *fakeCapabilities) CanScheduleExactAlarms(context.Context) (bool, error) {
	if f.panics {
		panic("capability lookup exploded")
	}

	return f.granted, f.queryErr
}

func (f *fakeCapabilities) OpenExactAlarmPermissionSettings(context.Context) error {
	if f.panics {
		panic("settings launch exploded")
	}

	return f.openErr
}

// fakeDeliverer records fire events.
type fakeDeliverer struct {
	// outcome is returned by Deliver.
	outcome domain.Outcome
	// events are the delivered fire events.
	events []domain.FireEvent
}

func (f *fakeDeliverer) Deliver(_ context.Context, event domain.FireEvent) domain.Outcome {
	f.events = append(f.events, event)

	return f.outcome
}

// fakeSurface counts bring-to-front requests.
type fakeSurface struct {
	// err fails BringToFront.
	err error
	// calls counts BringToFront invocations.
	calls int
}

func (f *fakeSurface) BringToFront(context.Context) error {
	f.calls++

	return f.err
}

// recordingMetrics keeps the command results.
type recordingMetrics struct {
	mu       sync.Mutex
	commands map[string][]bool
	denied   []string
	launches []string
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{commands: make(map[string][]bool)}
}

func (m *recordingMetrics) DeliveryOutcome(string) {}
func (m *recordingMetrics) RestartDirective(string) {}

func (m *recordingMetrics) CapabilityDenied(capability string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.denied = append(m.denied, capability)
}

func (m *recordingMetrics) SurfaceLaunch(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.launches = append(m.launches, reason)
}

func (m *recordingMetrics) CommandHandled(method string, result bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.commands[method] = append(m.commands[method], result)
}

// TestService_CanScheduleExactAlarms maps answers, errors, and panics to booleans.
func TestService_CanScheduleExactAlarms(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sink := newRecordingMetrics()

	s := newService(&fakeCapabilities{granted: true}, new(fakeDeliverer), new(fakeSurface), sink)
	require.True(t, s.CanScheduleExactAlarms(ctx))

	s = newService(&fakeCapabilities{granted: false}, new(fakeDeliverer), new(fakeSurface), sink)
	require.False(t, s.CanScheduleExactAlarms(ctx))
	require.Equal(t, []string{"exact_alarms"}, sink.denied)

	s = newService(&fakeCapabilities{granted: true, queryErr: errTestCapability}, new(fakeDeliverer), new(fakeSurface), sink)
	require.False(t, s.CanScheduleExactAlarms(ctx))

	s = newService(&fakeCapabilities{panics: true}, new(fakeDeliverer), new(fakeSurface), sink)
	require.False(t, s.CanScheduleExactAlarms(ctx))

	require.Equal(t, []bool{true, false, false, false}, sink.commands["canScheduleExactAlarms"])
}

// TestService_OpenAlarmPermissionSettings reports whether the launch attempt worked.
func TestService_OpenAlarmPermissionSettings(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	s := newService(new(fakeCapabilities), new(fakeDeliverer), new(fakeSurface), nil)
	require.True(t, s.OpenAlarmPermissionSettings(ctx))

	s = newService(&fakeCapabilities{openErr: errTestCapability}, new(fakeDeliverer), new(fakeSurface), nil)
	require.False(t, s.OpenAlarmPermissionSettings(ctx))

	s = newService(&fakeCapabilities{panics: true}, new(fakeDeliverer), new(fakeSurface), nil)
	require.False(t, s.OpenAlarmPermissionSettings(ctx))
}

// TestService_BringToFront raises the surface and reports failures as false.
func TestService_BringToFront(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sink := newRecordingMetrics()
	front := new(fakeSurface)

	s := newService(new(fakeCapabilities), new(fakeDeliverer), front, sink)
	require.True(t, s.BringToFront(ctx))
	require.Equal(t, 1, front.calls)
	require.Equal(t, []string{"bring_to_front"}, sink.launches)

	front.err = errTestCapability
	require.False(t, s.BringToFront(ctx))
	require.Equal(t, 2, front.calls)
	require.Len(t, sink.launches, 1)
}

// TestService_ShowFullScreenAlarm resolves defaults and maps the outcome.
func TestService_ShowFullScreenAlarm(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	coordinator := &fakeDeliverer{outcome: domain.Delivered()}

	s := newService(new(fakeCapabilities), coordinator, new(fakeSurface), nil)
	require.True(t, s.ShowFullScreenAlarm(ctx, nil, nil))

	destination := "Work"
	distance := 42.7
	require.True(t, s.ShowFullScreenAlarm(ctx, &destination, &distance))

	require.Len(t, coordinator.events, 2)
	require.Equal(t, "Destino", coordinator.events[0].Destination())
	require.Zero(t, coordinator.events[0].DistanceMeters())
	require.Equal(t, "Work", coordinator.events[1].Destination())
	require.InDelta(t, 42.7, coordinator.events[1].DistanceMeters(), 1e-9)

	coordinator.outcome = domain.Failed(domain.ErrPresentation)
	require.False(t, s.ShowFullScreenAlarm(ctx, nil, nil))
}

// TestResolveListenAddress covers override, port extraction, and errors.
func TestResolveListenAddress(t *testing.T) {
	t.Parallel()

	address, err := resolveListenAddress("bridge.local:7000", "")
	require.NoError(t, err)
	require.Equal(t, ":7000", address)

	address, err = resolveListenAddress("bridge.local:7000", "127.0.0.1:9000")
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9000", address)

	_, err = resolveListenAddress("", "")
	require.ErrorIs(t, err, ErrNoServerAddress)

	_, err = resolveListenAddress("no-port", "")
	require.Error(t, err)
}
