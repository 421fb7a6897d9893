package server

import (
	"context"
	"fmt"
	"sync"

	domain "github.com/oshokin/alarm-bridge/internal/domain/alarm"
	"github.com/oshokin/alarm-bridge/internal/logger"
	"github.com/oshokin/alarm-bridge/internal/metrics"
)

// capabilities is the part of the capability oracle the command handlers use.
type capabilities interface {
	CanScheduleExactAlarms(ctx context.Context) (bool, error)
	OpenExactAlarmPermissionSettings(ctx context.Context) error
}

// deliverer runs the alarm delivery protocol.
type deliverer interface {
	Deliver(ctx context.Context, event domain.FireEvent) domain.Outcome
}

// surface brings the host application forward.
type surface interface {
	BringToFront(ctx context.Context) error
}

// service handles the channel commands.
// It is unexported to keep the transport decoupled from the implementation.
type service struct {
	// capabilities answers the exact-alarm questions.
	capabilities capabilities
	// coordinator delivers full-screen alarms.
	coordinator deliverer
	// surface is raised by bringToFront.
	surface surface
	// metrics records command results.
	metrics metrics.Sink
	// mu handles one command at a time.
	mu sync.Mutex
}

// newService wires the collaborators of the command handlers.
func newService(caps capabilities, coordinator deliverer, front surface, sink metrics.Sink) *service {
	if sink == nil {
		sink = metrics.NewNoopSink()
	}

	return &service{
		capabilities: caps,
		coordinator:  coordinator,
		surface:      front,
		metrics:      sink,
	}
}

// CanScheduleExactAlarms reports whether exact timers are allowed. Query failures read as false.
func (s *service) CanScheduleExactAlarms(ctx context.Context) bool {
	return s.guard(ctx, domain.CommandCanScheduleExactAlarms, func(ctx context.Context) (bool, error) {
		granted, err := s.capabilities.CanScheduleExactAlarms(ctx)
		if err != nil {
			return false, err
		}

		if !granted {
			s.metrics.CapabilityDenied(metrics.CapabilityExactAlarms)
		}

		return granted, nil
	})
}

// OpenAlarmPermissionSettings reports whether the settings screen could be opened.
func (s *service) OpenAlarmPermissionSettings(ctx context.Context) bool {
	return s.guard(ctx, domain.CommandOpenAlarmPermissionSettings, func(ctx context.Context) (bool, error) {
		if err := s.capabilities.OpenExactAlarmPermissionSettings(ctx); err != nil {
			return false, err
		}

		return true, nil
	})
}

// BringToFront moves the host surface to the foreground.
func (s *service) BringToFront(ctx context.Context) bool {
	return s.guard(ctx, domain.CommandBringToFront, func(ctx context.Context) (bool, error) {
		if err := s.surface.BringToFront(ctx); err != nil {
			return false, fmt.Errorf("%w: %w", domain.ErrPresentation, err)
		}

		s.metrics.SurfaceLaunch(metrics.LaunchFront)

		return true, nil
	})
}

// ShowFullScreenAlarm delivers the alarm. Absent arguments fall back to the defaults.
func (s *service) ShowFullScreenAlarm(ctx context.Context, destination *string, distanceMeters *float64) bool {
	return s.guard(ctx, domain.CommandShowFullScreenAlarm, func(ctx context.Context) (bool, error) {
		outcome := s.coordinator.Deliver(ctx, domain.NewFireEvent(destination, distanceMeters))

		return outcome.IsDelivered(), nil
	})
}

// guard serialises a command and turns errors and panics into false.
func (s *service) guard(
	ctx context.Context,
	command domain.Command,
	handle func(ctx context.Context) (bool, error),
) (result bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx = logger.WithKV(ctx, "method", string(command))

	defer func() {
		if r := recover(); r != nil {
			logger.ErrorKV(ctx, "Command panicked", "panic", r)

			result = false
		}

		s.metrics.CommandHandled(string(command), result)
		logger.DebugKV(ctx, "Command handled", "result", result)
	}()

	result, err := handle(ctx)
	if err != nil {
		logger.ErrorKV(ctx, "Command failed", "error", err)

		return false
	}

	return result
}
