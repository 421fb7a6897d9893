package delivery

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oshokin/alarm-bridge/internal/config"
	domain "github.com/oshokin/alarm-bridge/internal/domain/alarm"
	"github.com/oshokin/alarm-bridge/internal/logger"
	"github.com/oshokin/alarm-bridge/internal/metrics"
)

// CapabilityOracle answers the OS permission questions. Answers may change between calls.
type CapabilityOracle interface {
	CanScheduleExactAlarms(ctx context.Context) (bool, error)
	CanShowFullScreenInterruption(ctx context.Context) (bool, error)
}

// PresentationSink posts alerts and brings the host surface forward.
type PresentationSink interface {
	// Post posts the alert, replacing any alert with the same id.
	Post(ctx context.Context, alert *domain.Alert) error
	// BringToFront moves the surface forward, starting it when it is not running.
	BringToFront(ctx context.Context) error
	// Launch opens the surface with the tagged payload.
	Launch(ctx context.Context, payload *domain.LaunchPayload) error
}

const (
	// fallbackLaunchFlags open the surface directly when full-screen alerts are not allowed.
	fallbackLaunchFlags = domain.LaunchNewTask | domain.LaunchClearTop | domain.LaunchSingleTop
	// alarmLaunchFlags back the alert actions and the final direct launch.
	alarmLaunchFlags = fallbackLaunchFlags | domain.LaunchExcludeFromRecents
)

// Coordinator delivers one alarm at a time.
type Coordinator struct {
	// oracle is consulted on every delivery, never cached.
	oracle CapabilityOracle
	// sink posts the alert and launches the surface.
	sink PresentationSink
	// metrics records outcomes and launches.
	metrics metrics.Sink
	// channelID is the pre-provisioned alert channel.
	channelID string
	// now stamps posted alerts.
	now func() time.Time
	// mu keeps deliveries from overlapping.
	mu sync.Mutex
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithMetrics sets the metrics sink.
func WithMetrics(sink metrics.Sink) Option {
	return func(c *Coordinator) {
		if sink != nil {
			c.metrics = sink
		}
	}
}

// WithChannelID sets the alert channel id.
func WithChannelID(channelID string) Option {
	return func(c *Coordinator) {
		if channelID != "" {
			c.channelID = channelID
		}
	}
}

// WithClock replaces the clock used to stamp posted alerts.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCoordinator wires the oracle and the sink into a coordinator.
func NewCoordinator(oracle CapabilityOracle, sink PresentationSink, opts ...Option) *Coordinator {
	c := &Coordinator{
		oracle:    oracle,
		sink:      sink,
		metrics:   metrics.NewNoopSink(),
		channelID: config.DefaultNotificationChannel,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Deliver runs the alert protocol for event and reports a single outcome.
// Once started it runs to completion: cancellation of ctx is ignored.
func (c *Coordinator) Deliver(ctx context.Context, event domain.FireEvent) (outcome domain.Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx = context.WithoutCancel(ctx)
	ctx = logger.WithKV(ctx, "attempt_id", uuid.NewString())

	defer func() {
		if r := recover(); r != nil {
			outcome = domain.Failed(fmt.Errorf("%w: recovered panic: %v", domain.ErrPresentation, r))
		}

		if outcome.IsDelivered() {
			logger.InfoKV(ctx, "Alarm delivered", "destination", event.Destination())
		} else {
			logger.ErrorKV(ctx, "Alarm delivery failed", "destination", event.Destination(), "error", outcome.Reason)
		}

		c.metrics.DeliveryOutcome(outcome.String())
	}()

	logger.InfoKV(ctx, "Starting full-screen alarm",
		"destination", event.Destination(),
		"distance_meters", event.DistanceMeters(),
	)

	return c.deliver(ctx, event)
}

func (c *Coordinator) deliver(ctx context.Context, event domain.FireEvent) domain.Outcome {
	granted, err := c.oracle.CanShowFullScreenInterruption(ctx)
	if err != nil {
		return domain.Failed(asCapabilityError(err))
	}

	logger.DebugKV(ctx, "Full-screen capability", "granted", granted)

	// Without the full-screen permission the alert alone may never take over
	// the screen, so the surface is opened directly before the alert is built.
	if !granted {
		c.metrics.CapabilityDenied(metrics.CapabilityFullScreen)
		logger.Warn(ctx, "Full-screen alerts are not allowed, opening the surface directly")

		if err = c.launch(ctx, domain.NewAlarmPayload(event, fallbackLaunchFlags), metrics.LaunchFallback); err != nil {
			return domain.Failed(err)
		}
	}

	payload := domain.NewAlarmPayload(event, alarmLaunchFlags)

	alert := domain.NewAlarmDescriptor(c.channelID, event, payload).Build(domain.AlertID)
	alert.Flags |= domain.FlagInsistent | domain.FlagNoClear
	alert.PostedAt = c.now().UTC()

	if err = c.sink.Post(ctx, alert); err != nil {
		return domain.Failed(fmt.Errorf("%w: post alert: %w", domain.ErrPresentation, err))
	}

	logger.InfoKV(ctx, "Full-screen alert posted", "alert_id", alert.ID, "flags", alert.Flags.String())

	// An unlocked or foregrounded device gets the surface right away instead
	// of waiting for the user to tap the alert.
	if err = c.launch(ctx, payload, metrics.LaunchImmediate); err != nil {
		return domain.Failed(err)
	}

	return domain.Delivered()
}

func (c *Coordinator) launch(ctx context.Context, payload *domain.LaunchPayload, reason string) error {
	if err := c.sink.Launch(ctx, payload); err != nil {
		return fmt.Errorf("%w: launch surface (%s): %w", domain.ErrPresentation, reason, err)
	}

	c.metrics.SurfaceLaunch(reason)
	logger.DebugKV(ctx, "Surface launched", "reason", reason, "payload_id", payload.ID)

	return nil
}

func asCapabilityError(err error) error {
	if errors.Is(err, domain.ErrCapabilityQuery) {
		return err
	}

	return fmt.Errorf("%w: %w", domain.ErrCapabilityQuery, err)
}
