package presentation

import (
	"context"
	"fmt"

	domain "github.com/oshokin/alarm-bridge/internal/domain/alarm"
	"github.com/oshokin/alarm-bridge/internal/repository/tray"
)

// Sink posts alerts to the tray and drives the host surface.
type Sink struct {
	// alerts keeps posted alerts keyed by id.
	alerts tray.Repository
	// notifier mirrors posted alerts to the desktop.
	notifier Notifier
	// surface is launched and raised for the host application.
	surface *Surface
}

// NewSink combines the tray, the notifier and the surface. A nil notifier disables mirroring.
func NewSink(alerts tray.Repository, notifier Notifier, surface *Surface) *Sink {
	if notifier == nil {
		notifier = noopNotifier{}
	}

	return &Sink{
		alerts:   alerts,
		notifier: notifier,
		surface:  surface,
	}
}

// Post stores the alert under its id and mirrors it to the notifier.
func (s *Sink) Post(ctx context.Context, alert *domain.Alert) error {
	if err := s.alerts.Put(ctx, alert); err != nil {
		return fmt.Errorf("store alert: %w", err)
	}

	return s.notifier.Notify(ctx, alert)
}

// BringToFront moves the surface forward.
func (s *Sink) BringToFront(ctx context.Context) error {
	return s.surface.BringToFront(ctx)
}

// Launch opens the surface with the tagged payload.
func (s *Sink) Launch(ctx context.Context, payload *domain.LaunchPayload) error {
	return s.surface.Launch(ctx, payload)
}
