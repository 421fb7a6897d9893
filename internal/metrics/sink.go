package metrics

// Sink records bridge metrics.
// All methods are fire-and-forget: implementations must not block or return errors.
type Sink interface {
	// DeliveryOutcome counts finished delivery passes by outcome.
	DeliveryOutcome(outcome string)
	// CapabilityDenied counts negative capability answers by capability name.
	CapabilityDenied(capability string)
	// SurfaceLaunch counts surface launches by reason.
	SurfaceLaunch(reason string)
	// RestartDirective counts boot recovery passes by outcome.
	RestartDirective(outcome string)
	// CommandHandled counts channel commands by method and boolean result.
	CommandHandled(method string, result bool)
}

// Outcome labels.
const (
	OutcomeDelivered = "delivered"
	OutcomeFailed    = "failed"
	OutcomeEmitted   = "emitted"
	OutcomeIgnored   = "ignored"
)

// Capability labels.
const (
	CapabilityExactAlarms = "exact_alarms"
	CapabilityFullScreen  = "full_screen"
)

// Surface launch reasons.
const (
	LaunchFallback  = "fallback"
	LaunchImmediate = "immediate"
	LaunchFront     = "bring_to_front"
)
