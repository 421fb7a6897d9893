package alarm

// DefaultDestination is used when the caller omits the destination name.
const DefaultDestination = "Destino"

// FireEvent is one alarm-fire request. It is immutable once constructed.
type FireEvent struct {
	destination    string
	distanceMeters float64
}

// NewFireEvent builds an event, resolving missing fields to their defaults.
// A nil destination becomes DefaultDestination and a nil distance becomes zero.
func NewFireEvent(destination *string, distanceMeters *float64) FireEvent {
	event := FireEvent{
		destination: DefaultDestination,
	}

	if destination != nil {
		event.destination = *destination
	}

	if distanceMeters != nil {
		event.distanceMeters = *distanceMeters
	}

	return event
}

// Destination returns the destination name carried through to the alert.
func (e FireEvent) Destination() string {
	return e.destination
}

// DistanceMeters returns the distance to the destination in meters.
func (e FireEvent) DistanceMeters() float64 {
	return e.distanceMeters
}

// CapabilitySnapshot is a point-in-time view of the OS-owned permission flags.
// It is never cached across delivery attempts.
type CapabilitySnapshot struct {
	// CanScheduleExactAlarms reports whether precise timers may be set.
	CanScheduleExactAlarms bool
	// CanShowFullScreenInterruption reports whether the full-screen alert style is permitted.
	CanShowFullScreenInterruption bool
}

// RestartSignal means the device completed a boot cycle. It has no payload.
type RestartSignal struct{}
