package metrics

// NoopSink is used when metrics are disabled to avoid nil checks.
type NoopSink struct{}

// NewNoopSink returns a no-op metrics sink.
func NewNoopSink() *NoopSink {
	return &NoopSink{}
}

func (n *NoopSink) DeliveryOutcome(string)      {}
func (n *NoopSink) CapabilityDenied(string)     {}
func (n *NoopSink) SurfaceLaunch(string)        {}
func (n *NoopSink) RestartDirective(string)     {}
func (n *NoopSink) CommandHandled(string, bool) {}
