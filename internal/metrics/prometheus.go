package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/oshokin/alarm-bridge/internal/logger"
)

// PrometheusSink implements Sink with Prometheus collectors.
// Registration errors are logged and never propagated.
type PrometheusSink struct {
	// deliveryOutcomesTotal counts delivery passes by outcome.
	deliveryOutcomesTotal *prometheus.CounterVec
	// capabilityDeniedTotal counts negative capability answers.
	capabilityDeniedTotal *prometheus.CounterVec
	// surfaceLaunchesTotal counts surface launches by reason.
	surfaceLaunchesTotal *prometheus.CounterVec
	// restartDirectivesTotal counts boot recovery passes by outcome.
	restartDirectivesTotal *prometheus.CounterVec
	// commandsTotal counts channel commands by method and result.
	commandsTotal *prometheus.CounterVec
}

// NewPrometheusSink creates the collectors and registers them with reg.
func NewPrometheusSink(reg prometheus.Registerer) *PrometheusSink {
	s := &PrometheusSink{
		deliveryOutcomesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "alarm_bridge_delivery_outcomes_total",
			Help: "Total number of alarm delivery passes by outcome.",
		}, []string{"outcome"}),
		capabilityDeniedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "alarm_bridge_capability_denied_total",
			Help: "Total number of capability queries answered negatively.",
		}, []string{"capability"}),
		surfaceLaunchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "alarm_bridge_surface_launches_total",
			Help: "Total number of host surface launches by reason.",
		}, []string{"reason"}),
		restartDirectivesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "alarm_bridge_restart_directives_total",
			Help: "Total number of boot recovery passes by outcome.",
		}, []string{"outcome"}),
		commandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "alarm_bridge_commands_total",
			Help: "Total number of channel commands by method and result.",
		}, []string{"method", "result"}),
	}

	s.register(reg, s.deliveryOutcomesTotal, "alarm_bridge_delivery_outcomes_total")
	s.register(reg, s.capabilityDeniedTotal, "alarm_bridge_capability_denied_total")
	s.register(reg, s.surfaceLaunchesTotal, "alarm_bridge_surface_launches_total")
	s.register(reg, s.restartDirectivesTotal, "alarm_bridge_restart_directives_total")
	s.register(reg, s.commandsTotal, "alarm_bridge_commands_total")

	return s
}

func (s *PrometheusSink) register(reg prometheus.Registerer, c prometheus.Collector, name string) {
	if err := reg.Register(c); err != nil {
		logger.Logger().Warnw("Failed to register metric", "metric", name, zap.Error(err))
	}
}

func (s *PrometheusSink) DeliveryOutcome(outcome string) {
	s.deliveryOutcomesTotal.WithLabelValues(outcome).Inc()
}

func (s *PrometheusSink) CapabilityDenied(capability string) {
	s.capabilityDeniedTotal.WithLabelValues(capability).Inc()
}

func (s *PrometheusSink) SurfaceLaunch(reason string) {
	s.surfaceLaunchesTotal.WithLabelValues(reason).Inc()
}

func (s *PrometheusSink) RestartDirective(outcome string) {
	s.restartDirectivesTotal.WithLabelValues(outcome).Inc()
}

func (s *PrometheusSink) CommandHandled(method string, result bool) {
	s.commandsTotal.WithLabelValues(method, strconv.FormatBool(result)).Inc()
}
