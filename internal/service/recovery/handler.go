package recovery

import (
	"context"
	"fmt"
	"sync"

	domain "github.com/oshokin/alarm-bridge/internal/domain/alarm"
	"github.com/oshokin/alarm-bridge/internal/logger"
	"github.com/oshokin/alarm-bridge/internal/metrics"
)

// State is the per-boot progress of the handler.
type State int

const (
	// StateIdle means no restart was seen in this boot cycle.
	StateIdle State = iota
	// StateRestartDetected means the restart signal arrived.
	StateRestartDetected
	// StateDirectiveEmitted means the directive was staged for the host surface.
	StateDirectiveEmitted
)

// String renders the state for logs.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRestartDetected:
		return "restart_detected"
	case StateDirectiveEmitted:
		return "directive_emitted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Target resolves what launching the host surface would start. Only used for diagnostics.
type Target interface {
	LaunchTarget(ctx context.Context) (string, error)
}

// DirectiveSink stages the directive until the host surface next opens.
type DirectiveSink interface {
	Save(ctx context.Context, directive *domain.LaunchPayload) error
}

// Handler reacts to one restart signal per boot cycle.
type Handler struct {
	// target resolves the host surface launch.
	target Target
	// sink stages the directive.
	sink DirectiveSink
	// metrics records directive outcomes.
	metrics metrics.Sink
	// state is the progress within the current boot cycle.
	state State
	// mu serialises restart signals.
	mu sync.Mutex
}

// Option configures a Handler.
type Option func(*Handler)

// WithMetrics sets the metrics sink.
func WithMetrics(sink metrics.Sink) Option {
	return func(h *Handler) {
		if sink != nil {
			h.metrics = sink
		}
	}
}

// NewHandler creates a handler in the idle state.
func NewHandler(target Target, sink DirectiveSink, opts ...Option) *Handler {
	h := &Handler{
		target:  target,
		sink:    sink,
		metrics: metrics.NewNoopSink(),
		state:   StateIdle,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// State returns the current state.
func (h *Handler) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.state
}

// OnRestart stages the restart directive. It always returns; failures are only logged.
// Signals after the first one in the same boot cycle are ignored.
func (h *Handler) OnRestart(ctx context.Context, _ domain.RestartSignal) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != StateIdle {
		logger.WarnKV(ctx, "Restart already handled in this boot cycle", "state", h.state.String())
		h.metrics.RestartDirective(metrics.OutcomeIgnored)

		return
	}

	h.state = StateRestartDetected
	logger.Info(ctx, "Device restarted, preparing to reload alarms")

	defer func() {
		if r := recover(); r != nil {
			logger.ErrorKV(ctx, "Failed to prepare alarm reload",
				"error", fmt.Errorf("%w: recovered panic: %v", domain.ErrDirectiveConstruction, r))
			h.metrics.RestartDirective(metrics.OutcomeFailed)
		}
	}()

	directive, err := h.emit(ctx)
	if err != nil {
		logger.ErrorKV(ctx, "Failed to prepare alarm reload", "error", err)
		h.metrics.RestartDirective(metrics.OutcomeFailed)

		return
	}

	h.state = StateDirectiveEmitted
	h.metrics.RestartDirective(metrics.OutcomeEmitted)

	logger.InfoKV(ctx, "Alarms will be reloaded when the app is opened", "directive_id", directive.ID)
}

func (h *Handler) emit(ctx context.Context) (*domain.LaunchPayload, error) {
	directive := domain.NewRestartDirective()

	if err := h.sink.Save(ctx, directive); err != nil {
		return nil, fmt.Errorf("%w: stage directive: %w", domain.ErrDirectiveConstruction, err)
	}

	h.describeTarget(ctx, directive)

	return directive, nil
}

// describeTarget logs what the directive will launch. A failed or panicking
// lookup is only a warning; the directive stays staged.
func (h *Handler) describeTarget(ctx context.Context, directive *domain.LaunchPayload) {
	defer func() {
		if r := recover(); r != nil {
			logger.WarnKV(ctx, "Launch target lookup panicked", "panic", r)
		}
	}()

	target, err := h.target.LaunchTarget(ctx)
	if err != nil {
		logger.WarnKV(ctx, "Launch target not resolvable at boot", "error", err)
		return
	}

	logger.DebugKV(ctx, "Restart directive staged", "launch_target", target, "flags", directive.Flags.String())
}
