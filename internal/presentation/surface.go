package presentation

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/oshokin/alarm-bridge/internal/config"
	domain "github.com/oshokin/alarm-bridge/internal/domain/alarm"
	"github.com/oshokin/alarm-bridge/internal/logger"
	"github.com/oshokin/alarm-bridge/internal/platform"
)

// PayloadStore hands the tagged payload to the surface.
type PayloadStore interface {
	Save(ctx context.Context, payload *domain.LaunchPayload) error
}

// Surface starts and raises the host application's primary surface.
type Surface struct {
	// command starts the surface.
	command []string
	// processName detects a running surface.
	processName string
	// raise brings a running surface to the foreground.
	raise []string
	// payloads receives tagged payloads before each launch.
	payloads PayloadStore
	// runner starts processes.
	runner platform.Runner
	// running looks the surface up in the process table.
	running platform.ProcessFinder
}

// SurfaceOption configures a Surface.
type SurfaceOption func(*Surface)

// WithRunner replaces the process runner.
func WithRunner(runner platform.Runner) SurfaceOption {
	return func(s *Surface) {
		if runner != nil {
			s.runner = runner
		}
	}
}

// WithProcessFinder replaces the process table lookup.
func WithProcessFinder(finder platform.ProcessFinder) SurfaceOption {
	return func(s *Surface) {
		if finder != nil {
			s.running = finder
		}
	}
}

// errNoSurfaceCommand is returned when the surface command is not configured.
var errNoSurfaceCommand = errors.New("surface command is not configured")

// NewSurface creates a surface from its configuration.
func NewSurface(settings config.Surface, payloads PayloadStore, opts ...SurfaceOption) *Surface {
	s := &Surface{
		command:     settings.Command,
		processName: settings.ProcessName,
		raise:       settings.RaiseCommand,
		payloads:    payloads,
		runner:      platform.NewExecRunner(),
		running:     platform.ProcessRunning,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// LaunchTarget resolves the surface executable.
func (s *Surface) LaunchTarget(_ context.Context) (string, error) {
	if len(s.command) == 0 {
		return "", errNoSurfaceCommand
	}

	path, err := exec.LookPath(s.command[0])
	if err != nil {
		return "", fmt.Errorf("resolve surface executable: %w", err)
	}

	return path, nil
}

// Launch hands the payload over and opens the surface. With single-top set, a
// running surface is raised and picks the payload up itself.
func (s *Surface) Launch(ctx context.Context, payload *domain.LaunchPayload) error {
	if err := s.payloads.Save(ctx, payload); err != nil {
		return fmt.Errorf("hand over launch payload: %w", err)
	}

	env := payloadEnv(payload)

	if payload.Flags.Has(domain.LaunchSingleTop) && s.isRunning(ctx) {
		return s.raiseRunning(ctx, env)
	}

	return s.start(ctx, env)
}

// BringToFront raises a running surface or starts it with a plain launcher payload.
func (s *Surface) BringToFront(ctx context.Context) error {
	payload := domain.NewMainPayload()
	env := payloadEnv(payload)

	if s.isRunning(ctx) {
		return s.raiseRunning(ctx, env)
	}

	return s.start(ctx, env)
}

func (s *Surface) start(ctx context.Context, env []string) error {
	if len(s.command) == 0 {
		return errNoSurfaceCommand
	}

	if err := s.runner.Start(ctx, s.command, env); err != nil {
		return fmt.Errorf("start surface: %w", err)
	}

	logger.DebugKV(ctx, "Surface started", "command", s.command[0])

	return nil
}

func (s *Surface) raiseRunning(ctx context.Context, env []string) error {
	if len(s.raise) == 0 {
		logger.Debug(ctx, "Surface already running, no raise command configured")
		return nil
	}

	if err := s.runner.Run(ctx, s.raise, env); err != nil {
		return fmt.Errorf("raise surface: %w", err)
	}

	logger.DebugKV(ctx, "Surface raised", "command", s.raise[0])

	return nil
}

// isRunning treats lookup failures as "not running" so the surface is started.
func (s *Surface) isRunning(ctx context.Context) bool {
	if s.processName == "" {
		return false
	}

	running, err := s.running(s.processName)
	if err != nil {
		logger.WarnKV(ctx, "Process lookup failed", "process_name", s.processName, "error", err)
		return false
	}

	return running
}

func payloadEnv(payload *domain.LaunchPayload) []string {
	env := []string{
		"ALARM_BRIDGE_PAYLOAD_ID=" + payload.ID,
		"ALARM_BRIDGE_ACTION=" + string(payload.Action),
		"ALARM_BRIDGE_FLAGS=" + payload.Flags.String(),
	}

	if payload.IsAlarm() {
		env = append(env,
			"ALARM_BRIDGE_DESTINATION="+payload.Destination,
			"ALARM_BRIDGE_DISTANCE_METERS="+strconv.FormatFloat(payload.DistanceMeters, 'f', -1, 64),
		)
	}

	return env
}
