package boot

import (
	"context"

	"github.com/oshokin/alarm-bridge/internal/config"
	domain "github.com/oshokin/alarm-bridge/internal/domain/alarm"
	"github.com/oshokin/alarm-bridge/internal/logger"
	"github.com/oshokin/alarm-bridge/internal/presentation"
	"github.com/oshokin/alarm-bridge/internal/repository/launch"
	"github.com/oshokin/alarm-bridge/internal/service/recovery"
)

// Options configures the boot recovery run.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
	// LogLevel overrides the configured log level when set.
	LogLevel string
}

// Run handles a single restart signal. Nothing it does may fail the boot sequence,
// so every problem is logged and Run still returns normally.
func Run(ctx context.Context, opts *Options) {
	ctx = logger.WithName(ctx, "alarm-boot")

	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		logger.ErrorKV(ctx, "Failed to load settings, restart left unhandled", "error", err)
		return
	}

	level := settings.LogLevel
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}

	if err = logger.Configure(level); err != nil {
		logger.WarnKV(ctx, "Ignoring log level", "error", err)
	}

	directives := launch.NewFileRepository(settings.DirectiveFile)

	// The surface is only resolved here, never started.
	surface := presentation.NewSurface(settings.Surface, directives)

	handler := recovery.NewHandler(surface, directives)
	handler.OnRestart(ctx, domain.RestartSignal{})

	logger.DebugKV(ctx, "Boot recovery finished", "state", handler.State().String())
}
