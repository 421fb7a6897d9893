package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"

	"github.com/oshokin/alarm-bridge/internal/api/grpc/channel"
	"github.com/oshokin/alarm-bridge/internal/capability"
	"github.com/oshokin/alarm-bridge/internal/config"
	"github.com/oshokin/alarm-bridge/internal/logger"
	"github.com/oshokin/alarm-bridge/internal/metrics"
	"github.com/oshokin/alarm-bridge/internal/platform"
	"github.com/oshokin/alarm-bridge/internal/presentation"
	"github.com/oshokin/alarm-bridge/internal/repository/launch"
	"github.com/oshokin/alarm-bridge/internal/repository/tray"
	"github.com/oshokin/alarm-bridge/internal/service/delivery"
)

// Options controls the alarm-bridge process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the gRPC server.
	ListenAddress string
	// LogLevel overrides the configured log level when set.
	LogLevel string
}

// metricsShutdownTimeout bounds the metrics endpoint shutdown.
const metricsShutdownTimeout = 5 * time.Second

// ErrNoServerAddress indicates missing server configuration.
var ErrNoServerAddress = errors.New("no server address configured")

// Run starts the command channel and blocks until context is canceled or server stops.
//
//nolint:funlen // Wiring of every collaborator lives in one place.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "alarm-bridge")

	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if err = applyLogLevel(settings.LogLevel, opts.LogLevel); err != nil {
		return err
	}

	listenAddress, err := resolveListenAddress(settings.ServerAddress, opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	var (
		sink          metrics.Sink = metrics.NewNoopSink()
		metricsServer *http.Server
	)

	if settings.MetricsAddress != "" {
		registry := prometheus.NewRegistry()
		sink = metrics.NewPrometheusSink(registry)
		metricsServer = startMetrics(ctx, settings.MetricsAddress, registry)
	}

	runner := platform.NewExecRunner()

	oracle := capability.NewFileOracle(
		settings.PermissionsFile,
		settings.PlatformVersion,
		capability.WithSettingsCommand(settings.SettingsCommand),
		capability.WithRunner(runner),
	)

	surface := presentation.NewSurface(
		settings.Surface,
		launch.NewFileRepository(settings.PayloadFile),
		presentation.WithRunner(runner),
	)

	presenter := presentation.NewSink(
		tray.NewFileRepository(settings.TrayFile),
		presentation.NewNotifier(settings.NotifyCommand, runner),
		surface,
	)

	coordinator := delivery.NewCoordinator(
		oracle,
		presenter,
		delivery.WithMetrics(sink),
		delivery.WithChannelID(settings.NotificationChannel),
	)

	svc := newService(oracle, coordinator, presenter, sink)

	if snapshot, snapErr := oracle.Snapshot(ctx); snapErr != nil {
		logger.WarnKV(ctx, "Capability snapshot unavailable", "error", snapErr)
	} else {
		logger.InfoKV(ctx, "Capabilities",
			"platform_version", settings.PlatformVersion,
			"exact_alarms", snapshot.CanScheduleExactAlarms,
			"full_screen", snapshot.CanShowFullScreenInterruption,
		)
	}

	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	grpcServer := grpc.NewServer()
	channel.RegisterAlarmChannelServer(grpcServer, channel.NewServer(svc))

	logger.InfoKV(ctx, "Alarm bridge listening", "listen_address", listenAddress, "tray_file", settings.TrayFile)

	// Done channel is closed after GracefulStop finishes to ensure we block
	// until the server fully stops before returning.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down gRPC server")
		grpcServer.GracefulStop()
		stopMetrics(ctx, metricsServer)
		close(done)
	}()

	if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	<-done
	logger.Info(ctx, "GRPC server stopped")

	return nil
}

// applyLogLevel configures the global logger, the flag winning over the file.
func applyLogLevel(configured, override string) error {
	level := configured
	if override != "" {
		level = override
	}

	if level == "" {
		return nil
	}

	if err := logger.Configure(level); err != nil {
		return fmt.Errorf("configure logger: %w", err)
	}

	return nil
}

// startMetrics serves the registry on its own port.
func startMetrics(ctx context.Context, address string, registry *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: metricsShutdownTimeout,
	}

	go func() {
		logger.InfoKV(ctx, "Metrics server listening", "metrics_address", address)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorKV(ctx, "Metrics server failed", "error", err)
		}
	}()

	return server
}

func stopMetrics(ctx context.Context, server *http.Server) {
	if server == nil {
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), metricsShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WarnKV(ctx, "Metrics server shutdown failed", "error", err)
	}
}

// resolveListenAddress determines the listen address for the gRPC server.
// If override is provided, uses it directly. Otherwise extracts port from configAddr.
func resolveListenAddress(configAddr, override string) (string, error) {
	if override != "" {
		return override, nil
	}

	if configAddr == "" {
		return "", ErrNoServerAddress
	}

	_, port, err := net.SplitHostPort(configAddr)
	if err != nil {
		return "", fmt.Errorf("invalid server address format %q: %w", configAddr, err)
	}

	// Port-only address binds on all interfaces.
	return ":" + port, nil
}
