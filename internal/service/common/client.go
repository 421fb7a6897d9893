//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/oshokin/alarm-bridge/internal/api/grpc/channel"
	"github.com/oshokin/alarm-bridge/internal/config"
	domain "github.com/oshokin/alarm-bridge/internal/domain/alarm"
)

// Client wraps the gRPC AlarmChannel client with convenience helpers.
type Client struct {
	// conn is the underlying gRPC connection to the alarm bridge.
	conn *grpc.ClientConn
	// api is the AlarmChannel client interface.
	api channel.AlarmChannelClient

	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// errAddressRequired is returned when a required address value is missing.
var errAddressRequired = errors.New("address must be provided")

// Dial establishes a gRPC connection to the alarm bridge.
// Note: this uses insecure transport credentials; the bridge is meant to listen
// on loopback for the local host application.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	// Use the non-context NewClient API recommended by grpc-go
	// (DialContext is deprecated as of grpc-go v1.60+).
	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial alarm bridge: %w", err)
	}

	client := &Client{
		conn:        conn,
		api:         channel.NewAlarmChannelClient(conn),
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// Invoke sends one command and returns its boolean result.
func (c *Client) Invoke(ctx context.Context, command domain.Command, arguments map[string]any) (bool, error) {
	request, err := channel.NewRequest(command, arguments)
	if err != nil {
		return false, err
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	response, err := c.api.Invoke(callCtx, request)
	if err != nil {
		return false, fmt.Errorf("invoke %s: %w", command, err)
	}

	return response.GetValue(), nil
}

// CanScheduleExactAlarms asks whether exact timers are allowed.
func (c *Client) CanScheduleExactAlarms(ctx context.Context) (bool, error) {
	return c.Invoke(ctx, domain.CommandCanScheduleExactAlarms, nil)
}

// OpenAlarmPermissionSettings asks the bridge to open the exact-alarm settings.
func (c *Client) OpenAlarmPermissionSettings(ctx context.Context) (bool, error) {
	return c.Invoke(ctx, domain.CommandOpenAlarmPermissionSettings, nil)
}

// BringToFront asks the bridge to raise the host surface.
func (c *Client) BringToFront(ctx context.Context) (bool, error) {
	return c.Invoke(ctx, domain.CommandBringToFront, nil)
}

// ShowFullScreenAlarm fires an alarm. Nil arguments are left out so the bridge applies its defaults.
func (c *Client) ShowFullScreenAlarm(ctx context.Context, destination *string, distanceMeters *float64) (bool, error) {
	arguments := make(map[string]any, 2)

	if destination != nil {
		arguments[domain.ArgumentDestination] = *destination
	}

	if distanceMeters != nil {
		arguments[domain.ArgumentDistance] = *distanceMeters
	}

	return c.Invoke(ctx, domain.CommandShowFullScreenAlarm, arguments)
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
