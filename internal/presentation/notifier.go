package presentation

import (
	"context"
	"fmt"

	domain "github.com/oshokin/alarm-bridge/internal/domain/alarm"
	"github.com/oshokin/alarm-bridge/internal/platform"
)

// Notifier mirrors a posted alert to the desktop.
type Notifier interface {
	Notify(ctx context.Context, alert *domain.Alert) error
}

// noopNotifier is used when no notifier command is configured.
type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, *domain.Alert) error { return nil }

// CommandNotifier runs a command with the alert title and body appended,
// e.g. ["notify-send", "--urgency=critical"].
type CommandNotifier struct {
	// argv is the notifier command without title and body.
	argv []string
	// runner executes the notifier.
	runner platform.Runner
}

// NewNotifier returns a CommandNotifier, or a no-op notifier for an empty command.
func NewNotifier(argv []string, runner platform.Runner) Notifier {
	if len(argv) == 0 {
		return noopNotifier{}
	}

	if runner == nil {
		runner = platform.NewExecRunner()
	}

	return &CommandNotifier{
		argv:   argv,
		runner: runner,
	}
}

// Notify runs the notifier command and waits for it.
func (n *CommandNotifier) Notify(ctx context.Context, alert *domain.Alert) error {
	argv := make([]string, 0, len(n.argv)+2)
	argv = append(argv, n.argv...)
	argv = append(argv, alert.Title, alert.Body)

	if err := n.runner.Run(ctx, argv, alertEnv(alert)); err != nil {
		return fmt.Errorf("notify: %w", err)
	}

	return nil
}

func alertEnv(alert *domain.Alert) []string {
	return []string{
		fmt.Sprintf("ALARM_BRIDGE_ALERT_ID=%d", alert.ID),
		"ALARM_BRIDGE_ALERT_CATEGORY=" + string(alert.Category),
		"ALARM_BRIDGE_ALERT_FLAGS=" + alert.Flags.String(),
	}
}
