package capability

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	domain "github.com/oshokin/alarm-bridge/internal/domain/alarm"
	"github.com/oshokin/alarm-bridge/internal/logger"
	"github.com/oshokin/alarm-bridge/internal/platform"
)

// Permissions mirrors the permission file. A missing key means the permission is granted.
type Permissions struct {
	// ScheduleExactAlarm is the exact-alarm grant.
	ScheduleExactAlarm *bool `yaml:"schedule_exact_alarm"`
	// UseFullScreenIntent is the full-screen alert grant.
	UseFullScreenIntent *bool `yaml:"use_full_screen_intent"`
}

// FileOracle reads OS-owned permission flags from a YAML file.
type FileOracle struct {
	// path is the permission file location.
	path string
	// version is the platform version used for the permission gates.
	version int
	// settingsCommand opens the exact-alarm settings screen.
	settingsCommand []string
	// runner starts the settings screen.
	runner platform.Runner
}

// Option configures a FileOracle.
type Option func(*FileOracle)

// WithSettingsCommand sets the command that opens the exact-alarm settings screen.
func WithSettingsCommand(argv []string) Option {
	return func(o *FileOracle) {
		o.settingsCommand = argv
	}
}

// WithRunner replaces the process runner.
func WithRunner(runner platform.Runner) Option {
	return func(o *FileOracle) {
		if runner != nil {
			o.runner = runner
		}
	}
}

// errNoSettingsCommand is returned when no settings command is configured.
var errNoSettingsCommand = errors.New("settings command is not configured")

// NewFileOracle creates an oracle reading the permission file at path.
func NewFileOracle(path string, version int, opts ...Option) *FileOracle {
	o := &FileOracle{
		path:    filepath.Clean(path),
		version: version,
		runner:  platform.NewExecRunner(),
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// CanScheduleExactAlarms reports the exact-alarm grant. Versions before the gate are always granted.
func (o *FileOracle) CanScheduleExactAlarms(ctx context.Context) (bool, error) {
	if !platform.ExactAlarmsRestricted(o.version) {
		return true, nil
	}

	permissions, err := o.read()
	if err != nil {
		return false, err
	}

	granted := isGranted(permissions.ScheduleExactAlarm)
	logger.DebugKV(ctx, "Exact alarm permission checked", "granted", granted)

	return granted, nil
}

// CanShowFullScreenInterruption reports the full-screen grant. Versions before the gate are always granted.
func (o *FileOracle) CanShowFullScreenInterruption(ctx context.Context) (bool, error) {
	if !platform.FullScreenRestricted(o.version) {
		return true, nil
	}

	permissions, err := o.read()
	if err != nil {
		return false, err
	}

	granted := isGranted(permissions.UseFullScreenIntent)
	logger.DebugKV(ctx, "Full-screen permission checked", "granted", granted)

	return granted, nil
}

// Snapshot queries both capabilities at once.
func (o *FileOracle) Snapshot(ctx context.Context) (domain.CapabilitySnapshot, error) {
	exact, err := o.CanScheduleExactAlarms(ctx)
	if err != nil {
		return domain.CapabilitySnapshot{}, err
	}

	fullScreen, err := o.CanShowFullScreenInterruption(ctx)
	if err != nil {
		return domain.CapabilitySnapshot{}, err
	}

	return domain.CapabilitySnapshot{
		CanScheduleExactAlarms:        exact,
		CanShowFullScreenInterruption: fullScreen,
	}, nil
}

// OpenExactAlarmPermissionSettings starts the settings screen. It only reports whether the
// start itself worked, not whether the user grants anything. Versions before the gate have
// nothing to open and succeed immediately.
func (o *FileOracle) OpenExactAlarmPermissionSettings(ctx context.Context) error {
	if !platform.ExactAlarmsRestricted(o.version) {
		return nil
	}

	if len(o.settingsCommand) == 0 {
		return errNoSettingsCommand
	}

	if err := o.runner.Start(ctx, o.settingsCommand, nil); err != nil {
		return fmt.Errorf("open exact alarm settings: %w", err)
	}

	return nil
}

// read loads the permission file. A missing file grants everything.
func (o *FileOracle) read() (*Permissions, error) {
	contents, err := os.ReadFile(o.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return new(Permissions), nil
		}

		return nil, fmt.Errorf("%w: read permissions: %w", domain.ErrCapabilityQuery, err)
	}

	var permissions Permissions
	if err := yaml.Unmarshal(contents, &permissions); err != nil {
		return nil, fmt.Errorf("%w: decode permissions: %w", domain.ErrCapabilityQuery, err)
	}

	return &permissions, nil
}

func isGranted(flag *bool) bool {
	return flag == nil || *flag
}
