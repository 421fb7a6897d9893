package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by the alarm-bridge binaries.
type Config struct {
	// ServerAddress is the gRPC address of the command channel.
	ServerAddress string `yaml:"server_addr"`
	// Timeout bounds client RPC calls. The bridge itself applies no timeouts to OS calls.
	Timeout time.Duration `yaml:"timeout"`
	// LogLevel is the textual zap level (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
	// PlatformVersion is the API level of the host platform; it decides which
	// permission gates apply.
	PlatformVersion int `yaml:"platform_version"`
	// PermissionsFile holds the OS-owned permission flags, re-read on every query.
	PermissionsFile string `yaml:"permissions_file"`
	// TrayFile is where posted alerts are kept, keyed by alert id.
	TrayFile string `yaml:"tray_file"`
	// PayloadFile is where the latest tagged launch payload is handed to the surface.
	PayloadFile string `yaml:"payload_file"`
	// DirectiveFile is where the restart directive waits for the next surface launch.
	DirectiveFile string `yaml:"directive_file"`
	// NotificationChannel is the pre-provisioned channel id alerts are posted to.
	NotificationChannel string `yaml:"notification_channel"`
	// MetricsAddress enables the Prometheus endpoint when set (e.g. ":9464").
	MetricsAddress string `yaml:"metrics_addr"`
	// Surface describes how the host application's primary surface is started.
	Surface Surface `yaml:"surface"`
	// SettingsCommand opens the exact-alarm permission settings screen.
	SettingsCommand []string `yaml:"settings_command"`
	// NotifyCommand mirrors posted alerts to a desktop notifier; title and body are appended.
	NotifyCommand []string `yaml:"notify_command"`
}

// Surface describes the host application's primary surface process.
type Surface struct {
	// Command starts the surface; the launch payload travels through PayloadFile and the environment.
	Command []string `yaml:"command"`
	// ProcessName is the executable name used to detect a running surface.
	ProcessName string `yaml:"process_name"`
	// RaiseCommand brings an already running surface to the foreground.
	RaiseCommand []string `yaml:"raise_command"`
}

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "alarm-bridge-settings.yaml"

	// DefaultPermissionsFilename is the default filename for the permission flags.
	DefaultPermissionsFilename = "alarm-bridge-permissions.yaml"

	// DefaultTrayFilename is the default filename for posted alerts.
	DefaultTrayFilename = "alarm-bridge-tray.json"

	// DefaultPayloadFilename is the default filename for the pending launch payload.
	DefaultPayloadFilename = "alarm-bridge-launch.json"

	// DefaultDirectiveFilename is the default filename for the restart directive.
	DefaultDirectiveFilename = "alarm-bridge-restart.json"

	// DefaultNotificationChannel matches the channel provisioned by the host application.
	DefaultNotificationChannel = "alarm_fullscreen_channel"

	// DefaultPlatformVersion is the newest API level the bridge knows gates for.
	DefaultPlatformVersion = 34

	// DefaultTimeout is the default duration for client RPC calls.
	DefaultTimeout = 5 * time.Second

	// DefaultFilePermissions is the default file permission for files written by the bridge.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errServerSocketRequired is returned when server address is missing.
	errServerSocketRequired = errors.New("server address must be provided")
	// errNegativePlatformVersion is returned for platform versions below zero.
	errNegativePlatformVersion = errors.New("platform version must not be negative")
)

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and fills in defaults.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	if settings.ServerAddress == "" {
		return errServerSocketRequired
	}

	if _, err := net.ResolveTCPAddr("tcp", settings.ServerAddress); err != nil {
		return fmt.Errorf("invalid server socket: %w", err)
	}

	if settings.PlatformVersion < 0 {
		return errNegativePlatformVersion
	}

	if settings.PlatformVersion == 0 {
		settings.PlatformVersion = DefaultPlatformVersion
	}

	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	if settings.PermissionsFile == "" {
		settings.PermissionsFile = DefaultPermissionsFilename
	}

	if settings.TrayFile == "" {
		settings.TrayFile = DefaultTrayFilename
	}

	if settings.PayloadFile == "" {
		settings.PayloadFile = DefaultPayloadFilename
	}

	if settings.DirectiveFile == "" {
		settings.DirectiveFile = DefaultDirectiveFilename
	}

	if settings.NotificationChannel == "" {
		settings.NotificationChannel = DefaultNotificationChannel
	}

	if settings.MetricsAddress != "" {
		if _, _, err := net.SplitHostPort(settings.MetricsAddress); err != nil {
			return fmt.Errorf("invalid metrics address: %w", err)
		}
	}

	return nil
}
