// Package boot runs the boot recovery handler once after the device started.
//
// It is meant to be invoked by the init system (a systemd user unit, an
// autostart entry) and always exits cleanly.
package boot
