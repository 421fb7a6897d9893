// Package version exposes build metadata for the alarm-bridge binaries.
//
// Version, Commit and BuildTime can be injected via Go ldflags; Commit and
// BuildTime otherwise come from the VCS stamp the toolchain records.
package version
