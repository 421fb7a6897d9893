// Package client implements the alarm-ctl commands.
//
// Channel commands are sent to a running bridge over gRPC and print their
// boolean result. The intent command plays the host surface's part: it
// consumes the pending launch payload and restart directive and reports how
// the surface was opened. The alerts commands inspect and clear the tray.
package client
