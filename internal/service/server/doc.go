// Package server runs the alarm-bridge command channel.
//
// Run loads the settings, wires the capability oracle, the presentation sink
// and the delivery coordinator, and serves the four channel commands over
// gRPC. Commands are handled one at a time and every failure, panics included,
// is reported to the caller as false.
package server
