// Package capability answers the two permission questions the bridge asks the OS:
// may exact timers be scheduled, and may a full-screen alert be shown.
//
// The OS owns the answers and may change them at any time, so FileOracle
// re-reads the permission file on every query and never caches a result.
package capability
