// Package tray keeps the alerts currently posted by the bridge.
//
// Alerts are keyed by id: posting an alert with an id that is already present
// replaces it, which is how repeated alarm fires update a single alert instead
// of stacking new ones.
package tray
