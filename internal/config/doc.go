// Package config defines the settings used by the alarm-bridge binaries and
// provides helpers to load, validate and save them in YAML format.
//
// Besides the command channel address, the settings describe how the host
// surface is started, where OS-owned permission flags are read from, and where
// alerts, launch payloads and restart directives are handed over.
package config
