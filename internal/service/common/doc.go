// Package common holds helpers shared by several services.
//
// It provides a lightweight gRPC client for the alarm command channel with
// per-call timeouts and typed helpers for each command.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
