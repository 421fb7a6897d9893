// Package metrics records delivery, launch and recovery counters.
//
// Sink is the interface the coordinator, the boot handler and the command
// handler depend on; PrometheusSink backs it with client_golang collectors and
// NoopSink is used when no metrics address is configured.
package metrics
