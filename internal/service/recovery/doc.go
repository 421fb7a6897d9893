// Package recovery turns a device restart into a directive for the host surface.
//
// Exact timers do not survive a reboot. The Handler does not relaunch anything
// itself: it stages a launch payload tagged with the restart marker so the
// host surface, the next time it opens, knows it must reload and re-arm its
// persisted alarms. Failures are logged and swallowed so the boot sequence is
// never disturbed.
package recovery
