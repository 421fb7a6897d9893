// Package platform wraps the few OS facilities the bridge touches directly:
// starting helper processes, detecting whether the host surface is running,
// and the platform version gates that decide which permissions apply.
package platform
