package platform

const (
	// VersionExactAlarmGate is the first platform version where exact alarms need a user grant.
	VersionExactAlarmGate = 31
	// VersionFullScreenGate is the first platform version where full-screen alerts can be revoked.
	VersionFullScreenGate = 34
)

// ExactAlarmsRestricted reports whether the exact-alarm permission applies on version.
func ExactAlarmsRestricted(version int) bool {
	return version >= VersionExactAlarmGate
}

// FullScreenRestricted reports whether the full-screen permission applies on version.
func FullScreenRestricted(version int) bool {
	return version >= VersionFullScreenGate
}
