package alarm

// Command is one of the closed set of commands the host application may invoke.
type Command string

const (
	// CommandCanScheduleExactAlarms asks whether exact timers may be scheduled.
	CommandCanScheduleExactAlarms Command = "canScheduleExactAlarms"
	// CommandOpenAlarmPermissionSettings opens the exact-alarm settings screen.
	CommandOpenAlarmPermissionSettings Command = "openAlarmPermissionSettings"
	// CommandBringToFront brings the host surface to the foreground.
	CommandBringToFront Command = "bringToFront"
	// CommandShowFullScreenAlarm delivers a full-screen alarm.
	CommandShowFullScreenAlarm Command = "showFullScreenAlarm"
)

// Argument names of CommandShowFullScreenAlarm.
const (
	ArgumentDestination = "destination"
	ArgumentDistance    = "distance"
)

// Commands lists every known command.
func Commands() []Command {
	return []Command{
		CommandCanScheduleExactAlarms,
		CommandOpenAlarmPermissionSettings,
		CommandBringToFront,
		CommandShowFullScreenAlarm,
	}
}

// ParseCommand maps a method name to a Command. Names are case-sensitive.
func ParseCommand(name string) (Command, bool) {
	for _, command := range Commands() {
		if string(command) == name {
			return command, true
		}
	}

	return "", false
}
