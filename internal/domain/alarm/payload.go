package alarm

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Action tells the host surface why it was opened.
type Action string

const (
	// ActionAlarmFullScreen marks a surface opened because an alarm fired.
	ActionAlarmFullScreen Action = "ALARM_FULL_SCREEN_ACTION"
	// ActionRestartedAfterBoot marks a surface opened after a device restart.
	ActionRestartedAfterBoot Action = "RESTARTED_AFTER_BOOT"
	// ActionMain is a plain launcher start, used when bringing the surface forward.
	ActionMain Action = "MAIN"
)

// LaunchFlags control how the surface treats an existing instance.
type LaunchFlags uint32

const (
	// LaunchNewTask starts the surface in its own task.
	LaunchNewTask LaunchFlags = 1 << iota
	// LaunchClearTop drops whatever is above an existing surface instance.
	LaunchClearTop
	// LaunchSingleTop reuses the top instance instead of creating another.
	LaunchSingleTop
	// LaunchExcludeFromRecents keeps the alarm launch out of the recents list.
	LaunchExcludeFromRecents
	// LaunchReorderToFront moves an existing instance to the front.
	LaunchReorderToFront
)

//nolint:gochecknoglobals // Lookup table for flag names.
var launchFlagNames = []struct {
	flag LaunchFlags
	name string
}{
	{LaunchNewTask, "new_task"},
	{LaunchClearTop, "clear_top"},
	{LaunchSingleTop, "single_top"},
	{LaunchExcludeFromRecents, "exclude_from_recents"},
	{LaunchReorderToFront, "reorder_to_front"},
}

// Has reports whether all bits of other are set.
func (f LaunchFlags) Has(other LaunchFlags) bool {
	return f&other == other
}

// Names lists the set flags in a stable order.
func (f LaunchFlags) Names() []string {
	names := make([]string, 0, len(launchFlagNames))

	for _, entry := range launchFlagNames {
		if f.Has(entry.flag) {
			names = append(names, entry.name)
		}
	}

	return names
}

// String renders the flags joined by "|".
func (f LaunchFlags) String() string {
	return strings.Join(f.Names(), "|")
}

// ParseLaunchFlags is the inverse of Names. Unknown names are ignored.
func ParseLaunchFlags(names []string) LaunchFlags {
	var flags LaunchFlags

	for _, name := range names {
		for _, entry := range launchFlagNames {
			if entry.name == name {
				flags |= entry.flag
			}
		}
	}

	return flags
}

// LaunchPayload is the tagged data attached to a surface launch.
type LaunchPayload struct {
	// ID identifies this launch request in logs and on disk.
	ID string
	// Action is the marker the surface uses to tell alarm launches from restart launches.
	Action Action
	// Flags control how an existing surface instance is reused.
	Flags LaunchFlags
	// Destination is set only for alarm launches.
	Destination string
	// DistanceMeters is set only for alarm launches.
	DistanceMeters float64
	// IssuedAt is when the payload was built.
	IssuedAt time.Time
}

// NewAlarmPayload tags a launch as caused by the given alarm.
func NewAlarmPayload(event FireEvent, flags LaunchFlags) *LaunchPayload {
	return &LaunchPayload{
		ID:             uuid.NewString(),
		Action:         ActionAlarmFullScreen,
		Flags:          flags,
		Destination:    event.Destination(),
		DistanceMeters: event.DistanceMeters(),
		IssuedAt:       time.Now().UTC(),
	}
}

// NewRestartDirective tags a launch as the follow-up of a device restart.
func NewRestartDirective() *LaunchPayload {
	return &LaunchPayload{
		ID:       uuid.NewString(),
		Action:   ActionRestartedAfterBoot,
		Flags:    LaunchNewTask,
		IssuedAt: time.Now().UTC(),
	}
}

// NewMainPayload is a plain launcher start that reorders an existing instance to the front.
func NewMainPayload() *LaunchPayload {
	return &LaunchPayload{
		ID:       uuid.NewString(),
		Action:   ActionMain,
		Flags:    LaunchNewTask | LaunchReorderToFront | LaunchClearTop | LaunchSingleTop,
		IssuedAt: time.Now().UTC(),
	}
}

// IsAlarm reports whether the surface was opened because an alarm fired.
func (p *LaunchPayload) IsAlarm() bool {
	return p != nil && p.Action == ActionAlarmFullScreen
}

// IsRestart reports whether the surface must reload persisted alarms.
func (p *LaunchPayload) IsRestart() bool {
	return p != nil && p.Action == ActionRestartedAfterBoot
}
