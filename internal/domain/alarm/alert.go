package alarm

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	// AlertID is the fixed identifier of the full-screen alert. Reusing it makes
	// a second fire replace the first alert instead of stacking another one.
	AlertID = 999

	// titlePrefix is the alarm glyph and label in front of the destination name.
	titlePrefix = "🚨 ALARME - "

	// SmallIcon is the system alarm glyph shown in the status bar.
	SmallIcon = "ic_lock_idle_alarm"
)

// Priority of a posted alert.
type Priority int

// PriorityMax asks for the most intrusive presentation available.
const PriorityMax Priority = 2

// Category hints how urgently the OS should treat an alert.
type Category string

// CategoryAlarm requests alarm-class handling.
const CategoryAlarm Category = "alarm"

// Visibility of an alert on a locked screen.
type Visibility string

// VisibilityPublic shows the full alert content on the lock screen.
const VisibilityPublic Visibility = "public"

// AlertFlags are the low-level behaviour bits of a built alert.
type AlertFlags uint32

const (
	// FlagOngoing marks an alert the user cannot swipe away.
	FlagOngoing AlertFlags = 1 << iota
	// FlagInsistent repeats the alert sound until the user reacts.
	FlagInsistent
	// FlagNoClear keeps the alert when the user clears all alerts.
	FlagNoClear
	// FlagAutoCancel removes the alert once the user taps it.
	FlagAutoCancel
	// FlagHighPriority marks the alert as high priority.
	FlagHighPriority
)

//nolint:gochecknoglobals // Lookup table for flag names.
var alertFlagNames = []struct {
	flag AlertFlags
	name string
}{
	{FlagOngoing, "ongoing"},
	{FlagInsistent, "insistent"},
	{FlagNoClear, "no_clear"},
	{FlagAutoCancel, "auto_cancel"},
	{FlagHighPriority, "high_priority"},
}

// Has reports whether all bits of other are set.
func (f AlertFlags) Has(other AlertFlags) bool {
	return f&other == other
}

// Names lists the set flags in a stable order.
func (f AlertFlags) Names() []string {
	names := make([]string, 0, len(alertFlagNames))

	for _, entry := range alertFlagNames {
		if f.Has(entry.flag) {
			names = append(names, entry.name)
		}
	}

	return names
}

// String renders the flags joined by "|".
func (f AlertFlags) String() string {
	return strings.Join(f.Names(), "|")
}

// ParseAlertFlags is the inverse of Names. Unknown names are ignored.
func ParseAlertFlags(names []string) AlertFlags {
	var flags AlertFlags

	for _, name := range names {
		for _, entry := range alertFlagNames {
			if entry.name == name {
				flags |= entry.flag
			}
		}
	}

	return flags
}

// Descriptor is what the coordinator asks for; Build turns it into an Alert.
type Descriptor struct {
	ChannelID        string
	Title            string
	Body             string
	SmallIcon        string
	Priority         Priority
	Category         Category
	Visibility       Visibility
	AutoCancel       bool
	Ongoing          bool
	FullScreenAction *LaunchPayload
	ContentAction    *LaunchPayload
	RequestCode      int
}

// NewAlarmDescriptor describes the full-screen alert for the given event.
// The same payload backs both the full-screen and the tap action.
func NewAlarmDescriptor(channelID string, event FireEvent, payload *LaunchPayload) Descriptor {
	return Descriptor{
		ChannelID:        channelID,
		Title:            Title(event),
		Body:             Body(event),
		SmallIcon:        SmallIcon,
		Priority:         PriorityMax,
		Category:         CategoryAlarm,
		Visibility:       VisibilityPublic,
		AutoCancel:       false,
		Ongoing:          true,
		FullScreenAction: payload,
		ContentAction:    payload,
		RequestCode:      AlertID,
	}
}

// Title renders the alert title for the event.
func Title(event FireEvent) string {
	return titlePrefix + event.Destination()
}

// Body renders the alert body, with the distance rounded half away from zero.
func Body(event FireEvent) string {
	return fmt.Sprintf("Você está a %sm do destino!", formatMeters(event.DistanceMeters()))
}

// formatMeters prints whole meters at any magnitude. Infinities read as
// "Infinity"/"-Infinity" and a rounded negative zero prints as "0".
func formatMeters(distance float64) string {
	switch {
	case math.IsInf(distance, 1):
		return "Infinity"
	case math.IsInf(distance, -1):
		return "-Infinity"
	}

	rounded := math.Round(distance)
	if rounded == 0 {
		rounded = 0
	}

	return strconv.FormatFloat(rounded, 'f', 0, 64)
}

// Alert is a built alert object, ready to be posted.
type Alert struct {
	ID               int
	ChannelID        string
	Title            string
	Body             string
	SmallIcon        string
	Priority         Priority
	Category         Category
	Visibility       Visibility
	Flags            AlertFlags
	FullScreenAction *LaunchPayload
	ContentAction    *LaunchPayload
	PostedAt         time.Time
}

// Build turns the descriptor into an alert object with the given id.
// Only the flags the descriptor exposes are set; stronger bits are added by the caller.
func (d Descriptor) Build(id int) *Alert {
	var flags AlertFlags

	if d.Ongoing {
		flags |= FlagOngoing
	}

	if d.AutoCancel {
		flags |= FlagAutoCancel
	}

	if d.Priority >= PriorityMax {
		flags |= FlagHighPriority
	}

	return &Alert{
		ID:               id,
		ChannelID:        d.ChannelID,
		Title:            d.Title,
		Body:             d.Body,
		SmallIcon:        d.SmallIcon,
		Priority:         d.Priority,
		Category:         d.Category,
		Visibility:       d.Visibility,
		Flags:            flags,
		FullScreenAction: d.FullScreenAction,
		ContentAction:    d.ContentAction,
	}
}
