// Package alarm contains the domain types for alarm delivery and boot recovery.
//
// FireEvent is the unit of work handed to the delivery coordinator,
// LaunchPayload tags why the host surface is opened, Descriptor and Alert
// describe the posted full-screen alert, and Outcome is the single result of
// one delivery pass. None of these values outlive the call that created them.
package alarm
