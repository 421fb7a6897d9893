// Package presentation is the desktop realisation of the presentation sink.
//
// Posted alerts go to the tray repository (keyed by id) and are mirrored to an
// optional notifier command. The host surface is an operator-configured
// command: launches hand the tagged payload over through the payload file and
// the process environment, and an already running surface is raised instead
// of being started twice.
package presentation
