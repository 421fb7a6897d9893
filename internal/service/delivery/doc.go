// Package delivery runs the full-screen alert protocol for one alarm fire.
//
// The Coordinator asks the capability oracle whether a full-screen alert is
// allowed, launches the host surface directly when it is not, posts the alarm
// alert under a fixed id and finally launches the surface again. Every failure
// is turned into a failed Outcome; nothing propagates to the caller.
package delivery
