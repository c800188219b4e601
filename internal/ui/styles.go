package ui

import "fmt"

// ANSI256 color codes.
const (
	colorOnTime = 71  // green
	colorLate   = 167 // red
	colorMuted  = 245 // medium gray
)

var noColor bool

// RenderOnTime returns s in green, used for on-time statuses and counts.
func RenderOnTime(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorOnTime, s)
}

// RenderLate returns s in red, used for late statuses and counts.
func RenderLate(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorLate, s)
}

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorMuted, s)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
