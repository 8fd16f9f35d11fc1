package permissions

import (
	"path/filepath"

	"golang.org/x/sys/unix"
)

const eventDevices = `/dev/input/event*`

// HasAccessibility reports whether at least one input event device is
// readable.
func HasAccessibility() bool {
	return anyReadable(eventDevices)
}

// RequestAccessibility cannot prompt on Linux; access comes from membership
// of the input group or a udev rule.
func RequestAccessibility() bool {
	return HasAccessibility()
}

func anyReadable(pattern string) bool {
	paths, _ := filepath.Glob(pattern)
	for _, p := range paths {
		if unix.Access(p, unix.R_OK) == nil {
			return true
		}
	}
	return false
}
