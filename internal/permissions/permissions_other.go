//go:build !linux && !(darwin && cgo)

package permissions

// HasAccessibility always reports true; the keyboard hook needs no grant here.
func HasAccessibility() bool { return true }

func RequestAccessibility() bool { return true }
