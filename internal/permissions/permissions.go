// Package permissions reports whether the process may observe system-wide
// keyboard input.
package permissions
