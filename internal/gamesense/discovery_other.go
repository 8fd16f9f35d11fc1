//go:build !windows && !darwin

package gamesense

// DefaultCorePropsPath is empty: the engine does not run here, so the
// address has to be configured.
const DefaultCorePropsPath = ``
