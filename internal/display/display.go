// Package display shows frames in a desktop window.
package display

import (
	"context"

	"github.com/junsooki/keyscreen/internal/transport"
)

// Display renders pushed frames until it is closed.
type Display interface {
	transport.FrameSender
	// Show blocks until the window is closed or ctx is cancelled. Must be
	// called from the main goroutine.
	Show(ctx context.Context) error
}
