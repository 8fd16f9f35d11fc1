//go:build !linux && !windows && !(darwin && cgo)

package input

import (
	"context"
	"log/slog"
)

// NewSystemSource returns a source that always fails with ErrUnsupported.
func NewSystemSource(logger *slog.Logger) Source {
	return SourceFunc(func(context.Context, func(KeyEvent)) error { return ErrUnsupported })
}
