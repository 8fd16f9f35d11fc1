package input

import (
	"context"

	"github.com/junsooki/keyscreen/internal/errors"
)

var (
	// ErrUnsupported is returned where no system-wide keyboard hook exists.
	ErrUnsupported = errors.New(`system keyboard hook not supported on this platform`)
	// ErrInterrupted is returned by a source whose user asked to quit.
	ErrInterrupted = errors.New(`interrupted`)
)

// Source delivers key presses to handle until ctx is cancelled, then
// releases whatever hook it holds. handle may be called from several
// goroutines.
type Source interface {
	Run(ctx context.Context, handle func(KeyEvent)) error
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, handle func(KeyEvent)) error

func (f SourceFunc) Run(ctx context.Context, handle func(KeyEvent)) error { return f(ctx, handle) }
