package input

import (
	"context"
	"log/slog"
)

// KeyCounter receives one call per counted keystroke.
type KeyCounter interface {
	AddKeyPress()
}

// Listener applies key presses from a Source to a Buffer.
type Listener struct {
	buf     *Buffer
	counter KeyCounter
	source  Source
	logger  *slog.Logger
}

func NewListener(buf *Buffer, counter KeyCounter, source Source, logger *slog.Logger) *Listener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener{buf: buf, counter: counter, source: source, logger: logger}
}

// Run blocks until ctx is cancelled or the source fails.
func (l *Listener) Run(ctx context.Context) error {
	l.logger.Debug(`keyboard listener started`)
	defer l.logger.Debug(`keyboard listener stopped`)
	return l.source.Run(ctx, l.Handle)
}

// Handle applies one key press. Backspace removes a character without
// counting toward the typing rate, keys with multi-character names are
// ignored and everything else is appended and counted.
func (l *Listener) Handle(ev KeyEvent) {
	if ev.Name == KeyBackspace {
		l.buf.Backspace()
		return
	}
	r, ok := ev.Char()
	if !ok {
		return
	}
	l.buf.Append(r)
	if l.counter != nil {
		l.counter.AddKeyPress()
	}
}
