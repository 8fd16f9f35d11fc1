package transport

import (
	"context"
	"log/slog"
)

// Fanout sends every frame to Primary and, best effort, to Mirrors. Only a
// Primary failure is reported.
type Fanout struct {
	Primary FrameSender
	Mirrors []FrameSender
	Logger  *slog.Logger
}

func (f *Fanout) SendFrame(ctx context.Context, fr Frame) error {
	for _, m := range f.Mirrors {
		if err := m.SendFrame(ctx, fr); err != nil {
			f.logger().Debug(`mirror send failed`, `err`, err)
		}
	}
	if f.Primary == nil {
		return nil
	}
	return f.Primary.SendFrame(ctx, fr)
}

func (f *Fanout) logger() *slog.Logger {
	if f.Logger == nil {
		return slog.Default()
	}
	return f.Logger
}
