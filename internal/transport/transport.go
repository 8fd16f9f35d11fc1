package transport

import (
	"context"
	"time"
)

// Frame is one packed bitmap pushed to a display, tagged with a sequence
// value.
type Frame struct {
	Value  int
	Width  int
	Height int
	Pix    []byte
	Time   time.Time
}

// FrameSender pushes frames to a display.
type FrameSender interface {
	SendFrame(ctx context.Context, f Frame) error
}

// FrameReceiver receives frames pushed by a remote sender.
type FrameReceiver interface {
	OnFrame(callback func(f Frame))
}

// FrameSenderFunc adapts a function to FrameSender.
type FrameSenderFunc func(ctx context.Context, f Frame) error

func (fn FrameSenderFunc) SendFrame(ctx context.Context, f Frame) error { return fn(ctx, f) }
