package transport

import (
	"encoding/json"
	"time"

	"github.com/junsooki/keyscreen/internal/errors"
)

// TypeFrame tags a FrameMessage.
const TypeFrame = "frame"

// FrameMessage is the mirror wire format of a Frame.
type FrameMessage struct {
	Type      string    `json:"type"`
	Value     int       `json:"value"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	ImageData ImageData `json:"image-data"`
	Timestamp int64     `json:"timestamp,omitempty"`
}

func NewFrameMessage(f Frame) FrameMessage {
	var ts int64
	if !f.Time.IsZero() {
		ts = f.Time.UnixMilli()
	}
	return FrameMessage{
		Type:      TypeFrame,
		Value:     f.Value,
		Width:     f.Width,
		Height:    f.Height,
		ImageData: f.Pix,
		Timestamp: ts,
	}
}

func (m FrameMessage) Frame() Frame {
	f := Frame{Value: m.Value, Width: m.Width, Height: m.Height, Pix: m.ImageData}
	if m.Timestamp != 0 {
		f.Time = time.UnixMilli(m.Timestamp)
	}
	return f
}

// ImageData is packed pixel data encoded as a JSON array of integers
// (0-255) rather than base64.
type ImageData []byte

func (d ImageData) MarshalJSON() ([]byte, error) {
	ints := make([]int, len(d))
	for i, b := range d {
		ints[i] = int(b)
	}
	return json.Marshal(ints)
}

func (d *ImageData) UnmarshalJSON(data []byte) error {
	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return errors.Wrap(err, 0)
	}
	out := make(ImageData, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return errors.Errorf(`image data value %d at %d out of byte range`, v, i)
		}
		out[i] = byte(v)
	}
	*d = out
	return nil
}
