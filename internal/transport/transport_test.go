package transport_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junsooki/keyscreen/internal/transport"
)

func TestImageDataIsIntegerArray(t *testing.T) {
	data, err := json.Marshal(transport.ImageData{0, 1, 255})
	require.NoError(t, err)
	assert.Equal(t, `[0,1,255]`, string(data))

	var d transport.ImageData
	require.NoError(t, json.Unmarshal([]byte(`[3,128]`), &d))
	assert.Equal(t, transport.ImageData{3, 128}, d)

	assert.Error(t, json.Unmarshal([]byte(`[256]`), &d))
	assert.Error(t, json.Unmarshal([]byte(`"AAE="`), &d))
}

func TestFanoutReportsPrimaryOnly(t *testing.T) {
	var got []string
	record := func(name string, err error) transport.FrameSender {
		return transport.FrameSenderFunc(func(_ context.Context, f transport.Frame) error {
			got = append(got, name)
			return err
		})
	}
	boom := errors.New(`boom`)

	f := &transport.Fanout{
		Primary: record(`primary`, nil),
		Mirrors: []transport.FrameSender{record(`mirror`, boom)},
	}
	assert.NoError(t, f.SendFrame(context.Background(), transport.Frame{Value: 1}))
	assert.Equal(t, []string{`mirror`, `primary`}, got)

	f.Primary = record(`primary`, boom)
	assert.ErrorIs(t, f.SendFrame(context.Background(), transport.Frame{}), boom)
}

func TestWebSocketMirrorRoundTrip(t *testing.T) {
	mirror := transport.NewWebSocketMirror(nil)
	srv := httptest.NewServer(mirror)
	defer srv.Close()
	defer mirror.Close()

	rx := transport.NewWebSocketReceiver(`ws`+strings.TrimPrefix(srv.URL, `http`), nil)
	frames := make(chan transport.Frame, 4)
	rx.OnFrame(func(f transport.Frame) { frames <- f })
	require.NoError(t, rx.Connect())
	defer rx.Close()

	require.Eventually(t, func() bool { return mirror.Clients() == 1 }, time.Second, 5*time.Millisecond)

	sent := transport.Frame{Value: 7, Width: 16, Height: 2, Pix: []byte{0x80, 0, 0, 1}, Time: time.UnixMilli(1700000000000)}
	require.NoError(t, mirror.SendFrame(context.Background(), sent))

	select {
	case f := <-frames:
		assert.Equal(t, sent.Value, f.Value)
		assert.Equal(t, sent.Width, f.Width)
		assert.Equal(t, sent.Height, f.Height)
		assert.Equal(t, sent.Pix, f.Pix)
		assert.True(t, sent.Time.Equal(f.Time))
	case <-time.After(2 * time.Second):
		t.Fatal(`no frame received`)
	}

	require.NoError(t, mirror.Close())
	select {
	case <-rx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal(`receiver not closed`)
	}
	assert.Zero(t, mirror.Clients())
}

func TestWebSocketMirrorWithoutClients(t *testing.T) {
	mirror := transport.NewWebSocketMirror(nil)
	assert.NoError(t, mirror.SendFrame(context.Background(), transport.Frame{Pix: []byte{1}}))
}
