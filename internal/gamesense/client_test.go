package gamesense_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junsooki/keyscreen/internal/gamesense"
)

type request struct {
	endpoint string
	body     map[string]any
}

type fakeDaemon struct {
	mu       sync.Mutex
	requests []request
	status   map[string]int
	srv      *httptest.Server
}

func newFakeDaemon(t *testing.T) *fakeDaemon {
	d := &fakeDaemon{status: map[string]int{}}
	d.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, `application/json`, r.Header.Get(`Content-Type`))
		data, _ := io.ReadAll(r.Body)
		var body map[string]any
		assert.NoError(t, json.Unmarshal(data, &body))
		endpoint := strings.TrimPrefix(r.URL.Path, `/`)

		d.mu.Lock()
		d.requests = append(d.requests, request{endpoint: endpoint, body: body})
		code, ok := d.status[endpoint]
		d.mu.Unlock()
		if ok {
			w.WriteHeader(code)
			_, _ = w.Write([]byte(`{"error":"Game EXAMPLE not registered"}`))
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(d.srv.Close)
	return d
}

func (d *fakeDaemon) addr() gamesense.StaticAddress {
	return gamesense.StaticAddress(strings.TrimPrefix(d.srv.URL, `http://`))
}

func (d *fakeDaemon) endpoints() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []string
	for _, r := range d.requests {
		out = append(out, r.endpoint)
	}
	return out
}

func (d *fakeDaemon) last() request {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.requests[len(d.requests)-1]
}

func TestSetupOrderAndPayloads(t *testing.T) {
	d := newFakeDaemon(t)
	c := gamesense.NewClient(d.addr(), gamesense.DefaultOptions(), nil)
	require.NoError(t, c.Setup(context.Background()))

	assert.Equal(t, []string{
		gamesense.EndpointRemoveGameEvent,
		gamesense.EndpointRemoveGame,
		gamesense.EndpointGameMetadata,
		gamesense.EndpointRegisterGameEvent,
		gamesense.EndpointBindGameEvent,
	}, d.endpoints())

	bind := d.last().body
	assert.Equal(t, `EXAMPLE`, bind[`game`])
	assert.Equal(t, `KEYBOARD_VISUALIZER`, bind[`event`])
	handler := bind[`handlers`].([]any)[0].(map[string]any)
	assert.Equal(t, `screened-128x40`, handler[`device-type`])
	assert.Equal(t, `one`, handler[`zone`])
	assert.Equal(t, `screen`, handler[`mode`])
	data := handler[`datas`].([]any)[0].(map[string]any)
	assert.Equal(t, false, data[`has-text`])
	assert.Len(t, data[`image-data`], 640)
}

func TestSetupToleratesUnregisterFailure(t *testing.T) {
	d := newFakeDaemon(t)
	d.status[gamesense.EndpointRemoveGameEvent] = http.StatusBadRequest
	d.status[gamesense.EndpointRemoveGame] = http.StatusInternalServerError
	c := gamesense.NewClient(d.addr(), gamesense.DefaultOptions(), nil)
	assert.NoError(t, c.Setup(context.Background()))
	assert.Len(t, d.endpoints(), 5)
}

func TestSetupFailsOnRegistration(t *testing.T) {
	for _, endpoint := range []string{
		gamesense.EndpointGameMetadata,
		gamesense.EndpointRegisterGameEvent,
		gamesense.EndpointBindGameEvent,
	} {
		d := newFakeDaemon(t)
		d.status[endpoint] = http.StatusBadRequest
		c := gamesense.NewClient(d.addr(), gamesense.DefaultOptions(), nil)
		err := c.Setup(context.Background())
		require.Error(t, err, endpoint)

		var se *gamesense.StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, endpoint, se.Endpoint)
		assert.Equal(t, http.StatusBadRequest, se.StatusCode)
		assert.Contains(t, se.Body, `not registered`)
		assert.Equal(t, endpoint, d.endpoints()[len(d.endpoints())-1])
	}
}

func TestSendBitmap(t *testing.T) {
	d := newFakeDaemon(t)
	c := gamesense.NewClient(d.addr(), gamesense.DefaultOptions(), nil)

	pix := make([]byte, 640)
	pix[0] = 0xff
	require.NoError(t, c.SendBitmap(context.Background(), pix, 42))

	body := d.last().body
	assert.Equal(t, gamesense.EndpointGameEvent, d.last().endpoint)
	data := body[`data`].(map[string]any)
	assert.EqualValues(t, 42, data[`value`])
	img := data[`frame`].(map[string]any)[`image-data-128x40`].([]any)
	require.Len(t, img, 640)
	assert.EqualValues(t, 255, img[0])
	assert.EqualValues(t, 0, img[1])
}

func TestSendBitmapRejectsLengthWithoutRequest(t *testing.T) {
	d := newFakeDaemon(t)
	c := gamesense.NewClient(d.addr(), gamesense.DefaultOptions(), nil)
	for _, n := range []int{0, 639, 641} {
		err := c.SendBitmap(context.Background(), make([]byte, n), 1)
		assert.ErrorIs(t, err, gamesense.ErrBitmapLength)
	}
	assert.Empty(t, d.endpoints())
}

func TestDiscoveryFile(t *testing.T) {
	d := newFakeDaemon(t)
	dir := t.TempDir()
	props := filepath.Join(dir, `coreProps.json`)
	require.NoError(t, os.WriteFile(props, []byte(`{"address":"`+string(d.addr())+`","encrypted_address":"x"}`), 0o644))

	c := gamesense.NewClient(gamesense.CorePropsFile(props), gamesense.DefaultOptions(), nil)
	require.NoError(t, c.RegisterGame(context.Background()))
	assert.Equal(t, `Keyboard Visualizer`, d.last().body[`game_display_name`])
	assert.NotContains(t, d.last().body, `deinitialize_timer_length_ms`)

	require.NoError(t, os.WriteFile(props, []byte(`{not json`), 0o644))
	assert.Error(t, c.RegisterGame(context.Background()))

	require.NoError(t, os.WriteFile(props, []byte(`{}`), 0o644))
	assert.ErrorIs(t, c.RegisterGame(context.Background()), gamesense.ErrNoAddress)

	missing := gamesense.NewClient(gamesense.CorePropsFile(filepath.Join(dir, `nope.json`)), gamesense.DefaultOptions(), nil)
	assert.ErrorIs(t, missing.RegisterGame(context.Background()), os.ErrNotExist)
	assert.ErrorIs(t, gamesense.NewClient(gamesense.CorePropsFile(``), gamesense.DefaultOptions(), nil).
		RegisterGame(context.Background()), gamesense.ErrNoAddress)
	assert.Len(t, d.endpoints(), 1)
}

func TestTransportError(t *testing.T) {
	d := newFakeDaemon(t)
	addr := d.addr()
	d.srv.Close()
	c := gamesense.NewClient(addr, gamesense.DefaultOptions(), nil)
	assert.Error(t, c.UnregisterGame(context.Background()))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, gamesense.IsNotFound(&gamesense.StatusError{StatusCode: 404}))
	assert.True(t, gamesense.IsNotFound(&gamesense.StatusError{StatusCode: 400, Body: `Game EXAMPLE not registered`}))
	assert.False(t, gamesense.IsNotFound(&gamesense.StatusError{StatusCode: 500, Body: `boom`}))
	assert.False(t, gamesense.IsNotFound(os.ErrNotExist))
}
