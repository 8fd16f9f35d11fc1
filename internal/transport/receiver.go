package transport

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/junsooki/keyscreen/internal/errors"
)

// WebSocketReceiver reads frames from a WebSocketMirror.
type WebSocketReceiver struct {
	url    string
	logger *slog.Logger

	conn    *websocket.Conn
	mu      sync.Mutex
	onFrame func(f Frame)
	done    chan struct{}
	closed  bool
}

var _ FrameReceiver = (*WebSocketReceiver)(nil)

func NewWebSocketReceiver(url string, logger *slog.Logger) *WebSocketReceiver {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebSocketReceiver{url: url, logger: logger, done: make(chan struct{})}
}

func (r *WebSocketReceiver) OnFrame(cb func(f Frame)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onFrame = cb
}

// Connect dials the mirror and starts reading frames.
func (r *WebSocketReceiver) Connect() error {
	conn, _, err := websocket.DefaultDialer.Dial(r.url, nil)
	if err != nil {
		return errors.WrapPrefix(err, `mirror dial`, 0)
	}
	r.mu.Lock()
	r.conn = conn
	r.mu.Unlock()
	go r.readLoop()
	return nil
}

// Done is closed once the connection ends.
func (r *WebSocketReceiver) Done() <-chan struct{} { return r.done }

func (r *WebSocketReceiver) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	close(r.done)
	if r.conn != nil {
		r.conn.Close()
	}
}

func (r *WebSocketReceiver) readLoop() {
	defer r.Close()
	for {
		var msg FrameMessage
		if err := r.conn.ReadJSON(&msg); err != nil {
			select {
			case <-r.done:
			default:
				r.logger.Warn(`mirror read error`, `err`, err)
			}
			return
		}
		if msg.Type != TypeFrame {
			continue
		}
		r.mu.Lock()
		cb := r.onFrame
		r.mu.Unlock()
		if cb != nil {
			cb(msg.Frame())
		}
	}
}
