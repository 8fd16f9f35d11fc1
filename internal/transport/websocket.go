package transport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/junsooki/keyscreen/internal/errors"
)

const writeWait = time.Second

// WebSocketMirror broadcasts frames to every connected websocket client.
// Clients that fail a write are dropped.
type WebSocketMirror struct {
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu     sync.Mutex
	conns  map[*websocket.Conn]struct{}
	closed bool
}

func NewWebSocketMirror(logger *slog.Logger) *WebSocketMirror {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebSocketMirror{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 8 * 1024,
			// viewers are local tools, not browsers
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
		conns:  make(map[*websocket.Conn]struct{}),
	}
}

// ServeHTTP upgrades the request and keeps the client until it disconnects.
func (m *WebSocketMirror) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.logger.Warn(`mirror upgrade failed`, `err`, err)
		return
	}
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		conn.Close()
		return
	}
	m.conns[conn] = struct{}{}
	n := len(m.conns)
	m.mu.Unlock()
	m.logger.Info(`mirror client connected`, `remote`, r.RemoteAddr, `clients`, n)

	// drain until the peer goes away
	for {
		if _, _, err := conn.NextReader(); err != nil {
			break
		}
	}
	m.drop(conn)
	m.logger.Info(`mirror client disconnected`, `remote`, r.RemoteAddr)
}

// Clients returns the number of connected clients.
func (m *WebSocketMirror) Clients() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.conns)
}

func (m *WebSocketMirror) SendFrame(ctx context.Context, f Frame) error {
	data, err := json.Marshal(NewFrameMessage(f))
	if err != nil {
		return errors.Wrap(err, 0)
	}
	deadline := time.Now().Add(writeWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for conn := range m.conns {
		_ = conn.SetWriteDeadline(deadline)
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			m.logger.Debug(`dropping mirror client`, `remote`, conn.RemoteAddr(), `err`, err)
			delete(m.conns, conn)
			conn.Close()
		}
	}
	return nil
}

// Close disconnects all clients and refuses new ones.
func (m *WebSocketMirror) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	for conn := range m.conns {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ``), time.Now().Add(writeWait))
		conn.Close()
		delete(m.conns, conn)
	}
	return nil
}

func (m *WebSocketMirror) drop(conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.conns[conn]; ok {
		delete(m.conns, conn)
		conn.Close()
	}
}
