package signal

import (
	"errors"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/companioncall/signaling/internal/core"
)

var ErrBackpressure = errors.New("backpressure")

var _ core.SignalConnection = (*wsSignalConn)(nil)

// wsSignalConn wraps one websocket with a buffered outbound channel.
// Writes never block the caller: a full buffer drops the frame.
type wsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func newWSSignalConn(ws *websocket.Conn) *wsSignalConn {
	return &wsSignalConn{
		conn: ws,
		send: make(chan core.Frame, 32),
	}
}

func (c *wsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.mu.Unlock()
}
