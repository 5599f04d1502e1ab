package realtime

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 128
)

var (
	ErrChannelClosed = errors.New("realtime: channel closed")
	ErrBufferFull    = errors.New("realtime: send buffer full")
)

// Channel is one delivery endpoint of a user session.
// Send must not block; Close must be idempotent.
type Channel interface {
	ID() string
	Send(frame []byte) error
	Close()
}

// Connection is a websocket Channel. Outbound frames go through a buffered queue
// drained by a single write loop, so frames reach the client in Send order.
type Connection struct {
	id     string
	UserID string

	ws    *websocket.Conn
	send  chan []byte
	once  sync.Once
	close chan struct{}
}

// NewConnection wraps ws for the given user.
func NewConnection(userID string, ws *websocket.Conn) *Connection {
	return &Connection{
		id:     uuid.NewString(),
		UserID: userID,
		ws:     ws,
		send:   make(chan []byte, sendBuffer),
		close:  make(chan struct{}),
	}
}

func (c *Connection) ID() string { return c.id }

// Start launches the write loop. It must be called exactly once per connection.
func (c *Connection) Start() {
	go c.writeLoop()
}

// Done is closed once the connection is closed.
func (c *Connection) Done() <-chan struct{} { return c.close }

// Send enqueues frame for delivery. A client too slow to drain its buffer is disconnected.
func (c *Connection) Send(frame []byte) error {
	select {
	case <-c.close:
		return ErrChannelClosed
	default:
	}
	select {
	case c.send <- frame:
		return nil
	default:
		c.CloseWith(websocket.CloseGoingAway, "send buffer full")
		return ErrBufferFull
	}
}

func (c *Connection) Close() {
	c.CloseWith(websocket.CloseNormalClosure, "session closed")
}

// CloseWith terminates the connection with a websocket close code and stops the write loop.
func (c *Connection) CloseWith(code int, reason string) {
	c.once.Do(func() {
		close(c.close)
		_ = c.ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), time.Now().Add(writeWait))
		_ = c.ws.Close()
	})
}

func (c *Connection) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.close:
			return
		case msg := <-c.send:
			if err := c.write(websocket.TextMessage, msg); err != nil {
				c.CloseWith(websocket.CloseAbnormalClosure, "write failed")
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				c.CloseWith(websocket.CloseAbnormalClosure, "ping failed")
				return
			}
		}
	}
}

func (c *Connection) write(messageType int, payload []byte) error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteMessage(messageType, payload)
}
