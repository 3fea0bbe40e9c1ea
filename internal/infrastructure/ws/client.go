package ws

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// safeConn serializes writes; gorilla connections allow only one concurrent writer.
type safeConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func newSafeConn(c *websocket.Conn) *safeConn {
	return &safeConn{conn: c}
}

func (s *safeConn) WriteJSON(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(v)
}

func (s *safeConn) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.Close()
}

// Client is one subscriber to a room's snapshot feed.
type Client struct {
	conn    *safeConn
	Message chan *WSMessage
	done    chan struct{}
	once    sync.Once
	ID      string `json:"id"`
	RoomID  string `json:"roomId"`
}

func NewClient(conn *websocket.Conn, id, roomID string) *Client {
	return &Client{
		conn:    newSafeConn(conn),
		Message: make(chan *WSMessage, 64), // buffered to avoid dead-locks on slow clients
		done:    make(chan struct{}),
		ID:      id,
		RoomID:  roomID,
	}
}

// Send queues a message for the write pump. Returns false when the
// client is shut down or its buffer is full; callers treat both as a
// drop, the subscriber re-syncs from the next full snapshot.
func (c *Client) Send(msg *WSMessage) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.Message <- msg:
		return true
	default:
		return false
	}
}

// Shutdown stops the pumps. The message channel itself is never
// closed: a snapshot fetch that finishes after the client disconnected
// must land on a drop, not on a closed channel. Safe to call twice.
func (c *Client) Shutdown() {
	c.once.Do(func() { close(c.done) })
}

// Done reports client shutdown to anyone holding a reference.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// ReadMessage drains the connection. Subscribers never send anything
// meaningful; the read pump exists to notice disconnects.
func (c *Client) ReadMessage(core *Core) {
	defer func() {
		core.Unregister() <- c
		_ = c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("ws read error (client %s): %v", c.ID, err)
			}
			break
		}
	}
}

func (c *Client) WriteMessage() {
	defer func() {
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.Message:
			if err := c.conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error (client %s): %v", c.ID, err)
				return
			}
		case <-c.done:
			// flush what was queued before the shutdown, then exit;
			// the terminal room snapshot arrives this way
			for {
				select {
				case msg := <-c.Message:
					if err := c.conn.WriteJSON(msg); err != nil {
						return
					}
				default:
					return
				}
			}
		}
	}
}
