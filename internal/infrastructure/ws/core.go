package ws

import (
	"context"
	"log"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/trustnote/roomsync/internal/domain"
)

// Core is the fan-out hub. Every committed room write is pushed through
// Broadcast and delivered to all subscribers in commit order; newly
// registered clients get the current snapshot immediately so a
// reconnect never has to poll.
type Core struct {
	roomMgr     *RoomManager
	register    chan *Client
	unregister  chan *Client
	broadcast   chan *WSMessage
	rooms       domain.RoomRepository
	subscribers *prometheus.GaugeVec
}

func NewCore(roomMgr *RoomManager, rooms domain.RoomRepository) *Core {
	return &Core{
		roomMgr:    roomMgr,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *WSMessage, 256),
		rooms:      rooms,
	}
}

// SetSubscriberGauge attaches a per-room subscriber gauge. Optional;
// the hub works without it.
func (c *Core) SetSubscriberGauge(g *prometheus.GaugeVec) {
	c.subscribers = g
}

func (c *Core) trackSubscribers(roomID string) {
	if c.subscribers == nil {
		return
	}
	n := c.roomMgr.SubscriberCount(roomID)
	if n == 0 {
		c.subscribers.DeleteLabelValues(roomID)
		return
	}
	c.subscribers.WithLabelValues(roomID).Set(float64(n))
}

func (c *Core) Run() {
	for {
		select {
		case cl := <-c.register:
			c.roomMgr.AddClient(cl)
			c.trackSubscribers(cl.RoomID)

			// ---------- Push the current snapshot ----------
			go func() {
				room, err := c.rooms.GetByID(context.Background(), cl.RoomID)
				if err != nil {
					log.Printf("room %s not in store: %v", cl.RoomID, err)
					cl.Send(NewSubscribeFailed(cl.RoomID, "room not found"))
					return
				}
				// Send tolerates a client that disconnected while the
				// store read was in flight
				cl.Send(NewRoomState(room))
			}()

		case cl := <-c.unregister:
			c.roomMgr.RemoveClient(cl)
			c.trackSubscribers(cl.RoomID)

		case msg := <-c.broadcast:
			if err := c.roomMgr.BroadcastToRoom(msg); err != nil {
				if err != ErrRoomNotFound {
					log.Printf("broadcast error: %v", err)
				}
				continue
			}
			if msg.Type == RoomEnded {
				c.roomMgr.CloseRoom(msg.RoomID)
				c.trackSubscribers(msg.RoomID)
			}
		}
	}
}

func (c *Core) Register() chan<- *Client {
	return c.register
}

func (c *Core) Unregister() chan<- *Client {
	return c.unregister
}

func (c *Core) Broadcast() chan<- *WSMessage {
	return c.broadcast
}

// PublishState satisfies the controller's notifier contract: one message
// per committed write, ended rooms get a terminal message that also
// tears the channel down.
func (c *Core) PublishState(room *domain.Room) {
	if room.Status == domain.StatusEnded {
		c.broadcast <- NewRoomEnded(room)
		return
	}
	c.broadcast <- NewRoomState(room)
}
