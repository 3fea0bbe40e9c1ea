package ws

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var (
	ErrRoomNotFound = errors.New("no subscribers for room")
)

type subscriberSet struct {
	ID      string
	Clients map[string]*Client
}

// RoomManager tracks which clients are subscribed to which room.
type RoomManager struct {
	rooms    map[string]*subscriberSet // roomID -> subscribers
	mu       sync.RWMutex
	upgrader websocket.Upgrader
}

func NewRoomManager() *RoomManager {
	return &RoomManager{
		rooms: make(map[string]*subscriberSet),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // origin policy is enforced upstream
			},
		},
	}
}

func (rm *RoomManager) Upgrade(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return rm.upgrader.Upgrade(w, r, nil)
}

func (rm *RoomManager) AddClient(cl *Client) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	set, ok := rm.rooms[cl.RoomID]
	if !ok {
		set = &subscriberSet{
			ID:      cl.RoomID,
			Clients: make(map[string]*Client),
		}
		rm.rooms[cl.RoomID] = set
	}

	if _, exists := set.Clients[cl.ID]; !exists {
		set.Clients[cl.ID] = cl
	}
}

func (rm *RoomManager) RemoveClient(cl *Client) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if set, ok := rm.rooms[cl.RoomID]; ok {
		if _, ok := set.Clients[cl.ID]; ok {
			delete(set.Clients, cl.ID)
			cl.Shutdown()

			if len(set.Clients) == 0 {
				delete(rm.rooms, cl.RoomID)
			}
		}
	}
}

func (rm *RoomManager) SubscriberCount(roomID string) int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	set, ok := rm.rooms[roomID]
	if !ok {
		return 0
	}
	return len(set.Clients)
}

func (rm *RoomManager) BroadcastToRoom(msg *WSMessage) error {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	set, ok := rm.rooms[msg.RoomID]
	if !ok {
		return ErrRoomNotFound
	}

	for _, cl := range set.Clients {
		// drops rather than blocking the hub on a slow subscriber
		cl.Send(msg)
	}
	return nil
}

// CloseRoom disconnects every subscriber, typically after the final
// snapshot of an ended room went out.
func (rm *RoomManager) CloseRoom(roomID string) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	set, ok := rm.rooms[roomID]
	if !ok {
		return
	}
	for _, cl := range set.Clients {
		cl.Shutdown()
	}
	delete(rm.rooms, roomID)
}
