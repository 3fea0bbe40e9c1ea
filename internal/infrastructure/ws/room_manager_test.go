package ws

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(id, roomID string) *Client {
	// no pumps are started, so a nil underlying conn is fine
	return NewClient(nil, id, roomID)
}

func TestAddAndRemoveClient(t *testing.T) {
	rm := NewRoomManager()
	a := testClient("a", "room-1")
	b := testClient("b", "room-1")

	rm.AddClient(a)
	rm.AddClient(b)
	rm.AddClient(b) // duplicate adds are no-ops
	assert.Equal(t, 2, rm.SubscriberCount("room-1"))

	rm.RemoveClient(a)
	assert.Equal(t, 1, rm.SubscriberCount("room-1"))
	assertShutdown(t, a)

	rm.RemoveClient(b)
	assert.Equal(t, 0, rm.SubscriberCount("room-1"))

	// removing twice must not panic
	rm.RemoveClient(b)
}

func assertShutdown(t *testing.T, cl *Client) {
	t.Helper()
	select {
	case <-cl.Done():
	case <-time.After(time.Second):
		t.Fatal("client was not shut down")
	}
}

func TestBroadcastToRoom(t *testing.T) {
	rm := NewRoomManager()
	a := testClient("a", "room-1")
	b := testClient("b", "room-1")
	other := testClient("c", "room-2")

	rm.AddClient(a)
	rm.AddClient(b)
	rm.AddClient(other)

	msg := &WSMessage{Type: RoomState, RoomID: "room-1"}
	require.NoError(t, rm.BroadcastToRoom(msg))

	assert.Equal(t, msg, <-a.Message)
	assert.Equal(t, msg, <-b.Message)
	assert.Empty(t, other.Message)
}

func TestBroadcastToUnknownRoom(t *testing.T) {
	rm := NewRoomManager()

	err := rm.BroadcastToRoom(&WSMessage{Type: RoomState, RoomID: "nowhere"})

	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestBroadcastDropsForSlowSubscriber(t *testing.T) {
	rm := NewRoomManager()
	cl := testClient("a", "room-1")
	rm.AddClient(cl)

	msg := &WSMessage{Type: RoomState, RoomID: "room-1"}
	for i := 0; i < cap(cl.Message)+10; i++ {
		require.NoError(t, rm.BroadcastToRoom(msg))
	}

	assert.Len(t, cl.Message, cap(cl.Message))
}

func TestCloseRoom(t *testing.T) {
	rm := NewRoomManager()
	a := testClient("a", "room-1")
	b := testClient("b", "room-1")
	rm.AddClient(a)
	rm.AddClient(b)

	rm.CloseRoom("room-1")

	assert.Equal(t, 0, rm.SubscriberCount("room-1"))
	assertShutdown(t, a)
	assertShutdown(t, b)

	// idempotent
	rm.CloseRoom("room-1")
}

func TestSendAfterShutdownIsDropped(t *testing.T) {
	rm := NewRoomManager()
	cl := testClient("a", "room-1")
	rm.AddClient(cl)
	rm.RemoveClient(cl)

	// late sends must not panic once the client is gone
	ok := cl.Send(&WSMessage{Type: RoomState, RoomID: "room-1"})

	assert.False(t, ok)
	assert.Empty(t, cl.Message)
}
