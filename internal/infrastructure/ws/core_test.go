package ws

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trustnote/roomsync/internal/domain"
)

type stubRoomRepo struct {
	room *domain.Room
}

func (s *stubRoomRepo) Create(context.Context, *domain.Room) error { return nil }
func (s *stubRoomRepo) Update(context.Context, *domain.Room) error { return nil }
func (s *stubRoomRepo) EnsureIndexes(context.Context) error        { return nil }

func (s *stubRoomRepo) GetByID(_ context.Context, id string) (*domain.Room, error) {
	if s.room == nil || s.room.ID != id {
		return nil, domain.ErrRoomNotFound
	}
	c := *s.room
	return &c, nil
}

func receive(t *testing.T, ch chan *WSMessage) *WSMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func TestRegisterPushesCurrentSnapshot(t *testing.T) {
	room := &domain.Room{ID: "room-1", Status: domain.StatusWaiting, Version: 3}
	core := NewCore(NewRoomManager(), &stubRoomRepo{room: room})
	go core.Run()

	cl := testClient("a", "room-1")
	core.Register() <- cl

	msg := receive(t, cl.Message)
	assert.Equal(t, RoomState, msg.Type)

	payload, ok := msg.Data.(RoomStatePayload)
	require.True(t, ok)
	assert.Equal(t, int64(3), payload.Version)
}

func TestRegisterUnknownRoom(t *testing.T) {
	core := NewCore(NewRoomManager(), &stubRoomRepo{})
	go core.Run()

	cl := testClient("a", "room-x")
	core.Register() <- cl

	msg := receive(t, cl.Message)
	assert.Equal(t, SubscribeFailed, msg.Type)
}

func TestPublishStateFansOut(t *testing.T) {
	room := &domain.Room{ID: "room-1", Status: domain.StatusWaiting, Version: 1}
	rm := NewRoomManager()
	core := NewCore(rm, &stubRoomRepo{room: room})
	go core.Run()

	cl := testClient("a", "room-1")
	core.Register() <- cl
	receive(t, cl.Message) // initial snapshot

	updated := *room
	updated.Version = 2
	core.PublishState(&updated)

	msg := receive(t, cl.Message)
	assert.Equal(t, RoomState, msg.Type)
	payload := msg.Data.(RoomStatePayload)
	assert.Equal(t, int64(2), payload.Version)
}

func TestEndedRoomShutsDownSubscribers(t *testing.T) {
	room := &domain.Room{ID: "room-1", Status: domain.StatusWaiting, Version: 1}
	rm := NewRoomManager()
	core := NewCore(rm, &stubRoomRepo{room: room})
	go core.Run()

	cl := testClient("a", "room-1")
	core.Register() <- cl
	receive(t, cl.Message)

	ended := *room
	ended.Status = domain.StatusEnded
	ended.Version = 2
	core.PublishState(&ended)

	msg := receive(t, cl.Message)
	assert.Equal(t, RoomEnded, msg.Type)
	assertShutdown(t, cl)
	assert.Equal(t, 0, rm.SubscriberCount("room-1"))
}

// gatedRoomRepo holds every GetByID until the gate opens, so tests can
// order a disconnect before the snapshot read finishes.
type gatedRoomRepo struct {
	stubRoomRepo
	gate chan struct{}
}

func (g *gatedRoomRepo) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	<-g.gate
	return g.stubRoomRepo.GetByID(ctx, id)
}

func TestDisconnectDuringSnapshotFetchDoesNotPanic(t *testing.T) {
	room := &domain.Room{ID: "room-1", Status: domain.StatusWaiting, Version: 1}
	repo := &gatedRoomRepo{stubRoomRepo: stubRoomRepo{room: room}, gate: make(chan struct{})}
	rm := NewRoomManager()
	core := NewCore(rm, repo)
	go core.Run()

	cl := testClient("a", "room-1")
	core.Register() <- cl
	core.Unregister() <- cl

	// the store read completes only after the subscriber is gone
	assertShutdown(t, cl)
	close(repo.gate)

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, cl.Message, "snapshot for a gone subscriber must be dropped")
	assert.Equal(t, 0, rm.SubscriberCount("room-1"))
}
