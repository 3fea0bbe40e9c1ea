package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRoom(t *testing.T) *Room {
	t.Helper()
	room, err := NewRoom(&Player{UID: "host", DisplayName: "hosty"}, ModeMostLikelyTo, 4, time.Now().UTC())
	require.NoError(t, err)
	return room
}

func tenQuestions() []string {
	out := make([]string, RoundsPerGame)
	for i := range out {
		out[i] = "q"
	}
	return out
}

func TestNewRoom(t *testing.T) {
	room := testRoom(t)

	assert.NotEmpty(t, room.ID)
	assert.Equal(t, StatusWaiting, room.Status)
	assert.Equal(t, 0, room.CurrentRoundIndex)
	require.Len(t, room.Players, 1)
	assert.True(t, room.Players[0].IsHost)
	assert.Equal(t, []string{"host"}, room.PlayerIDs)
	assert.True(t, room.Consistent())
}

func TestNewRoomMissingHost(t *testing.T) {
	_, err := NewRoom(nil, ModeMostLikelyTo, 4, time.Now())
	assert.ErrorIs(t, err, ErrMissingIdentity)

	_, err = NewRoom(&Player{}, ModeMostLikelyTo, 4, time.Now())
	assert.ErrorIs(t, err, ErrMissingIdentity)
}

func TestNewRoomTinyCapacityFallsBack(t *testing.T) {
	room, err := NewRoom(&Player{UID: "host"}, ModeMostLikelyTo, 1, time.Now())

	require.NoError(t, err)
	assert.Equal(t, DefaultMaxPlayers, room.MaxPlayers)
}

func TestAddPlayer(t *testing.T) {
	room := testRoom(t)

	err := room.AddPlayer(&Player{UID: "guest", DisplayName: "guesty", IsHost: true})

	require.NoError(t, err)
	assert.Len(t, room.Players, 2)
	assert.False(t, room.Players[1].IsHost, "joiners never become host")
	assert.True(t, room.Consistent())
}

func TestAddPlayerEdgeCases(t *testing.T) {
	room := testRoom(t)

	assert.ErrorIs(t, room.AddPlayer(&Player{UID: "host"}), ErrAlreadyJoined)
	assert.ErrorIs(t, room.AddPlayer(nil), ErrMissingIdentity)

	require.NoError(t, room.AddPlayer(&Player{UID: "a"}))
	require.NoError(t, room.AddPlayer(&Player{UID: "b"}))
	require.NoError(t, room.AddPlayer(&Player{UID: "c"}))
	assert.ErrorIs(t, room.AddPlayer(&Player{UID: "d"}), ErrRoomFull)

	room.Status = StatusInProgress
	assert.ErrorIs(t, room.AddPlayer(&Player{UID: "e"}), ErrRoomNotJoinable)
}

func TestStart(t *testing.T) {
	room := testRoom(t)
	require.NoError(t, room.AddPlayer(&Player{UID: "guest"}))

	questions := make([]string, RoundsPerGame+5)
	for i := range questions {
		questions[i] = "q"
	}

	require.NoError(t, room.Start("host", questions))
	assert.Equal(t, StatusInProgress, room.Status)
	assert.Len(t, room.Questions, RoundsPerGame)
	assert.Equal(t, 0, room.CurrentRoundIndex)
	assert.True(t, room.Consistent())
}

func TestStartPreconditions(t *testing.T) {
	room := testRoom(t)

	assert.ErrorIs(t, room.Start("guest", tenQuestions()), ErrNotHost)
	assert.ErrorIs(t, room.Start("host", tenQuestions()), ErrNotEnoughPlayers)

	require.NoError(t, room.AddPlayer(&Player{UID: "guest"}))
	assert.ErrorIs(t, room.Start("host", tenQuestions()[:3]), ErrInsufficientQuestions)

	require.NoError(t, room.Start("host", tenQuestions()))
	assert.ErrorIs(t, room.Start("host", tenQuestions()), ErrRoomNotJoinable)
}

func TestAdvanceRound(t *testing.T) {
	room := testRoom(t)
	require.NoError(t, room.AddPlayer(&Player{UID: "guest"}))
	require.NoError(t, room.Start("host", tenQuestions()))

	for i := 1; i < RoundsPerGame; i++ {
		require.NoError(t, room.AdvanceRound())
		assert.Equal(t, i, room.CurrentRoundIndex)
		assert.Equal(t, StatusInProgress, room.Status)
	}

	// past the final round the room ends
	require.NoError(t, room.AdvanceRound())
	assert.Equal(t, StatusEnded, room.Status)

	assert.ErrorIs(t, room.AdvanceRound(), ErrRoomNotInProgress)
}

func TestAdvanceRoundBeforeStart(t *testing.T) {
	room := testRoom(t)
	assert.ErrorIs(t, room.AdvanceRound(), ErrRoomNotInProgress)
}

func TestEnd(t *testing.T) {
	room := testRoom(t)

	assert.ErrorIs(t, room.End("guest"), ErrNotHost)

	require.NoError(t, room.End("host"))
	assert.Equal(t, StatusEnded, room.Status)

	// idempotent for the host
	require.NoError(t, room.End("host"))
}

func TestConsistent(t *testing.T) {
	room := testRoom(t)
	assert.True(t, room.Consistent())

	broken := *room
	broken.PlayerIDs = []string{"host", "ghost"}
	assert.False(t, broken.Consistent())

	broken = *room
	broken.Players = append(broken.Players, Player{UID: "imposter", IsHost: true})
	broken.PlayerIDs = append(broken.PlayerIDs, "imposter")
	assert.False(t, broken.Consistent(), "two hosts must fail")

	broken = *room
	broken.Status = StatusInProgress
	broken.CurrentRoundIndex = 0
	assert.False(t, broken.Consistent(), "in_progress with no questions must fail")
}
