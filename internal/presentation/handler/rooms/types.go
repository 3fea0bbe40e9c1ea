package rooms

import (
	"time"

	"github.com/trustnote/roomsync/internal/domain"
)

// createRoomRequest represents the request to open a new game room
type createRoomRequest struct {
	GameMode   string `json:"gameMode" example:"most_likely_to"` // Game mode the room plays
	MaxPlayers int    `json:"maxPlayers" example:"8"`            // Seat cap; falls back to the default when below the minimum
}

// voteRequest represents one ballot for the current round
type voteRequest struct {
	RoundIndex int    `json:"roundIndex" example:"0"`                                   // Round the ballot targets; stale values are rejected
	TargetUID  string `json:"targetUid" example:"550e8400-e29b-41d4-a716-446655440001"` // Player the ballot is for
}

// playerResponse represents one seat in a room
type playerResponse struct {
	UID         string `json:"uid" example:"550e8400-e29b-41d4-a716-446655440002"` // Player identifier
	DisplayName string `json:"displayName" example:"maya"`                          // Display name
	Avatar      string `json:"avatar"`                                              // Avatar URL
	IsHost      bool   `json:"isHost" example:"true"`                               // Whether this player hosts the room
}

// roomResponse represents a full room snapshot
type roomResponse struct {
	ID                string           `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"` // Room identifier
	GameMode          string           `json:"gameMode" example:"most_likely_to"`                 // Game mode
	Status            string           `json:"status" example:"waiting" enum:"waiting,in_progress,ended"`
	MaxPlayers        int              `json:"maxPlayers" example:"8"`       // Seat cap
	Players           []playerResponse `json:"players"`                      // Current members
	CurrentRoundIndex int              `json:"currentRoundIndex" example:"0"`
	Questions         []string         `json:"questions,omitempty"`          // Round prompts, set once the game starts
	CreatedBy         string           `json:"createdBy"`                    // Host uid
	CreatedAt         time.Time        `json:"createdAt"`                    // Creation timestamp
	Version           int64            `json:"version" example:"1"`          // Monotonic write counter
}

// auditEntryResponse represents one lifecycle event in a room's history
type auditEntryResponse struct {
	EventType string         `json:"eventType" example:"room.created"` // What happened
	Timestamp time.Time      `json:"timestamp"`                        // When it happened
	Metadata  map[string]any `json:"metadata,omitempty"`               // Event-specific details
}

func toRoomResponse(room *domain.Room) roomResponse {
	players := make([]playerResponse, 0, len(room.Players))
	for _, p := range room.Players {
		players = append(players, playerResponse{
			UID:         p.UID,
			DisplayName: p.DisplayName,
			Avatar:      p.Avatar,
			IsHost:      p.IsHost,
		})
	}

	return roomResponse{
		ID:                room.ID,
		GameMode:          string(room.GameMode),
		Status:            string(room.Status),
		MaxPlayers:        room.MaxPlayers,
		Players:           players,
		CurrentRoundIndex: room.CurrentRoundIndex,
		Questions:         room.Questions,
		CreatedBy:         room.CreatedBy,
		CreatedAt:         room.CreatedAt,
		Version:           room.Version,
	}
}
