package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type RoomEventType string

const (
	EventRoomCreated    RoomEventType = "room_created"
	EventPlayerJoined   RoomEventType = "player_joined"
	EventGameStarted    RoomEventType = "game_started"
	EventVoteCast       RoomEventType = "vote_cast"
	EventRoundAdvanced  RoomEventType = "round_advanced"
	EventRoomEnded      RoomEventType = "room_ended"
	EventInviteSent     RoomEventType = "invite_sent"
	EventInviteAccepted RoomEventType = "invite_accepted"
)

type RoomAuditLog struct {
	ID        string         `bson:"_id" json:"id"`
	RoomID    string         `bson:"room_id" json:"roomId"`
	EventType RoomEventType  `bson:"event_type" json:"eventType"`
	Timestamp time.Time      `bson:"timestamp" json:"timestamp"`
	Metadata  map[string]any `bson:"metadata,omitempty" json:"metadata,omitempty"`
}

type RoomAuditRepository interface {
	Log(ctx context.Context, log *RoomAuditLog) error
	// GetByRoomID returns the newest events first, capped at limit.
	// Expiry is handled by a TTL index, not by the application.
	GetByRoomID(ctx context.Context, roomID string, limit int) ([]RoomAuditLog, error)
	EnsureIndexes(ctx context.Context) error
}

func NewRoomAuditLog(roomID string, eventType RoomEventType, metadata map[string]any) *RoomAuditLog {
	return &RoomAuditLog{
		ID:        uuid.NewString(),
		RoomID:    roomID,
		EventType: eventType,
		Timestamp: time.Now(),
		Metadata:  metadata,
	}
}
