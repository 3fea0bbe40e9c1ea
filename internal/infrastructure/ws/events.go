package ws

import (
	"github.com/trustnote/roomsync/internal/domain"
)

type WSMessage struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
	Data   any    `json:"data"`
}

// RoomStatePayload is a full snapshot, not a diff. Subscribers replace
// their local copy wholesale; the version makes duplicate deliveries
// harmless.
type RoomStatePayload struct {
	Room    domain.Room `json:"room"`
	Version int64       `json:"version"`
}

type ErrorPayload struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Retry   bool   `json:"retry,omitempty"`
}

func NewRoomState(room *domain.Room) *WSMessage {
	return &WSMessage{
		Type:   RoomState,
		RoomID: room.ID,
		Data: RoomStatePayload{
			Room:    *room,
			Version: room.Version,
		},
	}
}

func NewRoomEnded(room *domain.Room) *WSMessage {
	return &WSMessage{
		Type:   RoomEnded,
		RoomID: room.ID,
		Data: RoomStatePayload{
			Room:    *room,
			Version: room.Version,
		},
	}
}

func NewAuthError(roomID, message string) *WSMessage {
	return &WSMessage{
		Type:   AuthenticationError,
		RoomID: roomID,
		Data: ErrorPayload{
			Code:    "AUTH_FAILED",
			Message: message,
			Retry:   true,
		},
	}
}

func NewSubscribeFailed(roomID, reason string) *WSMessage {
	return &WSMessage{
		Type:   SubscribeFailed,
		RoomID: roomID,
		Data: ErrorPayload{
			Code:    "SUBSCRIBE_FAILED",
			Message: reason,
			Retry:   true,
		},
	}
}
