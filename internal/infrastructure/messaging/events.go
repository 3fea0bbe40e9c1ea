package messaging

import "github.com/trustnote/roomsync/internal/domain"

const (
	AuditQueue      = "room_audit"
	DeadLetterQueue = "dead_letter_queue"
)

type RoomEventData struct {
	EventType domain.RoomEventType `json:"eventType"`
	Room      domain.Room          `json:"room"`
	ActorUID  string               `json:"actorUid,omitempty"`
}

type InviteEventData struct {
	EventType domain.RoomEventType `json:"eventType"`
	Invite    domain.Invite        `json:"invite"`
}
