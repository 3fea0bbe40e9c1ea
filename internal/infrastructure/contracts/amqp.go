package contracts

// AmqpMessage is the message structure for AMQP.
type AmqpMessage struct {
	RoomID string `json:"roomId"`
	Data   []byte `json:"data"`
}

// Routing keys - using consistent event/command patterns
const (
	EventRoomCreated    = "room.created"
	EventPlayerJoined   = "room.player_joined"
	EventGameStarted    = "room.game_started"
	EventVoteCast       = "room.vote_cast"
	EventRoundAdvanced  = "room.round_advanced"
	EventRoomEnded      = "room.ended"
	EventInviteSent     = "invite.sent"
	EventInviteAccepted = "invite.accepted"
)
