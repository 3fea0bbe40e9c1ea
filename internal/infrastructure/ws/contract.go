package ws

const (
	RoomState = "room.state"
	RoomEnded = "room.ended"

	AuthenticationError = "error.auth"
	SubscribeFailed     = "error.subscribe"
)
