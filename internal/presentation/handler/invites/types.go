package invites

import (
	"time"

	"github.com/trustnote/roomsync/internal/domain"
)

// inviteFriendRequest represents the request to invite a user into a room
type inviteFriendRequest struct {
	RecipientUID string `json:"recipientUid" example:"550e8400-e29b-41d4-a716-446655440001"` // User to invite
}

// inviteResponse represents one invite
type inviteResponse struct {
	ID          string    `json:"id"`          // Invite identifier
	RoomID      string    `json:"roomId"`      // Room the invite points at
	SenderID    string    `json:"senderId"`    // Who sent it
	SenderName  string    `json:"senderName"`  // Sender display name
	RecipientID string    `json:"recipientId"` // Who it is addressed to
	Status      string    `json:"status" example:"pending" enum:"pending,accepted"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toInviteResponse(invite *domain.Invite) inviteResponse {
	return inviteResponse{
		ID:          invite.ID,
		RoomID:      invite.RoomID,
		SenderID:    invite.SenderID,
		SenderName:  invite.SenderName,
		RecipientID: invite.RecipientID,
		Status:      string(invite.Status),
		CreatedAt:   invite.CreatedAt,
	}
}

// acceptInviteResponse carries the room joined by accepting
type acceptInviteResponse struct {
	RoomID  string `json:"roomId"`  // Room joined
	Status  string `json:"status"`  // Room status after the join
	Version int64  `json:"version"` // Room version after the join
}
