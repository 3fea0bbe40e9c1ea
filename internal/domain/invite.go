package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInviteNotFound   = errors.New("invite not found")
	ErrAlreadyInvited   = errors.New("recipient already has a pending invite")
	ErrInviteNotPending = errors.New("invite is no longer pending")
)

type InviteStatus string

const (
	InvitePending  InviteStatus = "pending"
	InviteAccepted InviteStatus = "accepted"
)

// Invite is an out-of-band offer for a user to join a specific room.
// Invites are never declined; ignored ones simply stay pending until
// the TTL index reaps them.
type Invite struct {
	ID          string       `bson:"_id" json:"id"`
	SenderID    string       `bson:"sender_id" json:"senderId"`
	SenderName  string       `bson:"sender_name" json:"senderName"`
	RecipientID string       `bson:"recipient_id" json:"recipientId"`
	RoomID      string       `bson:"room_id" json:"roomId"`
	Status      InviteStatus `bson:"status" json:"status"`
	CreatedAt   time.Time    `bson:"created_at" json:"createdAt"`
}

type InviteRepository interface {
	Create(ctx context.Context, invite *Invite) error
	GetByID(ctx context.Context, id string) (*Invite, error)
	HasPending(ctx context.Context, roomID, recipientID string) (bool, error)
	ListPendingFor(ctx context.Context, recipientID string) ([]Invite, error)
	// MarkAccepted flips pending -> accepted; ErrInviteNotPending if the
	// invite was already consumed.
	MarkAccepted(ctx context.Context, id string) error
	EnsureIndexes(ctx context.Context) error
}

func NewInvite(roomID string, sender *Player, recipientID string, now time.Time) (*Invite, error) {
	if sender == nil || sender.UID == "" || recipientID == "" {
		return nil, ErrMissingIdentity
	}

	return &Invite{
		ID:          uuid.NewString(),
		SenderID:    sender.UID,
		SenderName:  sender.DisplayName,
		RecipientID: recipientID,
		RoomID:      roomID,
		Status:      InvitePending,
		CreatedAt:   now,
	}, nil
}
