package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrUserNotFound = errors.New("user not found")
)

// UserProfile is the projection of an account this service reads; the
// identity provider that creates accounts lives elsewhere.
type UserProfile struct {
	UID         string    `bson:"_id" json:"uid"`
	DisplayName string    `bson:"display_name" json:"displayName"`
	Avatar      string    `bson:"avatar" json:"avatar"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
}

type UserRepository interface {
	GetByID(ctx context.Context, uid string) (*UserProfile, error)
	ListByIDs(ctx context.Context, uids []string) ([]UserProfile, error)
}

type FriendshipStatus string

const (
	FriendshipRequested FriendshipStatus = "requested"
	FriendshipAccepted  FriendshipStatus = "accepted"
)

// Friendship is an undirected relation stored with the requester as
// user_id1 and the recipient as user_id2.
type Friendship struct {
	ID        string           `bson:"_id" json:"id"`
	UserID1   string           `bson:"user_id1" json:"userId1"`
	UserID2   string           `bson:"user_id2" json:"userId2"`
	Status    FriendshipStatus `bson:"status" json:"status"`
	CreatedAt time.Time        `bson:"created_at" json:"createdAt"`
}

type FriendshipRepository interface {
	// ListFriendIDs returns the uids on the other side of every accepted
	// friendship involving uid.
	ListFriendIDs(ctx context.Context, uid string) ([]string, error)
	CountPendingRequests(ctx context.Context, uid string) (int64, error)
}

// Player converts a profile into a room membership entry.
func (u *UserProfile) Player() *Player {
	avatar := u.Avatar
	if avatar == "" {
		avatar = DefaultAvatarURL(u.DisplayName)
	}
	return &Player{
		UID:         u.UID,
		DisplayName: u.DisplayName,
		Avatar:      avatar,
	}
}

func DefaultAvatarURL(seed string) string {
	return fmt.Sprintf("https://api.dicebear.com/8.x/pixel-art/png?seed=%s", strings.TrimSpace(seed))
}
