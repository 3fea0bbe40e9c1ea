package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrDuplicateVote = errors.New("voter already voted this round")
)

// Vote is one ballot in a round. Uniqueness is enforced per
// (room, round, voter) by the storage layer.
type Vote struct {
	ID         string    `bson:"_id" json:"id"`
	RoomID     string    `bson:"room_id" json:"roomId"`
	RoundIndex int       `bson:"round_index" json:"roundIndex"`
	VoterUID   string    `bson:"voter_uid" json:"voterUid"`
	TargetUID  string    `bson:"target_uid" json:"targetUid"`
	CastAt     time.Time `bson:"cast_at" json:"castAt"`
}

type VoteRepository interface {
	// Record inserts the ballot; ErrDuplicateVote if this voter already
	// voted in this round.
	Record(ctx context.Context, vote *Vote) error
	ListForRound(ctx context.Context, roomID string, roundIndex int) ([]Vote, error)
	CountForRound(ctx context.Context, roomID string, roundIndex int) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

func NewVote(roomID string, roundIndex int, voterUID, targetUID string, now time.Time) (*Vote, error) {
	if voterUID == "" || targetUID == "" {
		return nil, ErrMissingIdentity
	}

	return &Vote{
		ID:         uuid.NewString(),
		RoomID:     roomID,
		RoundIndex: roundIndex,
		VoterUID:   voterUID,
		TargetUID:  targetUID,
		CastAt:     now,
	}, nil
}
