package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultMaxPlayers = 8
	MinPlayersToStart = 2
	RoundsPerGame     = 10
)

var (
	ErrRoomNotFound         = errors.New("room not found")
	ErrRoomFull             = errors.New("room is full")
	ErrRoomNotJoinable      = errors.New("room is not accepting players")
	ErrRoomNotInProgress    = errors.New("room has no game in progress")
	ErrAlreadyJoined        = errors.New("already in room")
	ErrNotHost              = errors.New("only the host may do that")
	ErrNotAMember           = errors.New("not a member of this room")
	ErrNotEnoughPlayers     = errors.New("not enough players to start")
	ErrInsufficientQuestions = errors.New("not enough questions to start")
	ErrStaleRound           = errors.New("round has already advanced")
	ErrVersionConflict      = errors.New("room was modified concurrently")
	ErrMissingIdentity      = errors.New("user identity is missing")
)

type GameMode string

const (
	ModeMostLikelyTo GameMode = "most_likely_to"
)

type RoomStatus string

const (
	StatusWaiting    RoomStatus = "waiting"
	StatusInProgress RoomStatus = "in_progress"
	StatusEnded      RoomStatus = "ended"
)

// Player is embedded in a Room and never mutated after insertion.
type Player struct {
	UID         string `bson:"uid" json:"uid"`
	DisplayName string `bson:"display_name" json:"displayName"`
	Avatar      string `bson:"avatar" json:"avatar"`
	IsHost      bool   `bson:"is_host" json:"isHost"`
}

type Room struct {
	ID                string     `bson:"_id" json:"id"`
	GameMode          GameMode   `bson:"game_mode" json:"gameMode"`
	Status            RoomStatus `bson:"status" json:"status"`
	MaxPlayers        int        `bson:"max_players" json:"maxPlayers"`
	Players           []Player   `bson:"players" json:"players"`
	PlayerIDs         []string   `bson:"player_ids" json:"playerIds"`
	CurrentRoundIndex int        `bson:"current_round_index" json:"currentRoundIndex"`
	Questions         []string   `bson:"questions" json:"questions"`
	CreatedBy         string     `bson:"created_by" json:"createdBy"`
	CreatedAt         time.Time  `bson:"created_at" json:"createdAt"`

	// Version increments on every committed write; writers must supply
	// the version they read or the update is rejected.
	Version int64 `bson:"version" json:"version"`
}

type RoomRepository interface {
	Create(ctx context.Context, room *Room) error
	GetByID(ctx context.Context, id string) (*Room, error)
	// Update replaces the stored room iff its version still equals
	// room.Version, then bumps the version. Returns ErrVersionConflict
	// when another writer got there first.
	Update(ctx context.Context, room *Room) error
	EnsureIndexes(ctx context.Context) error
}

func NewRoom(host *Player, mode GameMode, maxPlayers int, now time.Time) (*Room, error) {
	if host == nil || host.UID == "" {
		return nil, ErrMissingIdentity
	}
	if maxPlayers < MinPlayersToStart {
		maxPlayers = DefaultMaxPlayers
	}

	hostEntry := *host
	hostEntry.IsHost = true

	return &Room{
		ID:                uuid.NewString(),
		GameMode:          mode,
		Status:            StatusWaiting,
		MaxPlayers:        maxPlayers,
		Players:           []Player{hostEntry},
		PlayerIDs:         []string{hostEntry.UID},
		CurrentRoundIndex: 0,
		CreatedBy:         hostEntry.UID,
		CreatedAt:         now,
	}, nil
}

func (r *Room) IsHost(uid string) bool {
	return uid != "" && r.CreatedBy == uid
}

func (r *Room) HasPlayer(uid string) bool {
	for _, id := range r.PlayerIDs {
		if id == uid {
			return true
		}
	}
	return false
}

// AddPlayer appends p as a non-host member. The caller persists the room
// afterwards; nothing here touches storage.
func (r *Room) AddPlayer(p *Player) error {
	if p == nil || p.UID == "" {
		return ErrMissingIdentity
	}
	if r.Status != StatusWaiting {
		return ErrRoomNotJoinable
	}
	if r.HasPlayer(p.UID) {
		return ErrAlreadyJoined
	}
	if len(r.Players) >= r.MaxPlayers {
		return ErrRoomFull
	}

	entry := *p
	entry.IsHost = false
	r.Players = append(r.Players, entry)
	r.PlayerIDs = append(r.PlayerIDs, entry.UID)
	return nil
}

// Start transitions waiting -> in_progress with the given question list.
func (r *Room) Start(requesterUID string, questions []string) error {
	if !r.IsHost(requesterUID) {
		return ErrNotHost
	}
	if r.Status != StatusWaiting {
		return ErrRoomNotJoinable
	}
	if len(r.Players) < MinPlayersToStart {
		return ErrNotEnoughPlayers
	}
	if len(questions) < RoundsPerGame {
		return ErrInsufficientQuestions
	}

	r.Questions = questions[:RoundsPerGame]
	r.Status = StatusInProgress
	r.CurrentRoundIndex = 0
	return nil
}

// AdvanceRound moves to the next round, or ends the game after the final one.
func (r *Room) AdvanceRound() error {
	if r.Status != StatusInProgress {
		return ErrRoomNotInProgress
	}
	if r.CurrentRoundIndex+1 >= len(r.Questions) {
		r.Status = StatusEnded
		return nil
	}
	r.CurrentRoundIndex++
	return nil
}

func (r *Room) End(requesterUID string) error {
	if !r.IsHost(requesterUID) {
		return ErrNotHost
	}
	if r.Status == StatusEnded {
		return nil
	}
	r.Status = StatusEnded
	return nil
}

// Consistent reports whether the membership mirror invariants hold:
// player_ids matches the uid set of players, capacity is respected and
// exactly one player (the creator) is host.
func (r *Room) Consistent() bool {
	if len(r.Players) != len(r.PlayerIDs) || len(r.Players) > r.MaxPlayers {
		return false
	}
	seen := make(map[string]bool, len(r.Players))
	hosts := 0
	for _, p := range r.Players {
		seen[p.UID] = true
		if p.IsHost {
			hosts++
			if p.UID != r.CreatedBy {
				return false
			}
		}
	}
	for _, id := range r.PlayerIDs {
		if !seen[id] {
			return false
		}
	}
	if hosts != 1 {
		return false
	}
	if r.Status == StatusInProgress && r.CurrentRoundIndex >= len(r.Questions) {
		return false
	}
	return true
}
