package game

import (
	"context"
	"errors"
	"math/rand"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/trustnote/roomsync/internal/domain"
	"github.com/trustnote/roomsync/internal/infrastructure/logging"
	"github.com/trustnote/roomsync/internal/infrastructure/metrics"
)

// maxUpdateAttempts bounds the optimistic-concurrency retry loop.
const maxUpdateAttempts = 3

// RoomNotifier receives one snapshot per committed room write.
type RoomNotifier interface {
	PublishState(room *domain.Room)
}

// EventPublisher mirrors the AMQP publisher; failures are logged, never
// propagated to callers.
type EventPublisher interface {
	PublishRoomCreated(ctx context.Context, room domain.Room) error
	PublishPlayerJoined(ctx context.Context, room domain.Room, uid string) error
	PublishGameStarted(ctx context.Context, room domain.Room) error
	PublishVoteCast(ctx context.Context, room domain.Room, voterUID string) error
	PublishRoundAdvanced(ctx context.Context, room domain.Room) error
	PublishRoomEnded(ctx context.Context, room domain.Room, actorUID string) error
	PublishInviteSent(ctx context.Context, invite domain.Invite) error
	PublishInviteAccepted(ctx context.Context, invite domain.Invite) error
}

// Controller drives the waiting -> in_progress -> ended room state machine.
type Controller struct {
	rooms       domain.RoomRepository
	invites     domain.InviteRepository
	votes       domain.VoteRepository
	users       domain.UserRepository
	friendships domain.FriendshipRepository
	questions   domain.QuestionRepository
	audit       domain.RoomAuditRepository
	txn         domain.TxnRunner
	notifier    RoomNotifier
	publisher   EventPublisher
	clock       clockwork.Clock
	logger      logging.Logger
	metrics     *metrics.Metrics

	rngMu sync.Mutex
	rng   *rand.Rand
}

type ControllerParams struct {
	Rooms       domain.RoomRepository
	Invites     domain.InviteRepository
	Votes       domain.VoteRepository
	Users       domain.UserRepository
	Friendships domain.FriendshipRepository
	Questions   domain.QuestionRepository
	Audit       domain.RoomAuditRepository
	Txn         domain.TxnRunner
	Notifier    RoomNotifier
	Publisher   EventPublisher
	Clock       clockwork.Clock
	Logger      logging.Logger
	Metrics     *metrics.Metrics
	Rand        *rand.Rand
}

func NewController(p ControllerParams) *Controller {
	return &Controller{
		rooms:       p.Rooms,
		invites:     p.Invites,
		votes:       p.Votes,
		users:       p.Users,
		friendships: p.Friendships,
		questions:   p.Questions,
		audit:       p.Audit,
		txn:         p.Txn,
		notifier:    p.Notifier,
		publisher:   p.Publisher,
		clock:       p.Clock,
		logger:      p.Logger,
		metrics:     p.Metrics,
		rng:         p.Rand,
	}
}

func (c *Controller) CreateRoom(ctx context.Context, hostUID string, mode domain.GameMode, maxPlayers int) (*domain.Room, error) {
	host, err := c.users.GetByID(ctx, hostUID)
	if err != nil {
		return nil, err
	}

	room, err := domain.NewRoom(host.Player(), mode, maxPlayers, c.clock.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := c.rooms.Create(ctx, room); err != nil {
		c.countOp("create", "error")
		return nil, err
	}
	c.countOp("create", "ok")

	c.logger.Info(logging.Game, logging.Lifecycle, "room created", map[logging.ExtraKey]any{
		logging.RoomID: room.ID,
		logging.UserID: hostUID,
	})

	if err := c.publisher.PublishRoomCreated(ctx, *room); err != nil {
		c.logger.Errorf("publish room created: %v", err)
	}

	return room, nil
}

func (c *Controller) GetRoom(ctx context.Context, roomID string) (*domain.Room, error) {
	return c.rooms.GetByID(ctx, roomID)
}

func (c *Controller) JoinRoom(ctx context.Context, roomID, uid string) (*domain.Room, error) {
	profile, err := c.users.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}

	room, err := c.updateRoom(ctx, roomID, func(r *domain.Room) error {
		return r.AddPlayer(profile.Player())
	})
	if err != nil {
		c.countOp("join", "error")
		return nil, err
	}
	c.countOp("join", "ok")

	c.logger.Info(logging.Game, logging.Lifecycle, "player joined", map[logging.ExtraKey]any{
		logging.RoomID: room.ID,
		logging.UserID: uid,
	})

	c.notifier.PublishState(room)
	if err := c.publisher.PublishPlayerJoined(ctx, *room, uid); err != nil {
		c.logger.Errorf("publish player joined: %v", err)
	}

	return room, nil
}

func (c *Controller) StartGame(ctx context.Context, roomID, requesterUID string) (*domain.Room, error) {
	current, err := c.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	pool, err := c.questions.ListByGameMode(ctx, current.GameMode)
	if err != nil {
		if errors.Is(err, domain.ErrNoQuestions) {
			return nil, domain.ErrInsufficientQuestions
		}
		return nil, err
	}
	shuffled := c.shuffledQuestions(pool)

	room, err := c.updateRoom(ctx, roomID, func(r *domain.Room) error {
		return r.Start(requesterUID, shuffled)
	})
	if err != nil {
		c.countOp("start", "error")
		return nil, err
	}
	c.countOp("start", "ok")

	c.logger.Info(logging.Game, logging.Lifecycle, "game started", map[logging.ExtraKey]any{
		logging.RoomID: room.ID,
		logging.UserID: requesterUID,
	})

	c.notifier.PublishState(room)
	if err := c.publisher.PublishGameStarted(ctx, *room); err != nil {
		c.logger.Errorf("publish game started: %v", err)
	}

	return room, nil
}

func (c *Controller) EndRoom(ctx context.Context, roomID, requesterUID string) (*domain.Room, error) {
	room, err := c.updateRoom(ctx, roomID, func(r *domain.Room) error {
		return r.End(requesterUID)
	})
	if err != nil {
		c.countOp("end", "error")
		return nil, err
	}
	c.countOp("end", "ok")

	c.logger.Info(logging.Game, logging.Lifecycle, "room ended", map[logging.ExtraKey]any{
		logging.RoomID: room.ID,
		logging.UserID: requesterUID,
	})

	c.notifier.PublishState(room)
	if err := c.publisher.PublishRoomEnded(ctx, *room, requesterUID); err != nil {
		c.logger.Errorf("publish room ended: %v", err)
	}

	return room, nil
}

func (c *Controller) ListFriendsOf(ctx context.Context, uid string) ([]domain.UserProfile, error) {
	ids, err := c.friendships.ListFriendIDs(ctx, uid)
	if err != nil {
		return nil, err
	}
	return c.users.ListByIDs(ctx, ids)
}

// PendingFriendRequests counts requests waiting on the caller, for the
// badge next to the friends list.
func (c *Controller) PendingFriendRequests(ctx context.Context, uid string) (int64, error) {
	return c.friendships.CountPendingRequests(ctx, uid)
}

const maxHistoryEntries = 100

// RoomHistory returns the room's audit trail, newest first. Hosts only.
func (c *Controller) RoomHistory(ctx context.Context, roomID, requesterUID string, limit int) ([]domain.RoomAuditLog, error) {
	room, err := c.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.IsHost(requesterUID) {
		return nil, domain.ErrNotHost
	}
	if limit <= 0 || limit > maxHistoryEntries {
		limit = maxHistoryEntries
	}
	return c.audit.GetByRoomID(ctx, roomID, limit)
}

// updateRoom runs a read-mutate-write cycle, retrying a bounded number of
// times when another writer commits in between. Mutation errors abort
// immediately; only version conflicts retry.
func (c *Controller) updateRoom(ctx context.Context, roomID string, mutate func(*domain.Room) error) (*domain.Room, error) {
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		room, err := c.rooms.GetByID(ctx, roomID)
		if err != nil {
			return nil, err
		}

		if err := mutate(room); err != nil {
			return nil, err
		}

		err = c.rooms.Update(ctx, room)
		if err == nil {
			return room, nil
		}
		if !errors.Is(err, domain.ErrVersionConflict) {
			return nil, err
		}
		c.metrics.UpdateConflicts.Inc()
	}

	return nil, domain.ErrVersionConflict
}

func (c *Controller) countOp(operation, outcome string) {
	c.metrics.RoomOperations.WithLabelValues(operation, outcome).Inc()
}
