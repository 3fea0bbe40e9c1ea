package game

import (
	"context"
	"math/rand"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/trustnote/roomsync/internal/domain"
	"github.com/trustnote/roomsync/internal/infrastructure/logging"
	"github.com/trustnote/roomsync/internal/infrastructure/metrics"
)

// ---------- room repo ----------

type fakeRoomRepo struct {
	mu        sync.Mutex
	rooms     map[string]domain.Room
	conflicts int // Update fails with ErrVersionConflict this many times first
}

func newFakeRoomRepo() *fakeRoomRepo {
	return &fakeRoomRepo{rooms: make(map[string]domain.Room)}
}

func cloneRoom(r *domain.Room) domain.Room {
	c := *r
	c.Players = append([]domain.Player(nil), r.Players...)
	c.PlayerIDs = append([]string(nil), r.PlayerIDs...)
	c.Questions = append([]string(nil), r.Questions...)
	return c
}

func (f *fakeRoomRepo) Create(_ context.Context, room *domain.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	room.Version = 1
	f.rooms[room.ID] = cloneRoom(room)
	return nil
}

func (f *fakeRoomRepo) GetByID(_ context.Context, id string) (*domain.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.rooms[id]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	c := cloneRoom(&stored)
	return &c, nil
}

func (f *fakeRoomRepo) Update(_ context.Context, room *domain.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conflicts > 0 {
		f.conflicts--
		return domain.ErrVersionConflict
	}
	stored, ok := f.rooms[room.ID]
	if !ok {
		return domain.ErrRoomNotFound
	}
	if stored.Version != room.Version {
		return domain.ErrVersionConflict
	}
	room.Version++
	f.rooms[room.ID] = cloneRoom(room)
	return nil
}

func (f *fakeRoomRepo) EnsureIndexes(context.Context) error { return nil }

func (f *fakeRoomRepo) snapshot() map[string]domain.Room {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]domain.Room, len(f.rooms))
	for k, v := range f.rooms {
		out[k] = cloneRoom(&v)
	}
	return out
}

func (f *fakeRoomRepo) restore(s map[string]domain.Room) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rooms = s
}

// ---------- invite repo ----------

type fakeInviteRepo struct {
	mu      sync.Mutex
	invites map[string]domain.Invite
}

func newFakeInviteRepo() *fakeInviteRepo {
	return &fakeInviteRepo{invites: make(map[string]domain.Invite)}
}

func (f *fakeInviteRepo) Create(_ context.Context, invite *domain.Invite) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.invites {
		if existing.RoomID == invite.RoomID &&
			existing.RecipientID == invite.RecipientID &&
			existing.Status == domain.InvitePending {
			return domain.ErrAlreadyInvited
		}
	}
	f.invites[invite.ID] = *invite
	return nil
}

func (f *fakeInviteRepo) GetByID(_ context.Context, id string) (*domain.Invite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.invites[id]
	if !ok {
		return nil, domain.ErrInviteNotFound
	}
	c := stored
	return &c, nil
}

func (f *fakeInviteRepo) HasPending(_ context.Context, roomID, recipientID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inv := range f.invites {
		if inv.RoomID == roomID && inv.RecipientID == recipientID && inv.Status == domain.InvitePending {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeInviteRepo) ListPendingFor(_ context.Context, recipientID string) ([]domain.Invite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Invite
	for _, inv := range f.invites {
		if inv.RecipientID == recipientID && inv.Status == domain.InvitePending {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (f *fakeInviteRepo) MarkAccepted(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.invites[id]
	if !ok {
		return domain.ErrInviteNotFound
	}
	if stored.Status != domain.InvitePending {
		return domain.ErrInviteNotPending
	}
	stored.Status = domain.InviteAccepted
	f.invites[id] = stored
	return nil
}

func (f *fakeInviteRepo) EnsureIndexes(context.Context) error { return nil }

func (f *fakeInviteRepo) snapshot() map[string]domain.Invite {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]domain.Invite, len(f.invites))
	for k, v := range f.invites {
		out[k] = v
	}
	return out
}

func (f *fakeInviteRepo) restore(s map[string]domain.Invite) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invites = s
}

// ---------- vote repo ----------

type voteKey struct {
	roomID string
	round  int
	voter  string
}

type fakeVoteRepo struct {
	mu    sync.Mutex
	votes map[voteKey]domain.Vote
}

func newFakeVoteRepo() *fakeVoteRepo {
	return &fakeVoteRepo{votes: make(map[voteKey]domain.Vote)}
}

func (f *fakeVoteRepo) Record(_ context.Context, vote *domain.Vote) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := voteKey{vote.RoomID, vote.RoundIndex, vote.VoterUID}
	if _, exists := f.votes[key]; exists {
		return domain.ErrDuplicateVote
	}
	f.votes[key] = *vote
	return nil
}

func (f *fakeVoteRepo) ListForRound(_ context.Context, roomID string, roundIndex int) ([]domain.Vote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Vote
	for key, v := range f.votes {
		if key.roomID == roomID && key.round == roundIndex {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeVoteRepo) CountForRound(ctx context.Context, roomID string, roundIndex int) (int64, error) {
	votes, err := f.ListForRound(ctx, roomID, roundIndex)
	if err != nil {
		return 0, err
	}
	return int64(len(votes)), nil
}

func (f *fakeVoteRepo) EnsureIndexes(context.Context) error { return nil }

func (f *fakeVoteRepo) snapshot() map[voteKey]domain.Vote {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[voteKey]domain.Vote, len(f.votes))
	for k, v := range f.votes {
		out[k] = v
	}
	return out
}

func (f *fakeVoteRepo) restore(s map[voteKey]domain.Vote) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.votes = s
}

// ---------- user / friendship / question repos ----------

type fakeUserRepo struct {
	users map[string]domain.UserProfile
}

func (f *fakeUserRepo) GetByID(_ context.Context, uid string) (*domain.UserProfile, error) {
	u, ok := f.users[uid]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	c := u
	return &c, nil
}

func (f *fakeUserRepo) ListByIDs(_ context.Context, uids []string) ([]domain.UserProfile, error) {
	var out []domain.UserProfile
	for _, uid := range uids {
		if u, ok := f.users[uid]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeFriendshipRepo struct {
	friendships []domain.Friendship
}

func (f *fakeFriendshipRepo) ListFriendIDs(_ context.Context, uid string) ([]string, error) {
	var out []string
	for _, fr := range f.friendships {
		if fr.Status != domain.FriendshipAccepted {
			continue
		}
		switch uid {
		case fr.UserID1:
			out = append(out, fr.UserID2)
		case fr.UserID2:
			out = append(out, fr.UserID1)
		}
	}
	return out, nil
}

func (f *fakeFriendshipRepo) CountPendingRequests(_ context.Context, uid string) (int64, error) {
	var n int64
	for _, fr := range f.friendships {
		if fr.UserID2 == uid && fr.Status == domain.FriendshipRequested {
			n++
		}
	}
	return n, nil
}

type fakeAuditRepo struct {
	mu   sync.Mutex
	logs []domain.RoomAuditLog
}

func (f *fakeAuditRepo) Log(_ context.Context, entry *domain.RoomAuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs = append(f.logs, *entry)
	return nil
}

func (f *fakeAuditRepo) GetByRoomID(_ context.Context, roomID string, limit int) ([]domain.RoomAuditLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.RoomAuditLog
	for i := len(f.logs) - 1; i >= 0 && len(out) < limit; i-- {
		if f.logs[i].RoomID == roomID {
			out = append(out, f.logs[i])
		}
	}
	return out, nil
}

func (f *fakeAuditRepo) EnsureIndexes(context.Context) error { return nil }

type fakeQuestionRepo struct {
	pools map[domain.GameMode][]string
}

func (f *fakeQuestionRepo) ListByGameMode(_ context.Context, mode domain.GameMode) ([]string, error) {
	pool, ok := f.pools[mode]
	if !ok || len(pool) == 0 {
		return nil, domain.ErrNoQuestions
	}
	return append([]string(nil), pool...), nil
}

func (f *fakeQuestionRepo) EnsureIndexes(context.Context) error { return nil }

// ---------- txn runner ----------

// fakeTxnRunner emulates transactional rollback by snapshotting the fake
// stores before fn and restoring them when fn fails.
type fakeTxnRunner struct {
	rooms   *fakeRoomRepo
	invites *fakeInviteRepo
	votes   *fakeVoteRepo
}

func (t *fakeTxnRunner) WithinTxn(ctx context.Context, fn func(ctx context.Context) error) error {
	roomSnap := t.rooms.snapshot()
	inviteSnap := t.invites.snapshot()
	voteSnap := t.votes.snapshot()

	if err := fn(ctx); err != nil {
		t.rooms.restore(roomSnap)
		t.invites.restore(inviteSnap)
		t.votes.restore(voteSnap)
		return err
	}
	return nil
}

// ---------- notifier / publisher ----------

type fakeNotifier struct {
	mu     sync.Mutex
	states []domain.Room
}

func (f *fakeNotifier) PublishState(room *domain.Room) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states = append(f.states, cloneRoom(room))
}

func (f *fakeNotifier) published() []domain.Room {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Room(nil), f.states...)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []string
}

func (f *fakePublisher) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, name)
	return nil
}

func (f *fakePublisher) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.events...)
}

func (f *fakePublisher) PublishRoomCreated(context.Context, domain.Room) error {
	return f.record("room.created")
}
func (f *fakePublisher) PublishPlayerJoined(context.Context, domain.Room, string) error {
	return f.record("room.player_joined")
}
func (f *fakePublisher) PublishGameStarted(context.Context, domain.Room) error {
	return f.record("room.game_started")
}
func (f *fakePublisher) PublishVoteCast(context.Context, domain.Room, string) error {
	return f.record("room.vote_cast")
}
func (f *fakePublisher) PublishRoundAdvanced(context.Context, domain.Room) error {
	return f.record("room.round_advanced")
}
func (f *fakePublisher) PublishRoomEnded(context.Context, domain.Room, string) error {
	return f.record("room.ended")
}
func (f *fakePublisher) PublishInviteSent(context.Context, domain.Invite) error {
	return f.record("invite.sent")
}
func (f *fakePublisher) PublishInviteAccepted(context.Context, domain.Invite) error {
	return f.record("invite.accepted")
}

// ---------- environment ----------

type testEnv struct {
	rooms     *fakeRoomRepo
	invites   *fakeInviteRepo
	votes     *fakeVoteRepo
	users     *fakeUserRepo
	questions *fakeQuestionRepo
	friends   *fakeFriendshipRepo
	auditLogs *fakeAuditRepo
	notifier  *fakeNotifier
	publisher *fakePublisher
	clock     *clockwork.FakeClock

	controller *Controller
}

type nopLogger struct{}

func (nopLogger) Init()                                                              {}
func (nopLogger) Debug(logging.Category, logging.SubCategory, string, map[logging.ExtraKey]any) {}
func (nopLogger) Debugf(string, ...any)                                              {}
func (nopLogger) Info(logging.Category, logging.SubCategory, string, map[logging.ExtraKey]any)  {}
func (nopLogger) Infof(string, ...any)                                               {}
func (nopLogger) Warn(logging.Category, logging.SubCategory, string, map[logging.ExtraKey]any)  {}
func (nopLogger) Warnf(string, ...any)                                               {}
func (nopLogger) Error(logging.Category, logging.SubCategory, string, map[logging.ExtraKey]any) {}
func (nopLogger) Errorf(string, ...any)                                              {}
func (nopLogger) Fatal(logging.Category, logging.SubCategory, string, map[logging.ExtraKey]any) {}
func (nopLogger) Fatalf(string, ...any)                                              {}

func newTestEnv() *testEnv {
	env := &testEnv{
		rooms:   newFakeRoomRepo(),
		invites: newFakeInviteRepo(),
		votes:   newFakeVoteRepo(),
		users: &fakeUserRepo{users: map[string]domain.UserProfile{
			"host":  {UID: "host", DisplayName: "hosty", Avatar: "https://example.com/host.png"},
			"guest": {UID: "guest", DisplayName: "guesty"},
			"third": {UID: "third", DisplayName: "thirdy"},
		}},
		questions: &fakeQuestionRepo{pools: map[domain.GameMode][]string{
			domain.ModeMostLikelyTo: questionPool(12),
		}},
		friends:   &fakeFriendshipRepo{},
		auditLogs: &fakeAuditRepo{},
		notifier:  &fakeNotifier{},
		publisher: &fakePublisher{},
		clock:     clockwork.NewFakeClock(),
	}

	env.controller = NewController(ControllerParams{
		Rooms:       env.rooms,
		Invites:     env.invites,
		Votes:       env.votes,
		Users:       env.users,
		Friendships: env.friends,
		Questions:   env.questions,
		Audit:       env.auditLogs,
		Txn:         &fakeTxnRunner{rooms: env.rooms, invites: env.invites, votes: env.votes},
		Notifier:    env.notifier,
		Publisher:   env.publisher,
		Clock:       env.clock,
		Logger:      nopLogger{},
		Metrics:     metrics.New(prometheus.NewRegistry()),
		Rand:        rand.New(rand.NewSource(1)),
	})

	return env
}

func questionPool(n int) []string {
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, "question "+string(rune('a'+i)))
	}
	return out
}
