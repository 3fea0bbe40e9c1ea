package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trustnote/roomsync/internal/domain"
	"github.com/trustnote/roomsync/internal/persistence/db"
)

// Ignored invites never leave pending, so the collection would grow
// forever without a TTL. 90 days matches the audit-log retention.
const inviteTTLSeconds = 7776000

type inviteRepository struct {
	db *mongo.Database
}

func NewInviteRepository(database *mongo.Database) domain.InviteRepository {
	return &inviteRepository{
		db: database,
	}
}

func (r *inviteRepository) Create(ctx context.Context, invite *domain.Invite) error {
	collection := r.db.Collection(db.GameInvitesCollection)

	_, err := collection.InsertOne(ctx, invite)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrAlreadyInvited
	}
	return err
}

func (r *inviteRepository) GetByID(ctx context.Context, id string) (*domain.Invite, error) {
	collection := r.db.Collection(db.GameInvitesCollection)

	var invite domain.Invite
	err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&invite)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrInviteNotFound
	}
	if err != nil {
		return nil, err
	}

	return &invite, nil
}

func (r *inviteRepository) HasPending(ctx context.Context, roomID, recipientID string) (bool, error) {
	collection := r.db.Collection(db.GameInvitesCollection)

	filter := bson.M{
		"room_id":      roomID,
		"recipient_id": recipientID,
		"status":       domain.InvitePending,
	}

	count, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *inviteRepository) ListPendingFor(ctx context.Context, recipientID string) ([]domain.Invite, error) {
	collection := r.db.Collection(db.GameInvitesCollection)

	filter := bson.M{
		"recipient_id": recipientID,
		"status":       domain.InvitePending,
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var invites []domain.Invite
	if err := cursor.All(ctx, &invites); err != nil {
		return nil, err
	}

	return invites, nil
}

func (r *inviteRepository) MarkAccepted(ctx context.Context, id string) error {
	collection := r.db.Collection(db.GameInvitesCollection)

	result, err := collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": domain.InvitePending},
		bson.M{"$set": bson.M{"status": domain.InviteAccepted}},
	)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		count, err := collection.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return err
		}
		if count == 0 {
			return domain.ErrInviteNotFound
		}
		return domain.ErrInviteNotPending
	}

	return nil
}

func (r *inviteRepository) EnsureIndexes(ctx context.Context) error {
	collection := r.db.Collection(db.GameInvitesCollection)

	indexes := []mongo.IndexModel{
		{
			// One pending invite per (room, recipient) pair.
			Keys: bson.D{
				{Key: "room_id", Value: 1},
				{Key: "recipient_id", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": domain.InvitePending}),
		},
		{
			Keys: bson.D{
				{Key: "recipient_id", Value: 1},
				{Key: "status", Value: 1},
				{Key: "created_at", Value: -1},
			},
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(inviteTTLSeconds),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
