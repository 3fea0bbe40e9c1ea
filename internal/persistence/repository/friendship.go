package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trustnote/roomsync/internal/domain"
	"github.com/trustnote/roomsync/internal/persistence/db"
)

type friendshipRepository struct {
	db *mongo.Database
}

func NewFriendshipRepository(database *mongo.Database) domain.FriendshipRepository {
	return &friendshipRepository{
		db: database,
	}
}

func (r *friendshipRepository) ListFriendIDs(ctx context.Context, uid string) ([]string, error) {
	collection := r.db.Collection(db.FriendshipsCollection)

	filter := bson.M{
		"status": domain.FriendshipAccepted,
		"$or": []bson.M{
			{"user_id1": uid},
			{"user_id2": uid},
		},
	}

	cursor, err := collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var friendships []domain.Friendship
	if err := cursor.All(ctx, &friendships); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(friendships))
	for _, f := range friendships {
		if f.UserID1 == uid {
			ids = append(ids, f.UserID2)
		} else {
			ids = append(ids, f.UserID1)
		}
	}

	return ids, nil
}

func (r *friendshipRepository) CountPendingRequests(ctx context.Context, uid string) (int64, error) {
	collection := r.db.Collection(db.FriendshipsCollection)

	return collection.CountDocuments(ctx, bson.M{
		"user_id2": uid,
		"status":   domain.FriendshipRequested,
	})
}
