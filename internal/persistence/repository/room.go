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

type roomRepository struct {
	db *mongo.Database
}

func NewRoomRepository(database *mongo.Database) domain.RoomRepository {
	return &roomRepository{
		db: database,
	}
}

func (r *roomRepository) Create(ctx context.Context, room *domain.Room) error {
	collection := r.db.Collection(db.GameRoomsCollection)

	room.Version = 1
	_, err := collection.InsertOne(ctx, room)
	return err
}

func (r *roomRepository) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	collection := r.db.Collection(db.GameRoomsCollection)

	var room domain.Room
	err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&room)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}

	return &room, nil
}

// Update is the optimistic-concurrency write path: the replacement only
// matches when the stored version still equals the version the caller
// read, and the committed document carries version+1.
func (r *roomRepository) Update(ctx context.Context, room *domain.Room) error {
	collection := r.db.Collection(db.GameRoomsCollection)

	readVersion := room.Version
	room.Version = readVersion + 1

	result, err := collection.ReplaceOne(ctx,
		bson.M{"_id": room.ID, "version": readVersion},
		room,
	)
	if err != nil {
		room.Version = readVersion
		return err
	}

	if result.MatchedCount == 0 {
		room.Version = readVersion

		// Distinguish a concurrent write from a vanished room.
		count, err := collection.CountDocuments(ctx, bson.M{"_id": room.ID})
		if err != nil {
			return err
		}
		if count == 0 {
			return domain.ErrRoomNotFound
		}
		return domain.ErrVersionConflict
	}

	return nil
}

func (r *roomRepository) EnsureIndexes(ctx context.Context) error {
	collection := r.db.Collection(db.GameRoomsCollection)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "created_at", Value: -1},
			},
		},
		{
			Keys: bson.D{{Key: "player_ids", Value: 1}},
		},
		{
			Keys:    bson.D{{Key: "created_by", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
