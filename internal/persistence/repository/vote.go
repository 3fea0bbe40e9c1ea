package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trustnote/roomsync/internal/domain"
	"github.com/trustnote/roomsync/internal/persistence/db"
)

type voteRepository struct {
	db *mongo.Database
}

func NewVoteRepository(database *mongo.Database) domain.VoteRepository {
	return &voteRepository{
		db: database,
	}
}

func (r *voteRepository) Record(ctx context.Context, vote *domain.Vote) error {
	collection := r.db.Collection(db.GameVotesCollection)

	_, err := collection.InsertOne(ctx, vote)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrDuplicateVote
	}
	return err
}

func (r *voteRepository) ListForRound(ctx context.Context, roomID string, roundIndex int) ([]domain.Vote, error) {
	collection := r.db.Collection(db.GameVotesCollection)

	filter := bson.M{
		"room_id":     roomID,
		"round_index": roundIndex,
	}
	opts := options.Find().SetSort(bson.D{{Key: "cast_at", Value: 1}})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var votes []domain.Vote
	if err := cursor.All(ctx, &votes); err != nil {
		return nil, err
	}

	return votes, nil
}

func (r *voteRepository) CountForRound(ctx context.Context, roomID string, roundIndex int) (int64, error) {
	collection := r.db.Collection(db.GameVotesCollection)

	return collection.CountDocuments(ctx, bson.M{
		"room_id":     roomID,
		"round_index": roundIndex,
	})
}

func (r *voteRepository) EnsureIndexes(ctx context.Context) error {
	collection := r.db.Collection(db.GameVotesCollection)

	indexes := []mongo.IndexModel{
		{
			// One ballot per voter per round.
			Keys: bson.D{
				{Key: "room_id", Value: 1},
				{Key: "round_index", Value: 1},
				{Key: "voter_uid", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
