package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trustnote/roomsync/internal/domain"
	"github.com/trustnote/roomsync/internal/persistence/db"
)

type userRepository struct {
	db *mongo.Database
}

func NewUserRepository(database *mongo.Database) domain.UserRepository {
	return &userRepository{
		db: database,
	}
}

func (r *userRepository) GetByID(ctx context.Context, uid string) (*domain.UserProfile, error) {
	collection := r.db.Collection(db.UsersCollection)

	var user domain.UserProfile
	err := collection.FindOne(ctx, bson.M{"_id": uid}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) ListByIDs(ctx context.Context, uids []string) ([]domain.UserProfile, error) {
	if len(uids) == 0 {
		return []domain.UserProfile{}, nil
	}

	collection := r.db.Collection(db.UsersCollection)

	cursor, err := collection.Find(ctx, bson.M{"_id": bson.M{"$in": uids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []domain.UserProfile
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}

	return users, nil
}
