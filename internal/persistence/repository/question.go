package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trustnote/roomsync/internal/domain"
	"github.com/trustnote/roomsync/internal/persistence/db"
)

type questionRepository struct {
	db *mongo.Database
}

func NewQuestionRepository(database *mongo.Database) domain.QuestionRepository {
	return &questionRepository{
		db: database,
	}
}

func (r *questionRepository) ListByGameMode(ctx context.Context, mode domain.GameMode) ([]string, error) {
	collection := r.db.Collection(db.QuestionsCollection)

	cursor, err := collection.Find(ctx, bson.M{"game_mode": mode})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var questions []domain.Question
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, err
	}

	if len(questions) == 0 {
		return nil, domain.ErrNoQuestions
	}

	texts := make([]string, 0, len(questions))
	for _, q := range questions {
		texts = append(texts, q.Text)
	}

	return texts, nil
}

func (r *questionRepository) EnsureIndexes(ctx context.Context) error {
	collection := r.db.Collection(db.QuestionsCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "game_mode", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
