package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNoQuestions = errors.New("no questions for game mode")
)

type Question struct {
	ID        string    `bson:"_id" json:"id"`
	GameMode  GameMode  `bson:"game_mode" json:"gameMode"`
	Text      string    `bson:"text" json:"text"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

type QuestionRepository interface {
	// ListByGameMode returns the full question pool for a mode.
	ListByGameMode(ctx context.Context, mode GameMode) ([]string, error)
	EnsureIndexes(ctx context.Context) error
}
