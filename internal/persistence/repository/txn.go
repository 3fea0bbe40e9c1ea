package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trustnote/roomsync/internal/domain"
)

type mongoTxnRunner struct {
	client *mongo.Client
}

// NewTxnRunner returns a TxnRunner backed by mongo sessions. The target
// deployment must be a replica set or mongos; standalone servers reject
// multi-document transactions.
func NewTxnRunner(client *mongo.Client) domain.TxnRunner {
	return &mongoTxnRunner{
		client: client,
	}
}

func (t *mongoTxnRunner) WithinTxn(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := t.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
		return nil, fn(sessCtx)
	})
	return err
}
