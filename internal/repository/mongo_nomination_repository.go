package repository

import (
	"context"
	"errors"
	"fmt"

	"expertise-marketplace/internal/domain/expert"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// namespaceExists is the server code returned when a collection is created twice.
const namespaceExists = 48

type MongoNominationRepository struct {
	db   *mongo.Database
	name string
}

func NewMongoNominationRepository(db *mongo.Database, collection string) *MongoNominationRepository {
	return &MongoNominationRepository{db: db, name: collection}
}

func (r *MongoNominationRepository) EnsureCollection(ctx context.Context) error {
	names, err := r.db.ListCollectionNames(ctx, bson.M{"name": r.name})
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}
	if len(names) > 0 {
		return nil
	}

	err = r.db.CreateCollection(ctx, r.name)
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == namespaceExists {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create collection %s: %w", r.name, err)
	}
	return nil
}

func (r *MongoNominationRepository) Insert(ctx context.Context, n expert.Nomination) error {
	if _, err := r.db.Collection(r.name).InsertOne(ctx, n); err != nil {
		return fmt.Errorf("failed to insert nomination: %w", err)
	}
	return nil
}

var _ expert.NominationRepository = (*MongoNominationRepository)(nil)
