package repository

import (
	"context"
	"errors"
	"fmt"

	"expertise-marketplace/internal/domain/expert"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type MongoExpertRepository struct {
	collection *mongo.Collection
}

func NewMongoExpertRepository(db *mongo.Database, collection string) *MongoExpertRepository {
	return &MongoExpertRepository{collection: db.Collection(collection)}
}

// EnsureIndexes creates the email lookup index. It is not unique: duplicate
// emails are rejected by the directory service, not the store.
func (r *MongoExpertRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("email_lookup"),
	})
	if err != nil {
		return fmt.Errorf("failed to create email index: %w", err)
	}
	return nil
}

func (r *MongoExpertRepository) List(ctx context.Context) ([]expert.Expert, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoExpertRepository) FindByID(ctx context.Context, id string) (expert.Expert, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoExpertRepository) FindByEmail(ctx context.Context, email string) (expert.Expert, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoExpertRepository) Search(ctx context.Context, query string) ([]expert.Expert, error) {
	return r.find(ctx, mongoSearchFilter(query))
}

func (r *MongoExpertRepository) Insert(ctx context.Context, e expert.Expert) error {
	if _, err := r.collection.InsertOne(ctx, e); err != nil {
		return fmt.Errorf("failed to insert expert: %w", err)
	}
	return nil
}

func (r *MongoExpertRepository) Upsert(ctx context.Context, e expert.Expert) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": e.ID}, e, opts); err != nil {
		return fmt.Errorf("failed to upsert expert: %w", err)
	}
	return nil
}

func (r *MongoExpertRepository) find(ctx context.Context, filter bson.M) ([]expert.Expert, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := make([]expert.Expert, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoExpertRepository) findOne(ctx context.Context, filter bson.M) (expert.Expert, error) {
	var e expert.Expert
	err := r.collection.FindOne(ctx, filter).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return expert.Expert{}, expert.ErrNotFound
	}
	if err != nil {
		return expert.Expert{}, err
	}
	return e, nil
}

var _ expert.Repository = (*MongoExpertRepository)(nil)
