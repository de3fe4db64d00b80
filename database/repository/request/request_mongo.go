package requestRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hireloop/database"
	"hireloop/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoRequestRepo implements RequestRepository using MongoDB.
type MongoRequestRepo struct {
	coll *mongo.Collection
}

// NewMongoRequestRepo creates a RequestRepository backed by the
// "service_requests" collection and ensures its indexes.
func NewMongoRequestRepo() RequestRepository {
	coll := database.MongoClient.Database(database.Name).Collection("service_requests")
	repo := &MongoRequestRepo{coll: coll}
	if err := repo.ensureIndexes(); err != nil {
		panic(fmt.Sprintf("service_requests indexes: %v", err))
	}
	return repo
}

func newContext(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, d)
}

func (r *MongoRequestRepo) GetByID(ctx context.Context, id string) (*models.ServiceRequest, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var req models.ServiceRequest
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&req); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch request %s: %w", id, err)
	}
	return &req, nil
}

func (r *MongoRequestRepo) GetByIDs(ctx context.Context, ids []string) ([]models.ServiceRequest, error) {
	if len(ids) == 0 {
		return []models.ServiceRequest{}, nil
	}
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch requests by ids: %w", err)
	}
	defer cursor.Close(ctx)

	var reqs []models.ServiceRequest
	if err := cursor.All(ctx, &reqs); err != nil {
		return nil, fmt.Errorf("failed to decode requests: %w", err)
	}
	return reqs, nil
}
