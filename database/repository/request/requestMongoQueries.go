package requestRepo

import (
	"context"
	"fmt"
	"time"

	"hireloop/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *MongoRequestRepo) list(ctx context.Context, base bson.M, filter ListFilter) ([]models.ServiceRequest, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	if len(filter.Statuses) > 0 {
		base["status"] = bson.M{"$in": filter.Statuses}
	}
	if filter.Kind != "" {
		base["kind"] = filter.Kind
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}

	cursor, err := r.coll.Find(ctx, base, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer cursor.Close(ctx)

	var reqs []models.ServiceRequest
	if err := cursor.All(ctx, &reqs); err != nil {
		return nil, fmt.Errorf("failed to decode requests: %w", err)
	}
	return reqs, nil
}

// ListByBuyer returns a buyer's requests, newest first.
func (r *MongoRequestRepo) ListByBuyer(ctx context.Context, buyerID string, filter ListFilter) ([]models.ServiceRequest, error) {
	return r.list(ctx, bson.M{"buyer_id": buyerID}, filter)
}

// ListBySeller returns the requests a seller has claimed, newest first.
func (r *MongoRequestRepo) ListBySeller(ctx context.Context, sellerID string, filter ListFilter) ([]models.ServiceRequest, error) {
	return r.list(ctx, bson.M{"seller_id": sellerID}, filter)
}

// FindDueForExpiry returns open instant requests whose offer window has
// passed as of now.
func (r *MongoRequestRepo) FindDueForExpiry(ctx context.Context, now time.Time, limit int64) ([]models.ServiceRequest, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"kind":       models.KindInstant,
		"status":     bson.M{"$in": openStatuses},
		"expires_at": bson.M{"$lte": now},
	}
	opts := options.Find().SetSort(bson.D{{Key: "expires_at", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find due requests: %w", err)
	}
	defer cursor.Close(ctx)

	var reqs []models.ServiceRequest
	if err := cursor.All(ctx, &reqs); err != nil {
		return nil, fmt.Errorf("failed to decode due requests: %w", err)
	}
	return reqs, nil
}

// FindOpenInstant returns instant requests that are still open and
// unexpired as of now: the set that should be present in the geo index.
func (r *MongoRequestRepo) FindOpenInstant(ctx context.Context, now time.Time, limit int64) ([]models.ServiceRequest, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"kind":       models.KindInstant,
		"status":     bson.M{"$in": openStatuses},
		"expires_at": bson.M{"$gt": now},
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find open instant requests: %w", err)
	}
	defer cursor.Close(ctx)

	var reqs []models.ServiceRequest
	if err := cursor.All(ctx, &reqs); err != nil {
		return nil, fmt.Errorf("failed to decode open instant requests: %w", err)
	}
	return reqs, nil
}

// NearbySearch runs a $geoNear aggregation over open instant requests:
// within RadiusKm of Center, not yet expired, optionally one category.
// $geoNear sorts by distance; created_at breaks ties oldest-first.
func (r *MongoRequestRepo) NearbySearch(ctx context.Context, criteria NearbySearchCriteria) ([]models.ServiceRequest, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	var pipeline mongo.Pipeline

	pipeline = append(pipeline, bson.D{
		{Key: "$geoNear", Value: bson.D{
			{Key: "near", Value: bson.D{
				{Key: "type", Value: "Point"},
				{Key: "coordinates", Value: criteria.Center.Coordinates},
			}},
			{Key: "distanceField", Value: "distance"},
			{Key: "spherical", Value: true},
			{Key: "maxDistance", Value: criteria.RadiusKm * 1000},
		}},
	})

	matchFilter := bson.M{
		"kind":       models.KindInstant,
		"status":     bson.M{"$in": openStatuses},
		"expires_at": bson.M{"$gt": criteria.Now},
	}
	if criteria.Category != "" {
		matchFilter["category"] = criteria.Category
	}
	pipeline = append(pipeline, bson.D{{Key: "$match", Value: matchFilter}})

	pipeline = append(pipeline, bson.D{{Key: "$sort", Value: bson.D{
		{Key: "distance", Value: 1},
		{Key: "created_at", Value: 1},
	}}})

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("nearby aggregation failed: %w", err)
	}
	defer cursor.Close(ctx)

	var reqs []models.ServiceRequest
	if err := cursor.All(ctx, &reqs); err != nil {
		return nil, fmt.Errorf("failed to decode nearby requests: %w", err)
	}
	return reqs, nil
}
