package requestRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hireloop/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func findAfter() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

var openStatuses = bson.A{models.StatusPending, models.StatusPriceBoosted}

// Accept claims the request for sellerID. The filter and update run as one
// FindOneAndUpdate, so under concurrent accepts the store serializes the
// writes and exactly one matches; every later attempt sees a non-null
// seller_id and falls through to ErrConflict. A read-then-write here would
// let two sellers win.
func (r *MongoRequestRepo) Accept(ctx context.Context, id, sellerID string, at time.Time) (*models.ServiceRequest, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":        id,
		"status":    bson.M{"$in": openStatuses},
		"seller_id": bson.M{"$in": bson.A{nil, ""}},
	}
	update := bson.M{"$set": bson.M{
		"seller_id":   sellerID,
		"status":      models.StatusAccepted,
		"accepted_at": at,
		"updated_at":  at,
	}}

	res := r.coll.FindOneAndUpdate(ctx, filter, update, findAfter())
	var req models.ServiceRequest
	if err := res.Decode(&req); err != nil {
		if isNoDocuments(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to accept request %s: %w", id, err)
	}
	return &req, nil
}

// Boost appends a price-history entry and raises the price in one guarded
// update. The price < entry.Amount clause makes concurrent boosts resolve
// by reject-on-conflict, which keeps the history strictly increasing.
func (r *MongoRequestRepo) Boost(ctx context.Context, id, buyerID string, entry models.PriceEntry) (*models.ServiceRequest, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":       id,
		"buyer_id": buyerID,
		"kind":     models.KindInstant,
		"status":   bson.M{"$in": openStatuses},
		"price":    bson.M{"$lt": entry.Amount},
	}
	update := bson.M{
		"$set": bson.M{
			"price":      entry.Amount,
			"status":     models.StatusPriceBoosted,
			"updated_at": entry.Timestamp,
		},
		"$push": bson.M{"price_history": entry},
	}

	res := r.coll.FindOneAndUpdate(ctx, filter, update, findAfter())
	var req models.ServiceRequest
	if err := res.Decode(&req); err != nil {
		if isNoDocuments(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to boost request %s: %w", id, err)
	}
	return &req, nil
}
