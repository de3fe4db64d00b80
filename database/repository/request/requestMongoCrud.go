package requestRepo

import (
	"context"
	"fmt"
	"time"

	"hireloop/models"

	"go.mongodb.org/mongo-driver/bson"
)

// Create inserts a new request document.
func (r *MongoRequestRepo) Create(ctx context.Context, req *models.ServiceRequest) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, req); err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return nil
}

// UpdateStatusGuarded applies a status transition only while the document's
// current status is one of from, so a concurrent transition loses cleanly
// instead of clobbering.
func (r *MongoRequestRepo) UpdateStatusGuarded(ctx context.Context, id string, from []models.RequestStatus, upd StatusUpdate) (*models.ServiceRequest, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":     id,
		"status": bson.M{"$in": from},
	}
	set := bson.M{
		"status":     upd.Status,
		"updated_at": upd.UpdatedAt,
	}
	if upd.CompletedAt != nil {
		set["completed_at"] = upd.CompletedAt
	}
	if upd.CancelledAt != nil {
		set["cancelled_at"] = upd.CancelledAt
		set["cancellation_reason"] = upd.CancellationReason
	}

	res := r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, findAfter())
	var req models.ServiceRequest
	if err := res.Decode(&req); err != nil {
		if isNoDocuments(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to update status of request %s: %w", id, err)
	}
	return &req, nil
}

// Delete removes the request only while its status is one of from.
func (r *MongoRequestRepo) Delete(ctx context.Context, id string, from []models.RequestStatus) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":     id,
		"status": bson.M{"$in": from},
	}
	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete request %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrConflict
	}
	return nil
}
