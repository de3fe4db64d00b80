package request

import (
	"context"
	"errors"

	requestRepo "hireloop/database/repository/request"
	"hireloop/models"
)

// BoostPrice raises the price of an open instant request. Only the buyer
// may boost, and only upward; the history entry is appended by the same
// guarded update that raises the price, so concurrent boosts cannot
// interleave into a non-increasing history.
func (s *DefaultRequestService) BoostPrice(ctx context.Context, callerID, requestID string, newPrice float64) (*models.ServiceRequest, error) {
	if newPrice < minPrice || newPrice > maxPrice {
		return nil, ValidationError{Field: "price", Reason: "must be between 1 and 10000"}
	}

	req, err := s.getForUpdate(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := s.checkBoost(*req, callerID, newPrice); err != nil {
		return nil, err
	}

	now := s.now()
	entry := models.PriceEntry{Amount: newPrice, Timestamp: now, BoostedBy: callerID}
	updated, err := s.Repo.Boost(ctx, requestID, callerID, entry)
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, requestRepo.ErrConflict) {
		return nil, TransientError{Err: err}
	}

	// The guard failed: someone transitioned or boosted concurrently.
	// Re-read and report the precise reason.
	req, err = s.getForUpdate(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := s.checkBoost(*req, callerID, newPrice); err != nil {
		return nil, err
	}
	return nil, TransientError{Err: requestRepo.ErrConflict}
}

// checkBoost reproduces the boost guard against an in-memory copy so the
// caller gets a typed error instead of a bare conflict.
func (s *DefaultRequestService) checkBoost(req models.ServiceRequest, callerID string, newPrice float64) error {
	if req.BuyerID != callerID {
		return ForbiddenError{Action: "boost"}
	}
	_, err := ApplyBoost(req, BoostPayload{NewPrice: newPrice, BoostedBy: callerID}, s.now())
	return err
}

func (s *DefaultRequestService) getForUpdate(ctx context.Context, requestID string) (*models.ServiceRequest, error) {
	req, err := s.Repo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, requestRepo.ErrNotFound) {
			return nil, NotFoundError{RequestID: requestID}
		}
		return nil, TransientError{Err: err}
	}
	return req, nil
}
