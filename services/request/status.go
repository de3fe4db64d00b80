package request

import (
	"context"
	"errors"
	"time"

	requestRepo "hireloop/database/repository/request"
	"hireloop/models"
	"hireloop/utils"

	"go.uber.org/zap"
)

const eventDelete Event = "delete"

// UpdateStatus progresses or cancels a request. The buyer may cancel; only
// the matched seller may advance or complete. The persisted transition is
// guarded on the legal source statuses, so a concurrent transition loses
// cleanly and is reported as InvalidTransitionError.
func (s *DefaultRequestService) UpdateStatus(ctx context.Context, callerID, requestID string, newStatus models.RequestStatus, reason string) (*models.ServiceRequest, error) {
	var ev Event
	switch newStatus {
	case models.StatusInProgress:
		ev = EventAdvance
	case models.StatusCompleted:
		ev = EventComplete
	case models.StatusCancelled:
		ev = EventCancel
	default:
		return nil, ValidationError{Field: "status", Reason: "unsupported target status"}
	}

	req, err := s.getForUpdate(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := authorizeTransition(*req, callerID, ev); err != nil {
		return nil, err
	}

	now := s.now()
	next, err := applyEvent(*req, ev, reason, now)
	if err != nil {
		return nil, err
	}

	upd := requestRepo.StatusUpdate{
		Status:             next.Status,
		CompletedAt:        next.CompletedAt,
		CancelledAt:        next.CancelledAt,
		CancellationReason: next.CancellationReason,
		UpdatedAt:          now,
	}
	// Guard on the exact status that was validated, not the event's whole
	// legal source set: a cancel checked against pending must not land on a
	// request that was accepted in the meantime, since cancelling from
	// accepted has its own requirements.
	updated, err := s.Repo.UpdateStatusGuarded(ctx, requestID, []models.RequestStatus{req.Status}, upd)
	if err != nil {
		if errors.Is(err, requestRepo.ErrConflict) {
			// Someone transitioned first; re-read for the precise state.
			req, rereadErr := s.getForUpdate(ctx, requestID)
			if rereadErr != nil {
				return nil, rereadErr
			}
			return nil, InvalidTransitionError{Event: ev, Status: req.Status}
		}
		return nil, TransientError{Err: err}
	}

	if ev == EventCancel {
		if err := s.Geo.Deindex(ctx, requestID); err != nil {
			utils.GetLogger().Warn("failed to deindex cancelled request",
				zap.String("request", requestID), zap.Error(err))
		}
		if updated.SellerID != "" {
			s.notify(ctx, updated.SellerID, "Request cancelled",
				"The buyer cancelled a request you had accepted: "+updated.CancellationReason,
				map[string]string{"requestId": updated.ID})
		}
	}
	return updated, nil
}

func applyEvent(req models.ServiceRequest, ev Event, reason string, now time.Time) (models.ServiceRequest, error) {
	switch ev {
	case EventAdvance:
		return ApplyAdvance(req, now)
	case EventComplete:
		return ApplyComplete(req, now)
	case EventCancel:
		return ApplyCancel(req, reason, now)
	default:
		return req, InvalidTransitionError{Event: ev, Status: req.Status}
	}
}

func authorizeTransition(req models.ServiceRequest, callerID string, ev Event) error {
	switch ev {
	case EventCancel:
		if req.BuyerID != callerID {
			return ForbiddenError{Action: "cancel"}
		}
	case EventAdvance, EventComplete:
		if req.SellerID == "" || req.SellerID != callerID {
			return ForbiddenError{Action: string(ev)}
		}
	}
	return nil
}

// GetByID fetches a single request.
func (s *DefaultRequestService) GetByID(ctx context.Context, requestID string) (*models.ServiceRequest, error) {
	return s.getForUpdate(ctx, requestID)
}

// ListByBuyer returns a buyer's requests, newest first.
func (s *DefaultRequestService) ListByBuyer(ctx context.Context, buyerID string, filter requestRepo.ListFilter) ([]models.ServiceRequest, error) {
	reqs, err := s.Repo.ListByBuyer(ctx, buyerID, filter)
	if err != nil {
		return nil, TransientError{Err: err}
	}
	return reqs, nil
}

// ListBySeller returns the requests a seller has claimed, newest first.
func (s *DefaultRequestService) ListBySeller(ctx context.Context, sellerID string, filter requestRepo.ListFilter) ([]models.ServiceRequest, error) {
	reqs, err := s.Repo.ListBySeller(ctx, sellerID, filter)
	if err != nil {
		return nil, TransientError{Err: err}
	}
	return reqs, nil
}

// Delete removes a request entirely. Only the buyer may delete, and only
// while the request is still open; anything later is part of the record.
func (s *DefaultRequestService) Delete(ctx context.Context, callerID, requestID string) error {
	req, err := s.getForUpdate(ctx, requestID)
	if err != nil {
		return err
	}
	if req.BuyerID != callerID {
		return ForbiddenError{Action: "delete"}
	}
	if !req.Status.IsOpen() {
		return InvalidTransitionError{Event: eventDelete, Status: req.Status}
	}

	if err := s.Repo.Delete(ctx, requestID, AcceptingStatuses()); err != nil {
		if errors.Is(err, requestRepo.ErrConflict) {
			req, rereadErr := s.getForUpdate(ctx, requestID)
			if rereadErr != nil {
				return rereadErr
			}
			return InvalidTransitionError{Event: eventDelete, Status: req.Status}
		}
		return TransientError{Err: err}
	}

	if err := s.Geo.Deindex(ctx, requestID); err != nil {
		utils.GetLogger().Warn("failed to deindex deleted request",
			zap.String("request", requestID), zap.Error(err))
	}
	return nil
}
