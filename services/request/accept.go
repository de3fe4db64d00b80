package request

import (
	"context"
	"errors"
	"fmt"

	requestRepo "hireloop/database/repository/request"
	"hireloop/models"
	"hireloop/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Accept claims an open request for the calling seller. The claim is one
// compare-and-set against the store, so of N concurrent accepts exactly one
// wins; the rest get AlreadyAcceptedError. On success the request leaves
// the geo index, a ledger entry is cut at the now-fixed price, and the
// buyer is notified.
func (s *DefaultRequestService) Accept(ctx context.Context, callerID, requestID string) (*models.ServiceRequest, error) {
	if callerID == "" {
		return nil, ValidationError{Field: "callerId", Reason: "required"}
	}

	updated, err := s.Repo.Accept(ctx, requestID, callerID, s.now())
	if err != nil {
		if errors.Is(err, requestRepo.ErrConflict) {
			return nil, s.explainAcceptConflict(ctx, requestID)
		}
		return nil, TransientError{Err: err}
	}

	logger := utils.GetLogger()
	if err := s.Geo.Deindex(ctx, requestID); err != nil {
		logger.Warn("failed to deindex accepted request",
			zap.String("request", requestID), zap.Error(err))
	}
	s.recordTransaction(ctx, updated)
	s.notify(ctx, updated.BuyerID, "Request accepted",
		fmt.Sprintf("A seller accepted your %s request at %.2f.", updated.Category, updated.Price),
		map[string]string{"requestId": updated.ID, "sellerId": callerID})

	return updated, nil
}

// explainAcceptConflict turns a failed compare-and-set into the error the
// seller UI needs: taken, no longer open, or gone.
func (s *DefaultRequestService) explainAcceptConflict(ctx context.Context, requestID string) error {
	req, err := s.Repo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, requestRepo.ErrNotFound) {
			return NotFoundError{RequestID: requestID}
		}
		return TransientError{Err: err}
	}
	if req.SellerID != "" {
		return AlreadyAcceptedError{RequestID: requestID, SellerID: req.SellerID}
	}
	if !req.Status.IsOpen() {
		return InvalidTransitionError{Event: EventAccept, Status: req.Status}
	}
	return TransientError{Err: requestRepo.ErrConflict}
}

// recordTransaction cuts the passive ledger entry. A failure here is an
// accounting gap to repair, never a reason to undo the acceptance.
func (s *DefaultRequestService) recordTransaction(ctx context.Context, req *models.ServiceRequest) {
	if s.Ledger == nil {
		return
	}
	tx := &models.Transaction{
		ID:               uuid.New().String(),
		ServiceRequestID: req.ID,
		BuyerID:          req.BuyerID,
		SellerID:         req.SellerID,
		Amount:           req.Price,
		Status:           models.TransactionStatusPending,
		CreatedAt:        s.now(),
	}
	if err := s.Ledger.Create(ctx, tx); err != nil {
		utils.GetLogger().Error("failed to record acceptance transaction",
			zap.String("request", req.ID), zap.Error(err))
	}
}
