package request

import (
	"context"
	"fmt"

	"hireloop/models"
	"hireloop/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateInstant posts a broadcast request: the price history is seeded,
// the 24h offer window starts, and the request enters the geo index.
func (s *DefaultRequestService) CreateInstant(ctx context.Context, buyerID string, input CreateInstantInput) (*models.ServiceRequest, error) {
	if buyerID == "" {
		return nil, ValidationError{Field: "buyerId", Reason: "required"}
	}
	if err := validateInstant(input); err != nil {
		return nil, err
	}

	now := s.now()
	expires := now.Add(utils.InstantRequestTTL)
	req := &models.ServiceRequest{
		ID:                uuid.New().String(),
		BuyerID:           buyerID,
		Category:          input.Category,
		Kind:              models.KindInstant,
		Description:       input.Description,
		Price:             input.Price,
		PriceHistory:      []models.PriceEntry{{Amount: input.Price, Timestamp: now}},
		Location:          input.Location,
		Status:            models.StatusPending,
		BroadcastRadiusKm: input.BroadcastRadiusKm,
		ExpiresAt:         &expires,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.Repo.Create(ctx, req); err != nil {
		return nil, TransientError{Err: err}
	}
	if err := s.Geo.Index(ctx, req); err != nil {
		// Tolerable: the next sweep's reindex pass repairs the entry, and
		// until then discovery falls back to the store-side geo query
		// whenever the index comes up empty.
		utils.GetLogger().Warn("failed to geo-index request",
			zap.String("request", req.ID), zap.Error(err))
	}
	s.notify(ctx, buyerID, "Request posted",
		fmt.Sprintf("Your %s request is live and broadcasting to sellers within %.0f km.", req.Category, req.BroadcastRadiusKm),
		map[string]string{"requestId": req.ID})
	return req, nil
}

// CreateScheduled posts a date-bound request. Scheduled requests are never
// geo-broadcast and carry no offer window.
func (s *DefaultRequestService) CreateScheduled(ctx context.Context, buyerID string, input CreateScheduledInput) (*models.ServiceRequest, error) {
	if buyerID == "" {
		return nil, ValidationError{Field: "buyerId", Reason: "required"}
	}
	now := s.now()
	if err := validateScheduled(input, now); err != nil {
		return nil, err
	}

	scheduledAt := input.ScheduledAt
	req := &models.ServiceRequest{
		ID:            uuid.New().String(),
		BuyerID:       buyerID,
		Category:      input.Category,
		Kind:          models.KindScheduled,
		Description:   input.Description,
		Price:         input.Price,
		PriceHistory:  []models.PriceEntry{{Amount: input.Price, Timestamp: now}},
		Location:      input.Location,
		Status:        models.StatusPending,
		ScheduledAt:   &scheduledAt,
		ScheduledTime: input.ScheduledTime,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.Repo.Create(ctx, req); err != nil {
		return nil, TransientError{Err: err}
	}
	s.notify(ctx, buyerID, "Request scheduled",
		fmt.Sprintf("Your %s request is booked for %s %s.", req.Category, scheduledAt.Format("2006-01-02"), req.ScheduledTime),
		map[string]string{"requestId": req.ID})
	return req, nil
}

// notify dispatches a fire-and-forget notification. Failures are logged
// and never surface to the lifecycle caller.
func (s *DefaultRequestService) notify(ctx context.Context, recipientID, title, body string, data map[string]string) {
	if s.Dispatcher == nil {
		return
	}
	payload := models.NotificationPayload{
		RecipientID: recipientID,
		Title:       title,
		Body:        body,
		Data:        data,
	}
	if err := s.Dispatcher.Dispatch(ctx, payload); err != nil {
		utils.GetLogger().Warn("failed to dispatch notification",
			zap.String("recipient", recipientID), zap.Error(err))
	}
}
