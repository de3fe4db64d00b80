package request

import (
	"context"
	"errors"

	requestRepo "hireloop/database/repository/request"
	"hireloop/models"
	"hireloop/utils"

	"go.uber.org/zap"
)

// sweepBatchSize bounds one sweep pass; the next tick picks up the rest.
const sweepBatchSize = 500

// ExpireDue retires every open instant request whose offer window has
// passed and returns how many were expired. Each request is handled
// independently: a transition that loses to a concurrent accept is simply
// skipped, and one failure never aborts the rest of the sweep.
func (s *DefaultRequestService) ExpireDue(ctx context.Context) (int, error) {
	now := s.now()
	due, err := s.Repo.FindDueForExpiry(ctx, now, sweepBatchSize)
	if err != nil {
		return 0, TransientError{Err: err}
	}

	logger := utils.GetLogger()
	expired := 0
	for _, req := range due {
		upd := requestRepo.StatusUpdate{
			Status:    models.StatusExpired,
			UpdatedAt: now,
		}
		_, err := s.Repo.UpdateStatusGuarded(ctx, req.ID, transitionSources[EventExpire], upd)
		if err != nil {
			if errors.Is(err, requestRepo.ErrConflict) {
				// Already accepted, cancelled or expired since the scan.
				continue
			}
			logger.Error("failed to expire request",
				zap.String("request", req.ID), zap.Error(err))
			continue
		}
		if err := s.Geo.Deindex(ctx, req.ID); err != nil {
			logger.Warn("failed to deindex expired request",
				zap.String("request", req.ID), zap.Error(err))
		}
		expired++
	}
	return expired, nil
}

// ReindexOpen re-registers every open unexpired instant request with the
// geo index and returns how many were indexed. Index writes are
// idempotent, so re-adding a request that is already a member is harmless.
// This is the repair path for index entries lost to a write failure at
// creation time: without it such a request would stay out of discovery for
// its whole offer window.
func (s *DefaultRequestService) ReindexOpen(ctx context.Context) (int, error) {
	now := s.now()
	open, err := s.Repo.FindOpenInstant(ctx, now, sweepBatchSize)
	if err != nil {
		return 0, TransientError{Err: err}
	}

	logger := utils.GetLogger()
	indexed := 0
	for i := range open {
		if err := s.Geo.Index(ctx, &open[i]); err != nil {
			logger.Warn("failed to reindex open request",
				zap.String("request", open[i].ID), zap.Error(err))
			continue
		}
		indexed++
	}
	return indexed, nil
}
