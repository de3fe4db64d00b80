package cron

import (
	"context"
	"fmt"
	"time"

	"hireloop/config"
	request "hireloop/services/request"
	"hireloop/utils"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ExpirationSweeper periodically retires instant requests whose offer
// window has passed, then re-registers the surviving open ones with the
// geo index. It only transitions requests already past deadline, so it
// never contends with foreground accept/boost calls.
type ExpirationSweeper struct {
	svc  request.RequestService
	cron *cron.Cron
}

func NewExpirationSweeper(svc request.RequestService) *ExpirationSweeper {
	return &ExpirationSweeper{
		svc:  svc,
		cron: cron.New(),
	}
}

// Start schedules the sweep on the configured cadence and runs one sweep
// immediately so a restart never leaves stale requests waiting a full tick.
func (s *ExpirationSweeper) Start() error {
	minutes := config.AppConfig.SweepIntervalMinutes
	if minutes <= 0 {
		minutes = 5
	}
	spec := fmt.Sprintf("@every %dm", minutes)
	if _, err := s.cron.AddFunc(spec, s.sweep); err != nil {
		return fmt.Errorf("schedule expiration sweep: %w", err)
	}
	s.cron.Start()
	go s.sweep()
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *ExpirationSweeper) Stop() {
	<-s.cron.Stop().Done()
}

func (s *ExpirationSweeper) sweep() {
	logger := utils.GetLogger()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	count, err := s.svc.ExpireDue(ctx)
	if err != nil {
		logger.Error("expiration sweep failed", zap.Error(err))
		return
	}
	if count > 0 {
		logger.Info("expiration sweep completed", zap.Int("expired", count))
	}

	// Repair the geo index for any open request whose index write was
	// missed at creation time.
	if _, err := s.svc.ReindexOpen(ctx); err != nil {
		logger.Error("geo reindex pass failed", zap.Error(err))
	}
}
