package request

import (
	"context"
	"errors"
	"testing"
	"time"

	"hireloop/models"
)

func TestCancelAcceptedRequestWithReason(t *testing.T) {
	repo := newStubRequestRepo()
	clock := newFakeClock(t0)
	svc, _, dispatcher := newTestService(repo, clock)
	ctx := context.Background()

	req := openInstantRequest("r1", "buyer-1", 150, -74.006, 40.7128, t0)
	req.Status = models.StatusAccepted
	req.SellerID = "seller-1"
	repo.put(req)

	clock.Advance(time.Hour)
	cancelled, err := svc.UpdateStatus(ctx, "buyer-1", "r1", models.StatusCancelled, "found someone offline")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != models.StatusCancelled {
		t.Fatalf("expected cancelled, got %q", cancelled.Status)
	}
	if cancelled.CancelledAt == nil || cancelled.CancellationReason != "found someone offline" {
		t.Fatalf("cancellation fields wrong: %+v", cancelled)
	}
	// The matched seller hears about it.
	if len(dispatcher.payloads) != 1 || dispatcher.payloads[0].RecipientID != "seller-1" {
		t.Fatalf("expected a notification to the seller, got %+v", dispatcher.payloads)
	}

	// A second cancel is illegal.
	_, err = svc.UpdateStatus(ctx, "buyer-1", "r1", models.StatusCancelled, "again")
	var transitionErr InvalidTransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
}

func TestCancelAcceptedWithoutReasonFails(t *testing.T) {
	repo := newStubRequestRepo()
	clock := newFakeClock(t0)
	svc, _, _ := newTestService(repo, clock)

	req := openInstantRequest("r1", "buyer-1", 150, -74.006, 40.7128, t0)
	req.Status = models.StatusAccepted
	req.SellerID = "seller-1"
	repo.put(req)

	_, err := svc.UpdateStatus(context.Background(), "buyer-1", "r1", models.StatusCancelled, "")
	var validationErr ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestStatusProgressionAuthorization(t *testing.T) {
	repo := newStubRequestRepo()
	clock := newFakeClock(t0)
	svc, _, _ := newTestService(repo, clock)
	ctx := context.Background()

	req := openInstantRequest("r1", "buyer-1", 150, -74.006, 40.7128, t0)
	req.Status = models.StatusAccepted
	req.SellerID = "seller-1"
	repo.put(req)

	var forbidden ForbiddenError

	// Only the matched seller advances the work.
	if _, err := svc.UpdateStatus(ctx, "buyer-1", "r1", models.StatusInProgress, ""); !errors.As(err, &forbidden) {
		t.Fatalf("buyer advancing should be forbidden, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, "seller-2", "r1", models.StatusInProgress, ""); !errors.As(err, &forbidden) {
		t.Fatalf("stranger advancing should be forbidden, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, "seller-1", "r1", models.StatusInProgress, ""); err != nil {
		t.Fatalf("seller advancing: %v", err)
	}

	// Only the buyer cancels; and not anymore once work started.
	if _, err := svc.UpdateStatus(ctx, "seller-1", "r1", models.StatusCancelled, "reason"); !errors.As(err, &forbidden) {
		t.Fatalf("seller cancelling should be forbidden, got %v", err)
	}
	var transitionErr InvalidTransitionError
	if _, err := svc.UpdateStatus(ctx, "buyer-1", "r1", models.StatusCancelled, "reason"); !errors.As(err, &transitionErr) {
		t.Fatalf("cancel of in_progress should be illegal, got %v", err)
	}

	// Seller completes from in_progress.
	done, err := svc.UpdateStatus(ctx, "seller-1", "r1", models.StatusCompleted, "")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.Status != models.StatusCompleted || done.CompletedAt == nil {
		t.Fatalf("completion fields wrong: %+v", done)
	}
}

func TestUpdateStatusRejectsUnsupportedTargets(t *testing.T) {
	repo := newStubRequestRepo()
	clock := newFakeClock(t0)
	svc, _, _ := newTestService(repo, clock)
	ctx := context.Background()

	repo.put(openInstantRequest("r1", "buyer-1", 150, -74.006, 40.7128, t0))

	for _, target := range []models.RequestStatus{
		models.StatusPending, models.StatusPriceBoosted,
		models.StatusAccepted, models.StatusExpired, "made_up",
	} {
		_, err := svc.UpdateStatus(ctx, "buyer-1", "r1", target, "")
		var validationErr ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("target %q: expected ValidationError, got %v", target, err)
		}
	}
}

func TestDeleteOnlyWhileOpen(t *testing.T) {
	repo := newStubRequestRepo()
	clock := newFakeClock(t0)
	svc, _, _ := newTestService(repo, clock)
	ctx := context.Background()

	open := openInstantRequest("open", "buyer-1", 150, -74.006, 40.7128, t0)
	repo.put(open)
	accepted := openInstantRequest("accepted", "buyer-1", 150, -74.006, 40.7128, t0)
	accepted.Status = models.StatusAccepted
	accepted.SellerID = "seller-1"
	repo.put(accepted)

	var forbidden ForbiddenError
	if err := svc.Delete(ctx, "someone-else", "open"); !errors.As(err, &forbidden) {
		t.Fatalf("stranger delete should be forbidden, got %v", err)
	}

	if err := svc.Delete(ctx, "buyer-1", "open"); err != nil {
		t.Fatalf("delete of open request: %v", err)
	}
	if _, err := repo.GetByID(ctx, "open"); err == nil {
		t.Fatal("request should be gone")
	}

	var transitionErr InvalidTransitionError
	if err := svc.Delete(ctx, "buyer-1", "accepted"); !errors.As(err, &transitionErr) {
		t.Fatalf("delete of accepted request should be illegal, got %v", err)
	}
}

func TestCancelLosesToInterleavedAccept(t *testing.T) {
	repo := newStubRequestRepo()
	clock := newFakeClock(t0)
	svc, _, _ := newTestService(repo, clock)
	ctx := context.Background()

	repo.put(openInstantRequest("req-race", "buyer-1", 100, -74.0, 40.7, t0))

	// A seller claims the request between the cancel's read and its write.
	// The cancel was validated against pending, where no reason is needed;
	// it must not land on the now-accepted request as a reasonless cancel.
	repo.afterGet = func() {
		if _, err := repo.Accept(ctx, "req-race", "seller-9", clock.Now()); err != nil {
			t.Fatalf("interleaved accept: %v", err)
		}
	}

	_, err := svc.UpdateStatus(ctx, "buyer-1", "req-race", models.StatusCancelled, "")
	var transitionErr InvalidTransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if transitionErr.Status != models.StatusAccepted {
		t.Fatalf("expected conflict to report accepted, got %q", transitionErr.Status)
	}

	reloaded, _ := repo.GetByID(ctx, "req-race")
	if reloaded.Status != models.StatusAccepted {
		t.Fatalf("expected the acceptance to stand, got %q", reloaded.Status)
	}
	if reloaded.CancellationReason != "" {
		t.Fatalf("unexpected cancellation reason %q", reloaded.CancellationReason)
	}
}
