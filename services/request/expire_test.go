package request

import (
	"context"
	"testing"
	"time"

	"hireloop/models"
)

func TestSweepExpiresOnlyDueRequests(t *testing.T) {
	repo := newStubRequestRepo()
	clock := newFakeClock(t0)
	svc, _, _ := newTestService(repo, clock)
	ctx := context.Background()

	due := openInstantRequest("due", "buyer-1", 100, -74.0, 40.71, t0.Add(-25*time.Hour))
	fresh := openInstantRequest("fresh", "buyer-2", 100, -74.0, 40.71, t0)
	accepted := openInstantRequest("accepted", "buyer-3", 100, -74.0, 40.71, t0.Add(-25*time.Hour))
	accepted.Status = models.StatusAccepted
	accepted.SellerID = "seller-1"
	scheduled := openInstantRequest("scheduled", "buyer-4", 100, -74.0, 40.71, t0.Add(-48*time.Hour))
	scheduled.Kind = models.KindScheduled
	scheduled.ExpiresAt = nil

	for _, req := range []models.ServiceRequest{due, fresh, accepted, scheduled} {
		repo.put(req)
	}

	count, err := svc.ExpireDue(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 expiration, got %d", count)
	}

	for id, want := range map[string]models.RequestStatus{
		"due":       models.StatusExpired,
		"fresh":     models.StatusPending,
		"accepted":  models.StatusAccepted,
		"scheduled": models.StatusPending,
	} {
		req, _ := repo.GetByID(ctx, id)
		if req.Status != want {
			t.Fatalf("%s: expected %q, got %q", id, want, req.Status)
		}
	}
}

func TestSweepIsIdempotent(t *testing.T) {
	repo := newStubRequestRepo()
	clock := newFakeClock(t0)
	svc, _, _ := newTestService(repo, clock)
	ctx := context.Background()

	repo.put(openInstantRequest("r1", "buyer-1", 100, -74.0, 40.71, t0.Add(-25*time.Hour)))

	first, err := svc.ExpireDue(ctx)
	if err != nil {
		t.Fatalf("first sweep: %v", err)
	}
	if first != 1 {
		t.Fatalf("expected 1 expiration, got %d", first)
	}

	second, err := svc.ExpireDue(ctx)
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if second != 0 {
		t.Fatalf("second sweep must be a no-op, expired %d", second)
	}
}

func TestExpiredRequestIsFrozen(t *testing.T) {
	repo := newStubRequestRepo()
	clock := newFakeClock(t0)
	svc, _, _ := newTestService(repo, clock)
	ctx := context.Background()

	repo.put(openInstantRequest("r1", "buyer-1", 100, -74.0, 40.71, t0.Add(-25*time.Hour)))
	if _, err := svc.ExpireDue(ctx); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	if _, err := svc.BoostPrice(ctx, "buyer-1", "r1", 200); err == nil {
		t.Fatal("boost of an expired request should fail")
	}
	if _, err := svc.Accept(ctx, "seller-1", "r1"); err == nil {
		t.Fatal("accept of an expired request should fail")
	}
	if _, err := svc.UpdateStatus(ctx, "buyer-1", "r1", models.StatusCancelled, "late"); err == nil {
		t.Fatal("cancel of an expired request should fail")
	}
}

func TestReindexRestoresMissedIndexWrites(t *testing.T) {
	repo := newStubRequestRepo()
	clock := newFakeClock(t0)
	geo := newFlakyGeoIndex()
	svc, _, _ := newTestServiceWithGeo(repo, geo, clock)
	ctx := context.Background()

	geo.dropNextIndex = true
	created, err := svc.CreateInstant(ctx, "buyer-1", CreateInstantInput{
		Category:    "cleaning",
		Description: "deep clean of a two bedroom apartment",
		Price:       150,
		Location: models.Location{
			Address: "downtown",
			Geo:     models.NewGeoPoint(-74.006, 40.7128),
		},
		BroadcastRadiusKm: 10,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	members, err := geo.Search(ctx, models.NewGeoPoint(-74.0, 40.71), 15)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(members) != 0 {
		t.Fatalf("expected dropped index write, got members %+v", members)
	}

	count, err := svc.ReindexOpen(ctx)
	if err != nil {
		t.Fatalf("reindex: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 reindexed request, got %d", count)
	}

	members, err = geo.Search(ctx, models.NewGeoPoint(-74.0, 40.71), 15)
	if err != nil {
		t.Fatalf("search after reindex: %v", err)
	}
	if len(members) != 1 || members[0].RequestID != created.ID {
		t.Fatalf("expected the request back in the index, got %+v", members)
	}

	// Terminal and expired requests never re-enter the index.
	clock.Advance(25 * time.Hour)
	count, err = svc.ReindexOpen(ctx)
	if err != nil {
		t.Fatalf("reindex after expiry: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected nothing to reindex, got %d", count)
	}
}
