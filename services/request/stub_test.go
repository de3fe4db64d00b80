package request

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	requestRepo "hireloop/database/repository/request"
	"hireloop/models"
)

// stubRequestRepo is an in-memory RequestRepository. Guarded updates run
// under one mutex, which gives it the same atomicity the Mongo
// implementation gets from FindOneAndUpdate.
type stubRequestRepo struct {
	mu   sync.Mutex
	reqs map[string]models.ServiceRequest

	failNextBoost bool
	// afterGet runs once after the next GetByID returns, outside the lock.
	// Tests use it to interleave a concurrent write between a service's
	// read and its guarded update.
	afterGet func()
}

func newStubRequestRepo() *stubRequestRepo {
	return &stubRequestRepo{reqs: make(map[string]models.ServiceRequest)}
}

func (r *stubRequestRepo) put(req models.ServiceRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reqs[req.ID] = req
}

func (r *stubRequestRepo) Create(ctx context.Context, req *models.ServiceRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reqs[req.ID] = *req
	return nil
}

func (r *stubRequestRepo) GetByID(ctx context.Context, id string) (*models.ServiceRequest, error) {
	r.mu.Lock()
	req, ok := r.reqs[id]
	hook := r.afterGet
	r.afterGet = nil
	r.mu.Unlock()
	if hook != nil {
		hook()
	}
	if !ok {
		return nil, requestRepo.ErrNotFound
	}
	out := req
	return &out, nil
}

func (r *stubRequestRepo) GetByIDs(ctx context.Context, ids []string) ([]models.ServiceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ServiceRequest
	for _, id := range ids {
		if req, ok := r.reqs[id]; ok {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *stubRequestRepo) ListByBuyer(ctx context.Context, buyerID string, filter requestRepo.ListFilter) ([]models.ServiceRequest, error) {
	return r.listBy(func(req models.ServiceRequest) bool { return req.BuyerID == buyerID }, filter), nil
}

func (r *stubRequestRepo) ListBySeller(ctx context.Context, sellerID string, filter requestRepo.ListFilter) ([]models.ServiceRequest, error) {
	return r.listBy(func(req models.ServiceRequest) bool { return req.SellerID == sellerID }, filter), nil
}

func (r *stubRequestRepo) listBy(match func(models.ServiceRequest) bool, filter requestRepo.ListFilter) []models.ServiceRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ServiceRequest
	for _, req := range r.reqs {
		if !match(req) {
			continue
		}
		if filter.Kind != "" && req.Kind != filter.Kind {
			continue
		}
		if len(filter.Statuses) > 0 && !statusIn(req.Status, filter.Statuses) {
			continue
		}
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if filter.Limit > 0 && int64(len(out)) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out
}

func statusIn(status models.RequestStatus, set []models.RequestStatus) bool {
	for _, s := range set {
		if s == status {
			return true
		}
	}
	return false
}

func (r *stubRequestRepo) Accept(ctx context.Context, id, sellerID string, at time.Time) (*models.ServiceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.reqs[id]
	if !ok || !req.Status.IsOpen() || req.SellerID != "" {
		return nil, requestRepo.ErrConflict
	}
	req.SellerID = sellerID
	req.Status = models.StatusAccepted
	acceptedAt := at
	req.AcceptedAt = &acceptedAt
	req.UpdatedAt = at
	r.reqs[id] = req
	out := req
	return &out, nil
}

func (r *stubRequestRepo) Boost(ctx context.Context, id, buyerID string, entry models.PriceEntry) (*models.ServiceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNextBoost {
		r.failNextBoost = false
		return nil, requestRepo.ErrConflict
	}
	req, ok := r.reqs[id]
	if !ok || req.BuyerID != buyerID || req.Kind != models.KindInstant ||
		!req.Status.IsOpen() || req.Price >= entry.Amount {
		return nil, requestRepo.ErrConflict
	}
	req.PriceHistory = append(append([]models.PriceEntry{}, req.PriceHistory...), entry)
	req.Price = entry.Amount
	req.Status = models.StatusPriceBoosted
	req.UpdatedAt = entry.Timestamp
	r.reqs[id] = req
	out := req
	return &out, nil
}

func (r *stubRequestRepo) UpdateStatusGuarded(ctx context.Context, id string, from []models.RequestStatus, upd requestRepo.StatusUpdate) (*models.ServiceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.reqs[id]
	if !ok || !statusIn(req.Status, from) {
		return nil, requestRepo.ErrConflict
	}
	req.Status = upd.Status
	if upd.CompletedAt != nil {
		req.CompletedAt = upd.CompletedAt
	}
	if upd.CancelledAt != nil {
		req.CancelledAt = upd.CancelledAt
		req.CancellationReason = upd.CancellationReason
	}
	req.UpdatedAt = upd.UpdatedAt
	r.reqs[id] = req
	out := req
	return &out, nil
}

func (r *stubRequestRepo) Delete(ctx context.Context, id string, from []models.RequestStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.reqs[id]
	if !ok || !statusIn(req.Status, from) {
		return requestRepo.ErrConflict
	}
	delete(r.reqs, id)
	return nil
}

func (r *stubRequestRepo) FindDueForExpiry(ctx context.Context, now time.Time, limit int64) ([]models.ServiceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ServiceRequest
	for _, req := range r.reqs {
		if req.Kind == models.KindInstant && req.Status.IsOpen() && req.IsExpiredAt(now) {
			out = append(out, req)
		}
		if limit > 0 && int64(len(out)) >= limit {
			break
		}
	}
	return out, nil
}

func (r *stubRequestRepo) FindOpenInstant(ctx context.Context, now time.Time, limit int64) ([]models.ServiceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ServiceRequest
	for _, req := range r.reqs {
		if req.Broadcastable(now) {
			out = append(out, req)
		}
		if limit > 0 && int64(len(out)) >= limit {
			break
		}
	}
	return out, nil
}

func (r *stubRequestRepo) NearbySearch(ctx context.Context, criteria requestRepo.NearbySearchCriteria) ([]models.ServiceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ServiceRequest
	for _, req := range r.reqs {
		if !req.Broadcastable(criteria.Now) {
			continue
		}
		if criteria.Category != "" && req.Category != criteria.Category {
			continue
		}
		if HaversineKm(criteria.Center, req.Location.Geo) <= criteria.RadiusKm {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		di := HaversineKm(criteria.Center, out[i].Location.Geo)
		dj := HaversineKm(criteria.Center, out[j].Location.Geo)
		if di != dj {
			return di < dj
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// stubLedger records transactions in memory.
type stubLedger struct {
	mu  sync.Mutex
	txs []models.Transaction
}

func (l *stubLedger) Create(ctx context.Context, tx *models.Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.txs = append(l.txs, *tx)
	return nil
}

func (l *stubLedger) GetByRequestID(ctx context.Context, requestID string) (*models.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.txs {
		if l.txs[i].ServiceRequestID == requestID {
			out := l.txs[i]
			return &out, nil
		}
	}
	return nil, nil
}

func (l *stubLedger) ListByUser(ctx context.Context, userID string, limit int64) ([]models.Transaction, error) {
	return nil, nil
}

// stubDispatcher captures notification payloads.
type stubDispatcher struct {
	mu       sync.Mutex
	payloads []models.NotificationPayload
}

func (d *stubDispatcher) Dispatch(ctx context.Context, payload models.NotificationPayload) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.payloads = append(d.payloads, payload)
	return nil
}

// flakyGeoIndex wraps MemoryGeoIndex and can drop a single Index write,
// the way a transient GEOADD failure would.
type flakyGeoIndex struct {
	*MemoryGeoIndex
	mu            sync.Mutex
	dropNextIndex bool
}

func newFlakyGeoIndex() *flakyGeoIndex {
	return &flakyGeoIndex{MemoryGeoIndex: NewMemoryGeoIndex()}
}

func (g *flakyGeoIndex) Index(ctx context.Context, req *models.ServiceRequest) error {
	g.mu.Lock()
	drop := g.dropNextIndex
	g.dropNextIndex = false
	g.mu.Unlock()
	if drop {
		return errors.New("geo index write failed")
	}
	return g.MemoryGeoIndex.Index(ctx, req)
}

// failingGeoIndex errors on every operation, like an unreachable Redis.
type failingGeoIndex struct{}

func (failingGeoIndex) Index(ctx context.Context, req *models.ServiceRequest) error {
	return errors.New("geo index unavailable")
}

func (failingGeoIndex) Deindex(ctx context.Context, requestID string) error {
	return errors.New("geo index unavailable")
}

func (failingGeoIndex) Search(ctx context.Context, center models.GeoPoint, radiusKm float64) ([]GeoMember, error) {
	return nil, errors.New("geo index unavailable")
}

// fakeClock is a settable time source.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{t: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestService(repo *stubRequestRepo, clock *fakeClock) (*DefaultRequestService, *stubLedger, *stubDispatcher) {
	return newTestServiceWithGeo(repo, NewMemoryGeoIndex(), clock)
}

func newTestServiceWithGeo(repo *stubRequestRepo, geo GeoIndex, clock *fakeClock) (*DefaultRequestService, *stubLedger, *stubDispatcher) {
	ledger := &stubLedger{}
	dispatcher := &stubDispatcher{}
	svc := NewDefaultRequestService(repo, geo, ledger, dispatcher).
		WithClock(clock.Now)
	return svc, ledger, dispatcher
}

func openInstantRequest(id, buyerID string, price float64, lon, lat float64, createdAt time.Time) models.ServiceRequest {
	expires := createdAt.Add(24 * time.Hour)
	return models.ServiceRequest{
		ID:                id,
		BuyerID:           buyerID,
		Category:          "cleaning",
		Kind:              models.KindInstant,
		Description:       "deep clean of a two bedroom apartment",
		Price:             price,
		PriceHistory:      []models.PriceEntry{{Amount: price, Timestamp: createdAt}},
		Location:          models.Location{Address: "somewhere", Geo: models.NewGeoPoint(lon, lat)},
		Status:            models.StatusPending,
		BroadcastRadiusKm: 10,
		ExpiresAt:         &expires,
		CreatedAt:         createdAt,
		UpdatedAt:         createdAt,
	}
}
