package requestRepo

import (
	"context"
	"errors"
	"time"

	"hireloop/models"
)

// ErrNotFound is returned when no request matches the given id.
var ErrNotFound = errors.New("service request not found")

// ErrConflict is returned when a guarded update matched no document: the
// request either does not exist or its state changed concurrently. Callers
// re-read to tell the two apart.
var ErrConflict = errors.New("service request state changed concurrently")

// ListFilter narrows buyer/seller request listings.
type ListFilter struct {
	Statuses []models.RequestStatus
	Kind     models.RequestKind
	Limit    int64
}

// NearbySearchCriteria is the typed query spec for the geo-near search.
type NearbySearchCriteria struct {
	Center   models.GeoPoint
	RadiusKm float64
	Category string
	Now      time.Time
}

// StatusUpdate carries the fields a guarded status transition may set.
type StatusUpdate struct {
	Status             models.RequestStatus
	CompletedAt        *time.Time
	CancelledAt        *time.Time
	CancellationReason string
	UpdatedAt          time.Time
}

// RequestRepository defines data access for service requests.
type RequestRepository interface {
	// Create inserts a new request document.
	Create(ctx context.Context, req *models.ServiceRequest) error
	// GetByID retrieves a request by its unique id.
	GetByID(ctx context.Context, id string) (*models.ServiceRequest, error)
	// GetByIDs retrieves the requests for the given ids, in no particular order.
	GetByIDs(ctx context.Context, ids []string) ([]models.ServiceRequest, error)
	// ListByBuyer returns a buyer's requests, newest first.
	ListByBuyer(ctx context.Context, buyerID string, filter ListFilter) ([]models.ServiceRequest, error)
	// ListBySeller returns the requests a seller has claimed, newest first.
	ListBySeller(ctx context.Context, sellerID string, filter ListFilter) ([]models.ServiceRequest, error)
	// Accept atomically claims the request for sellerID: one compare-and-set
	// that succeeds only while no seller is assigned and the status is still
	// open. Returns ErrConflict when the guard fails.
	Accept(ctx context.Context, id, sellerID string, at time.Time) (*models.ServiceRequest, error)
	// Boost appends a price-history entry and raises the price, guarded on
	// the caller being the buyer, the request being an open instant one, and
	// the new amount exceeding the current price. Returns ErrConflict when
	// the guard fails.
	Boost(ctx context.Context, id, buyerID string, entry models.PriceEntry) (*models.ServiceRequest, error)
	// UpdateStatusGuarded applies upd only while the current status is one of
	// from. Returns ErrConflict when the guard fails.
	UpdateStatusGuarded(ctx context.Context, id string, from []models.RequestStatus, upd StatusUpdate) (*models.ServiceRequest, error)
	// Delete removes the request only while its status is one of from.
	Delete(ctx context.Context, id string, from []models.RequestStatus) error
	// FindDueForExpiry returns open instant requests whose offer window has
	// passed as of now.
	FindDueForExpiry(ctx context.Context, now time.Time, limit int64) ([]models.ServiceRequest, error)
	// FindOpenInstant returns instant requests still open and unexpired as
	// of now, the set that belongs in the geo index.
	FindOpenInstant(ctx context.Context, now time.Time, limit int64) ([]models.ServiceRequest, error)
	// NearbySearch runs the authoritative geo query against the store:
	// open instant requests within RadiusKm of Center, nearest first.
	NearbySearch(ctx context.Context, criteria NearbySearchCriteria) ([]models.ServiceRequest, error)
}
