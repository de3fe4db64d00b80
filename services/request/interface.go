package request

import (
	"context"
	"time"

	requestRepo "hireloop/database/repository/request"
	txRepo "hireloop/database/repository/transaction"
	"hireloop/models"
	"hireloop/services/notification"
)

// CreateInstantInput carries the buyer's payload for an instant request.
type CreateInstantInput struct {
	Category          string          `json:"category"`
	Description       string          `json:"description"`
	Price             float64         `json:"price"`
	Location          models.Location `json:"location"`
	BroadcastRadiusKm float64         `json:"broadcastRadiusKm"`
}

// CreateScheduledInput carries the buyer's payload for a scheduled request.
type CreateScheduledInput struct {
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Price         float64         `json:"price"`
	Location      models.Location `json:"location"`
	ScheduledAt   time.Time       `json:"scheduledAt"`
	ScheduledTime string          `json:"scheduledTime"`
}

// NearbyQuery is the typed query spec for seller discovery.
type NearbyQuery struct {
	Center   models.GeoPoint `json:"center"`
	RadiusKm float64         `json:"radiusKm"`
	Category string          `json:"category,omitempty"`
}

// RequestService is the facade over the request lifecycle: creation, price
// escalation, acceptance, status progression, discovery and expiration.
type RequestService interface {
	CreateInstant(ctx context.Context, buyerID string, input CreateInstantInput) (*models.ServiceRequest, error)
	CreateScheduled(ctx context.Context, buyerID string, input CreateScheduledInput) (*models.ServiceRequest, error)
	BoostPrice(ctx context.Context, callerID, requestID string, newPrice float64) (*models.ServiceRequest, error)
	Accept(ctx context.Context, callerID, requestID string) (*models.ServiceRequest, error)
	UpdateStatus(ctx context.Context, callerID, requestID string, newStatus models.RequestStatus, reason string) (*models.ServiceRequest, error)
	QueryNearby(ctx context.Context, query NearbyQuery) ([]models.ServiceRequest, error)
	GetByID(ctx context.Context, requestID string) (*models.ServiceRequest, error)
	ListByBuyer(ctx context.Context, buyerID string, filter requestRepo.ListFilter) ([]models.ServiceRequest, error)
	ListBySeller(ctx context.Context, sellerID string, filter requestRepo.ListFilter) ([]models.ServiceRequest, error)
	Delete(ctx context.Context, callerID, requestID string) error
	ExpireDue(ctx context.Context) (int, error)
	ReindexOpen(ctx context.Context) (int, error)
}

// DefaultRequestService implements RequestService.
type DefaultRequestService struct {
	Repo       requestRepo.RequestRepository
	Geo        GeoIndex
	Ledger     txRepo.TransactionRepository
	Dispatcher notification.Dispatcher

	// now is swappable so expiration behavior is testable.
	now func() time.Time
}

// NewDefaultRequestService wires the facade. Ledger and Dispatcher may be
// nil; acceptance then skips the ledger write and notification.
func NewDefaultRequestService(
	repo requestRepo.RequestRepository,
	geo GeoIndex,
	ledger txRepo.TransactionRepository,
	dispatcher notification.Dispatcher,
) *DefaultRequestService {
	return &DefaultRequestService{
		Repo:       repo,
		Geo:        geo,
		Ledger:     ledger,
		Dispatcher: dispatcher,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the service's time source.
func (s *DefaultRequestService) WithClock(now func() time.Time) *DefaultRequestService {
	s.now = now
	return s
}
