package models

import "time"

// RequestKind distinguishes broadcast requests from date-bound ones.
type RequestKind string

const (
	KindInstant   RequestKind = "instant"
	KindScheduled RequestKind = "scheduled"
)

// RequestStatus is the lifecycle state of a service request.
type RequestStatus string

const (
	StatusPending      RequestStatus = "pending"
	StatusPriceBoosted RequestStatus = "price_boosted"
	StatusAccepted     RequestStatus = "accepted"
	StatusInProgress   RequestStatus = "in_progress"
	StatusCompleted    RequestStatus = "completed"
	StatusCancelled    RequestStatus = "cancelled"
	StatusExpired      RequestStatus = "expired"
)

// IsTerminal reports whether the status admits no further transitions.
func (s RequestStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusExpired
}

// IsOpen reports whether the request is still accepting sellers.
func (s RequestStatus) IsOpen() bool {
	return s == StatusPending || s == StatusPriceBoosted
}

// ServiceCategories is the fixed set of categories a request may carry.
var ServiceCategories = []string{
	"cleaning", "plumbing", "electrical", "moving", "tutoring",
	"beauty", "repair", "gardening", "delivery", "other",
}

// IsValidCategory checks membership in ServiceCategories.
func IsValidCategory(category string) bool {
	for _, c := range ServiceCategories {
		if c == category {
			return true
		}
	}
	return false
}

// PriceEntry is one step in a request's price escalation trail.
// Entries are append-only and strictly increasing in Amount.
type PriceEntry struct {
	Amount    float64   `bson:"amount" json:"amount"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	BoostedBy string    `bson:"boosted_by,omitempty" json:"boostedBy,omitempty"`
}

// ServiceRequest is a buyer's posted job. Instant requests are broadcast
// to sellers within BroadcastRadiusKm until ExpiresAt; scheduled requests
// are bound to a future date and never geo-broadcast.
type ServiceRequest struct {
	ID                string        `bson:"id" json:"id"`
	BuyerID           string        `bson:"buyer_id" json:"buyerId"`
	SellerID          string        `bson:"seller_id,omitempty" json:"sellerId,omitempty"`
	Category          string        `bson:"category" json:"category"`
	Kind              RequestKind   `bson:"kind" json:"kind"`
	Description       string        `bson:"description" json:"description"`
	Price             float64       `bson:"price" json:"price"`
	PriceHistory      []PriceEntry  `bson:"price_history" json:"priceHistory"`
	Location          Location      `bson:"location" json:"location"`
	Status            RequestStatus `bson:"status" json:"status"`
	BroadcastRadiusKm float64       `bson:"broadcast_radius_km,omitempty" json:"broadcastRadiusKm,omitempty"`
	ScheduledAt       *time.Time    `bson:"scheduled_at,omitempty" json:"scheduledAt,omitempty"`
	ScheduledTime     string        `bson:"scheduled_time,omitempty" json:"scheduledTime,omitempty"`
	ExpiresAt         *time.Time    `bson:"expires_at,omitempty" json:"expiresAt,omitempty"`
	AcceptedAt        *time.Time    `bson:"accepted_at,omitempty" json:"acceptedAt,omitempty"`
	CompletedAt       *time.Time    `bson:"completed_at,omitempty" json:"completedAt,omitempty"`
	CancelledAt       *time.Time    `bson:"cancelled_at,omitempty" json:"cancelledAt,omitempty"`
	CancellationReason string       `bson:"cancellation_reason,omitempty" json:"cancellationReason,omitempty"`
	CreatedAt         time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt         time.Time     `bson:"updated_at" json:"updatedAt"`
}

// IsExpiredAt reports whether an instant request's offer window has passed.
// Scheduled requests never expire this way.
func (r *ServiceRequest) IsExpiredAt(now time.Time) bool {
	return r.Kind == KindInstant && r.ExpiresAt != nil && !now.Before(*r.ExpiresAt)
}

// Broadcastable reports whether the request belongs in the geo index:
// instant, still open, and inside its offer window.
func (r *ServiceRequest) Broadcastable(now time.Time) bool {
	return r.Kind == KindInstant && r.Status.IsOpen() && !r.IsExpiredAt(now)
}

// PriceIncreasePercent is the escalation from the seeded price to the
// current one, as a percentage. Zero when history is missing or unboosted.
func (r *ServiceRequest) PriceIncreasePercent() float64 {
	if len(r.PriceHistory) == 0 {
		return 0
	}
	base := r.PriceHistory[0].Amount
	if base <= 0 {
		return 0
	}
	return (r.Price - base) / base * 100
}
