package request

import (
	"time"

	"hireloop/models"
)

// Event is a lifecycle transition trigger.
type Event string

const (
	EventBoost    Event = "boost"
	EventAccept   Event = "accept"
	EventAdvance  Event = "advance"
	EventComplete Event = "complete"
	EventCancel   Event = "cancel"
	EventExpire   Event = "expire"
)

// transitionSources maps each event to the statuses it may fire from.
var transitionSources = map[Event][]models.RequestStatus{
	EventBoost:    {models.StatusPending, models.StatusPriceBoosted},
	EventAccept:   {models.StatusPending, models.StatusPriceBoosted},
	EventAdvance:  {models.StatusAccepted},
	EventComplete: {models.StatusAccepted, models.StatusInProgress},
	EventCancel:   {models.StatusPending, models.StatusPriceBoosted, models.StatusAccepted},
	EventExpire:   {models.StatusPending, models.StatusPriceBoosted},
}

// CanTransition reports whether ev is legal from the given status.
func CanTransition(status models.RequestStatus, ev Event) bool {
	for _, s := range transitionSources[ev] {
		if s == status {
			return true
		}
	}
	return false
}

// AcceptingStatuses are the statuses from which a seller may still claim
// the request. Used as the compare-and-set guard by the repository.
func AcceptingStatuses() []models.RequestStatus {
	return transitionSources[EventAccept]
}

// BoostPayload carries the inputs of a boost event.
type BoostPayload struct {
	NewPrice  float64
	BoostedBy string
}

// These apply* functions are the whole state machine: pure functions from
// a request value and an event to a new request value or an error. They
// never touch storage; persisting the transition is the facade's job.

// ApplyBoost appends a price-history entry and raises the current price.
func ApplyBoost(req models.ServiceRequest, p BoostPayload, now time.Time) (models.ServiceRequest, error) {
	if req.Kind != models.KindInstant || !CanTransition(req.Status, EventBoost) {
		return req, InvalidTransitionError{Event: EventBoost, Status: req.Status}
	}
	if p.NewPrice <= req.Price {
		return req, PriceNotIncreasingError{Current: req.Price, Offered: p.NewPrice}
	}
	history := make([]models.PriceEntry, len(req.PriceHistory), len(req.PriceHistory)+1)
	copy(history, req.PriceHistory)
	req.PriceHistory = append(history, models.PriceEntry{
		Amount:    p.NewPrice,
		Timestamp: now,
		BoostedBy: p.BoostedBy,
	})
	req.Price = p.NewPrice
	req.Status = models.StatusPriceBoosted
	req.UpdatedAt = now
	return req, nil
}

// ApplyAccept claims the request for sellerID. The facade must persist this
// through the repository's atomic accept, not a read-then-write; this pure
// form exists for validation and tests.
func ApplyAccept(req models.ServiceRequest, sellerID string, now time.Time) (models.ServiceRequest, error) {
	if !CanTransition(req.Status, EventAccept) || req.SellerID != "" {
		return req, InvalidTransitionError{Event: EventAccept, Status: req.Status}
	}
	req.SellerID = sellerID
	req.Status = models.StatusAccepted
	req.AcceptedAt = &now
	req.UpdatedAt = now
	return req, nil
}

// ApplyAdvance moves an accepted request into in_progress.
func ApplyAdvance(req models.ServiceRequest, now time.Time) (models.ServiceRequest, error) {
	if !CanTransition(req.Status, EventAdvance) {
		return req, InvalidTransitionError{Event: EventAdvance, Status: req.Status}
	}
	req.Status = models.StatusInProgress
	req.UpdatedAt = now
	return req, nil
}

// ApplyComplete finishes the job and stamps CompletedAt.
func ApplyComplete(req models.ServiceRequest, now time.Time) (models.ServiceRequest, error) {
	if !CanTransition(req.Status, EventComplete) {
		return req, InvalidTransitionError{Event: EventComplete, Status: req.Status}
	}
	req.Status = models.StatusCompleted
	req.CompletedAt = &now
	req.UpdatedAt = now
	return req, nil
}

// ApplyCancel cancels the request. Cancellation after acceptance requires
// a reason; once work is in progress the request can no longer be cancelled.
func ApplyCancel(req models.ServiceRequest, reason string, now time.Time) (models.ServiceRequest, error) {
	if !CanTransition(req.Status, EventCancel) {
		return req, InvalidTransitionError{Event: EventCancel, Status: req.Status}
	}
	if req.Status == models.StatusAccepted && reason == "" {
		return req, ValidationError{Field: "reason", Reason: "required when cancelling an accepted request"}
	}
	req.Status = models.StatusCancelled
	req.CancelledAt = &now
	req.CancellationReason = reason
	req.UpdatedAt = now
	return req, nil
}

// ApplyExpire retires an instant request whose offer window has passed.
func ApplyExpire(req models.ServiceRequest, now time.Time) (models.ServiceRequest, error) {
	if !CanTransition(req.Status, EventExpire) {
		return req, InvalidTransitionError{Event: EventExpire, Status: req.Status}
	}
	if req.Kind != models.KindInstant || !req.IsExpiredAt(now) {
		return req, InvalidTransitionError{Event: EventExpire, Status: req.Status}
	}
	req.Status = models.StatusExpired
	req.UpdatedAt = now
	return req, nil
}
