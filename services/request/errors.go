package request

import (
	"errors"
	"fmt"

	"hireloop/models"
)

// ValidationError reports malformed creation or query input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ForbiddenError signals that the caller is not authorized for the action.
type ForbiddenError struct {
	Action string
}

func (e ForbiddenError) Error() string {
	return fmt.Sprintf("caller not authorized to %s this request", e.Action)
}

// NotFoundError signals that no request exists for the given id.
type NotFoundError struct {
	RequestID string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("service request %s not found", e.RequestID)
}

// InvalidTransitionError reports a lifecycle event attempted from a state
// that does not allow it. The request is left unmodified.
type InvalidTransitionError struct {
	Event  Event
	Status models.RequestStatus
}

func (e InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s a request in status %q", e.Event, e.Status)
}

// PriceNotIncreasingError rejects a boost that does not raise the price.
type PriceNotIncreasingError struct {
	Current float64
	Offered float64
}

func (e PriceNotIncreasingError) Error() string {
	return fmt.Sprintf("boost price %.2f must exceed current price %.2f", e.Offered, e.Current)
}

// AlreadyAcceptedError is the routine outcome for sellers who lose the
// acceptance race. Distinct from InvalidTransitionError so callers can tell
// "someone else got it" apart from "this request is no longer open".
type AlreadyAcceptedError struct {
	RequestID string
	SellerID  string
}

func (e AlreadyAcceptedError) Error() string {
	return fmt.Sprintf("service request %s has already been accepted", e.RequestID)
}

// TransientError wraps persistence-layer failures (connectivity, timeouts).
// Retrying is the caller's responsibility.
type TransientError struct {
	Err error
}

func (e TransientError) Error() string {
	return fmt.Sprintf("transient storage failure: %v", e.Err)
}

func (e TransientError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is (or wraps) a TransientError.
func IsTransient(err error) bool {
	var te TransientError
	return errors.As(err, &te)
}
