package handlers

import (
	"fmt"
	"net/http"
	"testing"

	request "hireloop/services/request"
)

func TestStatusForErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{request.ValidationError{Field: "price", Reason: "out of range"}, http.StatusBadRequest},
		{request.ForbiddenError{Action: "boost"}, http.StatusForbidden},
		{request.NotFoundError{RequestID: "r1"}, http.StatusNotFound},
		{request.PriceNotIncreasingError{Current: 200, Offered: 180}, http.StatusBadRequest},
		{request.AlreadyAcceptedError{RequestID: "r1", SellerID: "s1"}, http.StatusConflict},
		{request.InvalidTransitionError{Event: request.EventComplete}, http.StatusUnprocessableEntity},
		{request.TransientError{Err: fmt.Errorf("connection reset")}, http.StatusServiceUnavailable},
		{fmt.Errorf("anything else"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		got, _ := statusForError(tc.err)
		if got != tc.want {
			t.Fatalf("%T: expected %d, got %d", tc.err, tc.want, got)
		}
	}

	// The race loser and the too-late seller must be distinguishable.
	lostRace, _ := statusForError(request.AlreadyAcceptedError{RequestID: "r1"})
	tooLate, _ := statusForError(request.InvalidTransitionError{Event: request.EventAccept})
	if lostRace == tooLate {
		t.Fatal("AlreadyAccepted and InvalidTransition must map to different statuses")
	}
}
