package handlers

import (
	"errors"
	"net/http"

	requestRepo "hireloop/database/repository/request"
	"hireloop/middleware"
	"hireloop/models"
	request "hireloop/services/request"
	"hireloop/utils"

	"github.com/gin-gonic/gin"
)

// RequestHandler exposes the request lifecycle over HTTP.
type RequestHandler struct {
	Svc request.RequestService
}

func NewRequestHandler(svc request.RequestService) *RequestHandler {
	return &RequestHandler{Svc: svc}
}

// statusForError maps domain errors onto HTTP statuses. AlreadyAccepted
// gets its own 409 so seller clients can show "someone else got it"
// instead of a generic failure.
func statusForError(err error) (int, string) {
	var (
		validationErr request.ValidationError
		forbiddenErr  request.ForbiddenError
		notFoundErr   request.NotFoundError
		transitionErr request.InvalidTransitionError
		priceErr      request.PriceNotIncreasingError
		acceptedErr   request.AlreadyAcceptedError
	)
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, "invalid input"
	case errors.As(err, &forbiddenErr):
		return http.StatusForbidden, "forbidden"
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound, "not found"
	case errors.As(err, &priceErr):
		return http.StatusBadRequest, "price not increasing"
	case errors.As(err, &acceptedErr):
		return http.StatusConflict, "request already accepted"
	case errors.As(err, &transitionErr):
		return http.StatusUnprocessableEntity, "request is no longer open for this action"
	case request.IsTransient(err):
		return http.StatusServiceUnavailable, "storage temporarily unavailable, please retry"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func respondError(c *gin.Context, err error) {
	status, message := statusForError(err)
	utils.JSONError(c, status, message, err.Error())
}

// CreateInstant handles POST /api/requests/instant.
func (h *RequestHandler) CreateInstant(c *gin.Context) {
	var input request.CreateInstantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	req, err := h.Svc.CreateInstant(c.Request.Context(), middleware.CallerID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

// CreateScheduled handles POST /api/requests/scheduled.
func (h *RequestHandler) CreateScheduled(c *gin.Context) {
	var input request.CreateScheduledInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	req, err := h.Svc.CreateScheduled(c.Request.Context(), middleware.CallerID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

// BoostPrice handles POST /api/requests/:id/boost.
func (h *RequestHandler) BoostPrice(c *gin.Context) {
	var input struct {
		NewPrice float64 `json:"newPrice"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	req, err := h.Svc.BoostPrice(c.Request.Context(), middleware.CallerID(c), c.Param("id"), input.NewPrice)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// Accept handles POST /api/requests/:id/accept.
func (h *RequestHandler) Accept(c *gin.Context) {
	req, err := h.Svc.Accept(c.Request.Context(), middleware.CallerID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// UpdateStatus handles PATCH /api/requests/:id/status.
func (h *RequestHandler) UpdateStatus(c *gin.Context) {
	var input struct {
		Status models.RequestStatus `json:"status"`
		Reason string               `json:"reason,omitempty"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	req, err := h.Svc.UpdateStatus(c.Request.Context(), middleware.CallerID(c), c.Param("id"), input.Status, input.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// QueryNearby handles POST /api/requests/nearby.
func (h *RequestHandler) QueryNearby(c *gin.Context) {
	var query request.NearbyQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	reqs, err := h.Svc.QueryNearby(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": reqs, "count": len(reqs)})
}

// GetByID handles GET /api/requests/:id.
func (h *RequestHandler) GetByID(c *gin.Context) {
	req, err := h.Svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// ListMine handles GET /api/requests. Buyers see requests they posted,
// sellers the ones they claimed.
func (h *RequestHandler) ListMine(c *gin.Context) {
	callerID := middleware.CallerID(c)
	filter := requestRepo.ListFilter{Limit: 100}
	if status := c.Query("status"); status != "" {
		filter.Statuses = []models.RequestStatus{models.RequestStatus(status)}
	}

	var (
		reqs []models.ServiceRequest
		err  error
	)
	if middleware.CallerRole(c) == utils.RoleSeller {
		reqs, err = h.Svc.ListBySeller(c.Request.Context(), callerID, filter)
	} else {
		reqs, err = h.Svc.ListByBuyer(c.Request.Context(), callerID, filter)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": reqs, "count": len(reqs)})
}

// Delete handles DELETE /api/requests/:id.
func (h *RequestHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), middleware.CallerID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
