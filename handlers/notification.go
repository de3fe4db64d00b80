package handlers

import (
	"net/http"

	"hireloop/middleware"
	"hireloop/services/notification"
	"hireloop/utils"

	"github.com/gin-gonic/gin"
)

// NotificationHandler exposes the in-app notification feed.
type NotificationHandler struct {
	Svc notification.NotificationService
}

func NewNotificationHandler(svc notification.NotificationService) *NotificationHandler {
	return &NotificationHandler{Svc: svc}
}

// ListMine handles GET /api/notifications.
func (h *NotificationHandler) ListMine(c *gin.Context) {
	items, err := h.Svc.ListForRecipient(c.Request.Context(), middleware.CallerID(c), 50)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list notifications", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": items, "count": len(items)})
}

// MarkRead handles POST /api/notifications/:id/read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.Svc.MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to mark notification read", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"read": true})
}
