package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/minishop/ordersys/internal/models"
)

type NotificationReader interface {
	GetAll(ctx context.Context) ([]models.Notification, error)
}

type NotificationHandler struct {
	reader NotificationReader
}

func NewNotificationHandler(reader NotificationReader) *NotificationHandler {
	return &NotificationHandler{reader: reader}
}

// HealthCheck returns server status
func (h *NotificationHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "notification-service"})
}

// ListNotifications handles GET /notifications
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	notifications, err := h.reader.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, notifications)
}
