package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/minishop/ordersys/internal/errs"
	"github.com/minishop/ordersys/internal/models"
)

// OrderSubmitter is the write path behind POST /orders.
type OrderSubmitter interface {
	SubmitOrder(ctx context.Context, itemName string) (*models.Order, error)
}

// OrderReader serves the read endpoints.
type OrderReader interface {
	GetAll(ctx context.Context) ([]models.Order, error)
	GetByID(ctx context.Context, id int64) (*models.Order, error)
}

type OrderHandler struct {
	service OrderSubmitter
	reader  OrderReader
}

func NewOrderHandler(service OrderSubmitter, reader OrderReader) *OrderHandler {
	return &OrderHandler{
		service: service,
		reader:  reader,
	}
}

// HealthCheck returns server status
func (h *OrderHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "order-service"})
}

// CreateOrder handles POST /orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Item name is required"})
		return
	}

	order, err := h.service.SubmitOrder(c.Request.Context(), req.ItemName)
	if err != nil {
		var verr *errs.ValidationError
		var perr *errs.PublishError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Item name is required"})
		case errors.As(err, &perr):
			// The order is committed; tell the caller so, rather than
			// pretending the whole request failed.
			c.JSON(http.StatusInternalServerError, gin.H{
				"message": "Order created but notification delivery is delayed",
				"order":   order,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Order created", "order": order})
}

// ListOrders handles GET /orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.reader.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, orders)
}

// GetOrder handles GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid order ID"})
		return
	}

	order, err := h.reader.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "order not found"})
		return
	}

	c.JSON(http.StatusOK, order)
}
