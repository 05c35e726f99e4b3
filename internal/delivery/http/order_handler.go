package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shop-service/internal/delivery/http/middleware"
	"shop-service/internal/domain/entities"
	"shop-service/internal/usecase"
)

const IdempotencyKeyHeader = "Idempotency-Key"

type OrderHandler struct {
	orders  *usecase.OrderUseCase
	timeout time.Duration
}

func NewOrderHandler(orders *usecase.OrderUseCase, timeout time.Duration) *OrderHandler {
	return &OrderHandler{orders: orders, timeout: timeout}
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	order, err := h.orders.CreateOrder(ctx, middleware.IdentityFrom(c), req.DeliveryAddress.toEntity(), c.GetHeader(IdempotencyKeyHeader))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order":   toOrderResp(order, nil),
	})
}

func (h *OrderHandler) GetUserOrders(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	views, err := h.orders.GetUserOrders(ctx, middleware.IdentityFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]orderResp, len(views))
	for i, view := range views {
		resp[i] = toOrderResp(view.Order, view.Products)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrderHandler) GetOrderDetails(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	view, err := h.orders.GetOrderDetails(ctx, middleware.IdentityFrom(c), c.Param("orderId"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResp(view.Order, view.Products))
}

func (h *OrderHandler) CancelOrder(c *gin.Context) {
	var req cancelOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	order, err := h.orders.CancelOrder(ctx, middleware.IdentityFrom(c), c.Param("orderId"),
		entities.CancelReason(req.CancelReason), req.CancelDescription)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order cancelled successfully",
		"order":   toOrderResp(order, nil),
	})
}

func (h *OrderHandler) UpdateOrderStatusAsSeller(c *gin.Context) {
	var req sellerStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	order, err := h.orders.UpdateOrderStatusAsSeller(ctx, middleware.IdentityFrom(c), c.Param("orderId"),
		entities.OrderStatus(req.Status))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated successfully",
		"order":   toOrderResp(order, nil),
	})
}
