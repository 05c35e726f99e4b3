package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shop-service/internal/delivery/http/middleware"
	"shop-service/internal/usecase"
)

type CartHandler struct {
	cart    *usecase.CartUseCase
	timeout time.Duration
}

func NewCartHandler(cart *usecase.CartUseCase, timeout time.Duration) *CartHandler {
	return &CartHandler{cart: cart, timeout: timeout}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	h.respond(c)(h.cart.GetCart(ctx, middleware.IdentityFrom(c)))
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req addToCartReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	h.respond(c)(h.cart.AddItem(ctx, middleware.IdentityFrom(c), req.ProductID, req.Quantity))
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req updateCartReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	h.respond(c)(h.cart.UpdateItem(ctx, middleware.IdentityFrom(c), c.Param("productId"), req.Quantity))
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	h.respond(c)(h.cart.RemoveItem(ctx, middleware.IdentityFrom(c), c.Param("productId")))
}

func (h *CartHandler) Clear(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	h.respond(c)(h.cart.Clear(ctx, middleware.IdentityFrom(c)))
}

func (h *CartHandler) respond(c *gin.Context) func(*usecase.CartView, error) {
	return func(view *usecase.CartView, err error) {
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCartResp(view))
	}
}
