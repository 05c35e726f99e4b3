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

type WishlistHandler struct {
	wishlist *usecase.WishlistUseCase
	timeout  time.Duration
}

func NewWishlistHandler(wishlist *usecase.WishlistUseCase, timeout time.Duration) *WishlistHandler {
	return &WishlistHandler{wishlist: wishlist, timeout: timeout}
}

func (h *WishlistHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	respondProducts(c)(h.wishlist.List(ctx, middleware.IdentityFrom(c)))
}

func (h *WishlistHandler) Add(c *gin.Context) {
	var req wishlistReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	respondProducts(c)(h.wishlist.Add(ctx, middleware.IdentityFrom(c), req.ProductID))
}

func (h *WishlistHandler) Remove(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	respondProducts(c)(h.wishlist.Remove(ctx, middleware.IdentityFrom(c), c.Param("productId")))
}

func respondProducts(c *gin.Context) func([]*entities.Product, error) {
	return func(products []*entities.Product, err error) {
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}
