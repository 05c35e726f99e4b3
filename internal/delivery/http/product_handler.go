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

type ProductHandler struct {
	products *usecase.ProductUseCase
	timeout  time.Duration
}

func NewProductHandler(products *usecase.ProductUseCase, timeout time.Duration) *ProductHandler {
	return &ProductHandler{products: products, timeout: timeout}
}

func (h *ProductHandler) List(c *gin.Context) {
	filter := entities.ProductFilter{
		Category:    entities.Category(c.Query("category")),
		Subcategory: entities.Subcategory(c.Query("subcategory")),
		SellerID:    c.Query("seller"),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	respondProducts(c)(h.products.List(ctx, filter))
}

func (h *ProductHandler) Get(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	product, err := h.products.Get(ctx, c.Param("productId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	product, err := h.products.Create(ctx, middleware.IdentityFrom(c), req.toInput())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Product created successfully",
		"product": product,
	})
}

func (h *ProductHandler) Update(c *gin.Context) {
	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	product, err := h.products.Update(ctx, middleware.IdentityFrom(c), c.Param("productId"), req.toInput())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated successfully",
		"product": product,
	})
}

func (h *ProductHandler) Delete(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	if err := h.products.Delete(ctx, middleware.IdentityFrom(c), c.Param("productId")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
