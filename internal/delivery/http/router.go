package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shop-service/internal/delivery/http/middleware"
	"shop-service/internal/infrastructure/logger"
)

type Handlers struct {
	Orders   *OrderHandler
	Cart     *CartHandler
	Wishlist *WishlistHandler
	Products *ProductHandler
}

func NewRouter(h Handlers, verifier middleware.TokenVerifier, log *logger.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Metrics(), middleware.Logging(log))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	auth := middleware.Authenticate(verifier)

	api.GET("/products", h.Products.List)
	api.GET("/products/:productId", h.Products.Get)
	products := api.Group("/products", auth)
	{
		products.POST("", h.Products.Create)
		products.PUT("/:productId", h.Products.Update)
		products.DELETE("/:productId", h.Products.Delete)
	}

	orders := api.Group("/orders", auth)
	{
		orders.POST("", h.Orders.CreateOrder)
		orders.GET("", h.Orders.GetUserOrders)
		orders.GET("/:orderId", h.Orders.GetOrderDetails)
		orders.POST("/:orderId/cancel", h.Orders.CancelOrder)
		orders.PATCH("/:orderId/seller-status", h.Orders.UpdateOrderStatusAsSeller)
	}

	cart := api.Group("/cart", auth)
	{
		cart.GET("", h.Cart.GetCart)
		cart.POST("", h.Cart.AddItem)
		cart.DELETE("", h.Cart.Clear)
		cart.PATCH("/:productId", h.Cart.UpdateItem)
		cart.DELETE("/:productId", h.Cart.RemoveItem)
	}

	wishlist := api.Group("/wishlist", auth)
	{
		wishlist.GET("", h.Wishlist.List)
		wishlist.POST("", h.Wishlist.Add)
		wishlist.DELETE("/:productId", h.Wishlist.Remove)
	}

	return r
}
