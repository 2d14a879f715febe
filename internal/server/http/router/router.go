package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/vendrix/storefront/internal/server/http/handlers"
	"github.com/vendrix/storefront/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.CommerceFacade, parser middleware.TokenParser, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	cartHandler := handlers.NewCartHandler(facade)
	checkoutHandler := handlers.NewCheckoutHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)

	api := engine.Group("/api")
	api.Use(middleware.Identity(parser))

	cart := api.Group("/cart")
	cart.GET("", cartHandler.Show)
	cart.POST("/items", cartHandler.AddItem)
	cart.PATCH("/items/:id", cartHandler.UpdateItem)
	cart.DELETE("/items/:id", cartHandler.RemoveItem)

	cartAuth := cart.Group("")
	cartAuth.Use(middleware.AuthRequired())
	cartAuth.POST("/merge", cartHandler.Merge)

	api.POST("/checkout", checkoutHandler.Create)

	orders := api.Group("/orders")
	orders.GET("", orderHandler.List)
	orders.GET("/summary", orderHandler.Summary)
	orders.GET("/:id", orderHandler.Show)
	orders.GET("/:id/lines", orderHandler.Lines)
	orders.POST("/:id/confirm-payment", orderHandler.ConfirmPayment)
	orders.POST("/:id/advance", orderHandler.Advance)
	orders.POST("/:id/cancel", orderHandler.Cancel)
	orders.POST("/:id/payment-instrument", orderHandler.PaymentInstrument)

	return engine
}
