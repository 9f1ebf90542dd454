package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkart/storefront/internal/config"
	"github.com/polkart/storefront/internal/server/http/handlers"
	"github.com/polkart/storefront/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.StoreFacade, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	cartHandler := handlers.NewCartHandler(facade)
	paymentHandler := handlers.NewPaymentHandler(facade)

	api := engine.Group("/api")

	user := api.Group("/user")
	user.POST("/register", authHandler.Register)
	user.POST("/login", authHandler.Login)

	cart := api.Group("/cart")
	cart.Use(middleware.AuthRequired(facade))
	cart.GET("", cartHandler.List)
	cart.POST("/add/:id", cartHandler.Add)
	cart.POST("/remove/:id", cartHandler.Remove)

	payment := api.Group("/payment")
	payment.POST("/webhook", middleware.WebhookSignature(cfg.WebhookSecret), paymentHandler.Webhook)

	paymentAuth := payment.Group("")
	paymentAuth.Use(middleware.AuthRequired(facade))
	paymentAuth.POST("/create", paymentHandler.Create)
	paymentAuth.POST("/cancel", paymentHandler.Cancel)

	return engine
}
