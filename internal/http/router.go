package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/ojasshelke/product-detail-mini-cart/internal/http/cartsession"
	"github.com/ojasshelke/product-detail-mini-cart/internal/http/handlers"
	"github.com/ojasshelke/product-detail-mini-cart/internal/http/middleware"
	"github.com/ojasshelke/product-detail-mini-cart/internal/modules/analytics"
	"github.com/ojasshelke/product-detail-mini-cart/internal/modules/cart"
	"github.com/ojasshelke/product-detail-mini-cart/internal/modules/catalog"
)

type Deps struct {
	Loader       *catalog.Loader
	Recorder     *analytics.Recorder
	Registry     *cart.Registry
	Sessions     *cartsession.Codec
	VariantNames map[string]string
}

func NewRouter(logger *slog.Logger, deps Deps) *gin.Engine {
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.ErrorHandler(logger))

	products := handlers.NewProductsHandler(deps.Loader)
	events := handlers.NewAnalyticsHandler(deps.Recorder)
	carts := handlers.NewCartHandler(deps.Registry, deps.Sessions, deps.VariantNames)

	api := r.Group("/api")
	{
		api.GET("/products", products.Get)

		api.GET("/analytics", events.List)
		api.POST("/analytics", events.Record)
		api.GET("/analytics/summary", events.Summary)

		api.GET("/cart", carts.Get)
		api.GET("/cart/badge", carts.Badge)
		api.POST("/cart/items", carts.Add)
		api.POST("/cart/items/update", carts.Update)
		api.POST("/cart/items/remove", carts.Remove)
		api.POST("/cart/clear", carts.Clear)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// The widget and dashboard are static files; everything dynamic goes
	// through /api.
	r.Static("/static", "./static")

	return r
}
