package main

import (
	"context"
	"log"
	"os"
	"strings"

	"log/slog"

	"github.com/joho/godotenv"

	kafkaevents "github.com/ojasshelke/product-detail-mini-cart/internal/events/kafka"
	apphttp "github.com/ojasshelke/product-detail-mini-cart/internal/http"
	"github.com/ojasshelke/product-detail-mini-cart/internal/http/cartsession"
	"github.com/ojasshelke/product-detail-mini-cart/internal/modules/analytics"
	"github.com/ojasshelke/product-detail-mini-cart/internal/modules/cart"
	"github.com/ojasshelke/product-detail-mini-cart/internal/modules/catalog"
	"github.com/ojasshelke/product-detail-mini-cart/internal/storage"
)

func main() {
	// Load .env file (ignore error if not found - prod uses real env vars)
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx := context.Background()

	kv, err := storage.FromEnv(ctx)
	if err != nil {
		log.Fatalf("failed to open cart store: %v", err)
	}
	logger.Info("cart store ready", "driver", kv.Driver)

	loader := catalog.NewLoader(
		os.Getenv("PRODUCT_API_URL"),
		envOr("PRODUCT_DATA_PATH", "./data/product.json"),
		logger,
	)

	// Resolve once at startup for the variant-name map; the products endpoint
	// re-resolves per request.
	product, err := loader.Load(ctx)
	if err != nil {
		log.Fatalf("failed to load product data: %v", err)
	}

	var publisher analytics.Publisher
	if brokers := os.Getenv("ANALYTICS_BROKERS"); brokers != "" {
		publisher = kafkaevents.NewPublisher(strings.Split(brokers, ","), os.Getenv("ANALYTICS_TOPIC"))
		logger.Info("analytics publisher enabled", "brokers", brokers)
	}

	recorder := analytics.NewRecorder(
		envOr("ANALYTICS_LOG_PATH", "./storage/analytics.log"),
		logger,
		publisher,
	)

	secret := os.Getenv("CART_COOKIE_SECRET")
	if secret == "" {
		log.Fatal("CART_COOKIE_SECRET environment variable is required")
	}
	sessions := cartsession.New([]byte(secret), os.Getenv("CART_COOKIE_NAME"), os.Getenv("COOKIE_SECURE") == "true")

	registry := cart.NewRegistry(kv.Store, logger)
	defer registry.Close()

	r := apphttp.NewRouter(logger, apphttp.Deps{
		Loader:       loader,
		Recorder:     recorder,
		Registry:     registry,
		Sessions:     sessions,
		VariantNames: product.VariantNames(),
	})

	_ = r.Run(":" + envOr("PORT", "8080"))
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
