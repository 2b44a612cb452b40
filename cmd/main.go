package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gamehub/topup-service/internal/auth"
	"gamehub/topup-service/internal/cache"
	"gamehub/topup-service/internal/config"
	"gamehub/topup-service/internal/events"
	"gamehub/topup-service/internal/handler"
	"gamehub/topup-service/internal/middleware"
	"gamehub/topup-service/internal/orders"
	"gamehub/topup-service/internal/paystack"
	"gamehub/topup-service/internal/schedule"
	"gamehub/topup-service/internal/topup"
	"gamehub/topup-service/internal/verification"
)

func main() {
	cfg := config.Load()

	tokenValidator, err := auth.LoadValidator(cfg.JWTPublicKeyPath, cfg.JWTIssuer)
	if err != nil {
		log.Fatalf("JWT validator init failed: %v", err)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// --- MongoDB (published fee schedules) ---
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("MongoDB connect error: %v", err)
	}
	defer mongoClient.Disconnect(context.Background())
	db := mongoClient.Database(cfg.MongoDatabase)

	db.Collection(schedule.Collection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "currency", Value: 1}, {Key: "active", Value: 1}, {Key: "effectiveFrom", Value: -1}},
	})

	// --- Redis (finance cache + session pushes) ---
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("Redis connect error: %v", err)
	}
	defer rdb.Close()

	// --- Fee schedule ---
	fallback := cfg.Calculator()
	if err := fallback.Schedule.Validate(); err != nil {
		log.Fatalf("fee schedule from env: %v", err)
	}
	schedules := schedule.NewStore(db, cfg.PaystackDefaultCurrency, fallback)
	if err := schedules.Refresh(ctx); err != nil {
		log.Printf("[schedule] initial load failed, using env schedule: %v", err)
	}
	go schedules.Run(ctx, cfg.ScheduleRefresh)

	// --- Collaborators ---
	orderClient := orders.NewHTTPClient(cfg.OrderServiceURL, cfg.InternalServiceKey)
	invalidator := cache.NewRedisInvalidator(rdb)
	publisher := events.NewPublisher(rdb)

	deps := topup.Deps{
		Issuer:        orderClient,
		Verifier:      verification.NewClient(orderClient, invalidator),
		Cache:         invalidator,
		Notifier:      publisher,
		Fees:          schedules,
		WaitPolicy:    topup.FixedDelay(cfg.VerifyDelay),
		VerifyTimeout: cfg.VerifyTimeout,
	}
	if cfg.PaystackCheckoutEnabled {
		if cfg.PaystackSecretKey == "" {
			log.Println("[paystack] no secret key, checkout runs in simulation mode")
		}
		deps.Checkout = paystack.NewCheckout(
			paystack.NewClient(cfg.PaystackSecretKey, cfg.PaystackBaseURL),
			cfg.PaystackDefaultCurrency,
			cfg.PaystackCallbackURL,
			cfg.PaystackAllowedChannels,
		)
	} else {
		log.Println("[paystack] checkout disabled, top-ups will report the gateway unavailable")
	}
	topups := topup.NewManager(deps)

	h := handler.New(topups, schedules, publisher)

	// --- Fiber App ---
	app := fiber.New(fiber.Config{
		AppName:      "Glory Grid Top-Up Service",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": "topup-service"})
	})

	h.Register(app.Group("/api/v1/topup", middleware.RequireAuth(tokenValidator)))

	app.Use("/ws/topup", middleware.UpgradeWS(tokenValidator))
	app.Get("/ws/topup", websocket.New(h.TopUpWebSocket))

	// --- Graceful Shutdown ---
	go func() {
		log.Printf("Top-up service running on :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit
	log.Println("Shutting down topup-service...")
	_ = app.Shutdown()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.VerifyTimeout+cfg.VerifyDelay)
	defer cancel()
	if err := topups.Shutdown(shutdownCtx); err != nil {
		log.Printf("verifications still running at exit: %v", err)
	}
}
