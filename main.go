package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/bakery-admin-api/config"
	"github.com/kendall-kelly/bakery-admin-api/controllers"
	"github.com/kendall-kelly/bakery-admin-api/middleware"
	"github.com/kendall-kelly/bakery-admin-api/models"
	"github.com/kendall-kelly/bakery-admin-api/notifier"
	"github.com/kendall-kelly/bakery-admin-api/services"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log := config.NewLogger(cfg.LogLevel)
	log.Info("Starting Bakery Admin API server...", "env", cfg.GoEnv)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		return err
	}
	db := config.GetDB()
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Info("Database migration completed successfully")

	if err := setupImages(ctx, cfg, log); err != nil {
		return err
	}
	idempotency, err := setupStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	services.SetUserInfoFetcher(services.NewAuth0Service(cfg.Auth0Domain))

	orders := services.InitOrderService(services.NewGormStore(db), services.OrderServiceConfig{
		TaxRate:     cfg.TaxRate(),
		DeliveryFee: cfg.DeliveryFeeAmount(),
	}, log)

	poller := notifier.NewPoller(notifier.PendingSourceFunc(func(ctx context.Context) (int64, error) {
		return orders.Store().CountOrders(ctx, services.OrderFilter{Status: models.StatusPending})
	}), cfg.PollInterval(), log)
	alarm := notifier.NewBroadcastAlarm()
	alert, err := notifier.NewAlertController(alarm, cfg.AlertSoundURL, log)
	if err != nil {
		return fmt.Errorf("failed to set up order alert: %w", err)
	}
	poller.Subscribe(alert.Observe)
	orders.SetPendingRefresher(poller)
	controllers.InitNotifications(poller, alert, alarm)

	auth, err := middleware.EnsureValidToken(cfg)
	if err != nil {
		return fmt.Errorf("failed to set up authentication: %w", err)
	}

	server := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: newRouter(routerDeps{
			auth:        auth,
			idempotency: idempotency,
			corsOrigins: cfg.CORSAllowedOrigins,
			log:         log,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server is running", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return poller.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// setupImages keeps images in S3 when a bucket is configured, otherwise on local disk
func setupImages(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	if !cfg.UsesS3() {
		if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
			return fmt.Errorf("failed to create upload directory: %w", err)
		}
		services.SetImageService(services.NewLocalImageService(cfg.UploadDir))
		log.Info("Storing images on local disk", "dir", cfg.UploadDir)
		return nil
	}

	s3, err := services.NewS3Service(ctx, cfg)
	if err != nil {
		return err
	}
	services.SetImageService(services.NewS3ImageService(s3))
	log.Info("Storing images in S3", "bucket", cfg.AWSS3Bucket, "region", cfg.AWSRegion)
	return nil
}

// setupStores picks redis-backed cart drafts and idempotency keys when REDIS_ADDR is set
func setupStores(ctx context.Context, cfg *config.Config, log *slog.Logger) (services.IdempotencyStore, error) {
	if cfg.RedisAddr == "" {
		services.SetCartDraftStore(services.NewMemoryCartDraftStore())
		log.Info("Using in-memory cart drafts and idempotency keys")
		return services.NewMemoryIdempotencyStore(services.IdempotencyTTL), nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
	}
	services.SetCartDraftStore(services.NewRedisCartDraftStore(rdb, services.CartDraftTTL))
	log.Info("Using redis for cart drafts and idempotency keys", "addr", cfg.RedisAddr)
	return services.NewRedisIdempotencyStore(rdb, services.IdempotencyTTL), nil
}
