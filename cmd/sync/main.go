package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/nordbooks/fiken-sync/internal/application/service"
	"github.com/nordbooks/fiken-sync/internal/config"
	"github.com/nordbooks/fiken-sync/internal/domain"
	"github.com/nordbooks/fiken-sync/internal/infrastructure/archive"
	"github.com/nordbooks/fiken-sync/internal/infrastructure/fiken"
	"github.com/nordbooks/fiken-sync/internal/infrastructure/persistence"
	"github.com/nordbooks/fiken-sync/internal/infrastructure/progress"
	"github.com/nordbooks/fiken-sync/internal/infrastructure/stripeapi"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	cfg := config.Load()

	startDate, err := time.Parse("2006-01-02", cfg.Sync.StartDate)
	if err != nil {
		logger.Fatal("invalid SYNC_START_DATE", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Interrupting between charges is always safe: progress is recorded
	// after every confirmed charge, never batched.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("interrupt received, stopping...")
		cancel()
	}()

	httpClient := &http.Client{Timeout: cfg.Sync.HTTPTimeout}

	chargeSource := stripeapi.NewClient(cfg.Stripe.BaseURL, cfg.Stripe.APIKey, httpClient, logger)

	ledger := fiken.NewClient(fiken.Config{
		BaseURL:          cfg.Fiken.BaseURL,
		APIToken:         cfg.Fiken.APIToken,
		CompanySlug:      cfg.Fiken.CompanySlug,
		SubmitAttempts:   cfg.Fiken.SubmitAttempts,
		SubmitRetryDelay: cfg.Fiken.SubmitRetryDelay,
		HTTPClient:       httpClient,
	}, logger)

	store := newProgressStore(ctx, cfg, logger)

	sync := service.NewSyncService(
		chargeSource,
		service.NewCustomerResolver(ledger, logger),
		domain.Classifier{Threshold: cfg.Sync.VATThreshold, Rate: cfg.Sync.VATRate},
		domain.NewInvoiceBuilder(cfg.Fiken.PaymentAccount),
		ledger,
		store,
		archive.NewWriter(cfg.Sync.ArchiveDir, logger),
		cfg.Sync.DryRun,
		logger,
	)

	result, err := sync.Run(ctx, startDate, time.Now())
	if err != nil {
		logger.Fatal("sync failed", zap.Error(err))
	}

	logger.Info("sync complete",
		zap.Int("processed", result.Processed),
		zap.Int("skipped", result.Skipped),
	)
}

func newProgressStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) domain.ProgressStore {
	switch cfg.Progress.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Fatal("failed to connect to Redis", zap.Error(err))
		}
		logger.Info("connected to Redis successfully")
		return progress.NewRedisStore(client, cfg.Redis.KeyPrefix, logger)

	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=Local",
			cfg.MySQL.User,
			cfg.MySQL.Password,
			cfg.MySQL.Host,
			cfg.MySQL.Database,
		)
		db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err != nil {
			logger.Fatal("failed to connect to MySQL", zap.Error(err))
		}
		if err := db.AutoMigrate(&persistence.ProcessedChargeModel{}); err != nil {
			logger.Fatal("failed to auto-migrate schema", zap.Error(err))
		}
		logger.Info("connected to MySQL successfully", zap.String("host", cfg.MySQL.Host))
		return progress.NewGormStore(db, logger)

	default:
		return progress.NewFileStore(cfg.Progress.File, logger)
	}
}
