package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/alysesue/bookings-api-sub000/internal/cache"
	"github.com/alysesue/bookings-api-sub000/internal/config"
	"github.com/alysesue/bookings-api-sub000/internal/db"
	"github.com/alysesue/bookings-api-sub000/internal/events"
	"github.com/alysesue/bookings-api-sub000/internal/grpcserver"
	"github.com/alysesue/bookings-api-sub000/internal/jobs"
	"github.com/alysesue/bookings-api-sub000/internal/logger"
	"github.com/alysesue/bookings-api-sub000/internal/model"
	"github.com/alysesue/bookings-api-sub000/internal/repository"
	"github.com/alysesue/bookings-api-sub000/internal/service"
	"github.com/alysesue/bookings-api-sub000/internal/telemetry"
)

const shutdownTimeout = 15 * time.Second

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	// 1. .env (если есть) и конфиг.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("load .env: %v", err)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// 2. Логгер.
	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Трассировка.
	shutdownTracing, err := telemetry.Setup(ctx, cfg.OTel)
	if err != nil {
		zl.Fatal("init telemetry", zap.Error(err))
	}

	// 4. БД и миграции.
	gormDB, err := db.NewGormDB(cfg.DB, zl)
	if err != nil {
		zl.Fatal("init db", zap.Error(err))
	}
	if cfg.DB.AutoMigrate {
		if err := model.AutoMigrate(gormDB); err != nil {
			zl.Fatal("auto migrate", zap.Error(err))
		}
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		zl.Fatal("sql DB", zap.Error(err))
	}
	defer sqlDB.Close()

	// 5. Репозитории (реализации на GORM).
	providerRepo := repository.NewGormProviderRepository(gormDB)
	serviceRepo := repository.NewGormServiceRepository(gormDB)
	scheduleRepo := repository.NewGormScheduleRepository(gormDB)
	slotRepo := repository.NewGormSlotRepository(gormDB)
	bookingRepo := repository.NewGormBookingRepository(gormDB)
	eventRepo := repository.NewGormEventRepository(gormDB)

	// 6. Кэш доступности и публикация событий.
	var availabilityCache cache.AvailabilityCache = cache.NopCache{}
	if cfg.Redis.Enabled {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			zl.Fatal("init redis", zap.Error(err))
		}
		defer rdb.Close()
		availabilityCache = cache.NewRedisCache(rdb, cfg.Redis.TTL, zl)
	}

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, zl)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			zl.Warn("close publisher", zap.Error(err))
		}
	}()

	// 7. Сервисы.
	scheduleSvc := service.NewScheduleService(scheduleRepo, providerRepo, serviceRepo, eventRepo, availabilityCache, publisher, zl)
	availabilitySvc := service.NewAvailabilityService(providerRepo, scheduleRepo, slotRepo, bookingRepo, availabilityCache, cfg.Availability, zl)
	slotSvc := service.NewSlotService(slotRepo, providerRepo, eventRepo, availabilityCache, zl)

	// 8. Фоновые задачи.
	scheduler := jobs.NewScheduler(zl, cfg.Jobs.Timeout)
	if cfg.Jobs.Enabled {
		prune := jobs.NewPruneSlotsJob(slotRepo, eventRepo, cfg.Jobs.Retention, zl)
		if err := scheduler.Add(cfg.Jobs.PruneCron, prune); err != nil {
			zl.Fatal("schedule jobs", zap.Error(err))
		}
		scheduler.Start()
	}

	// 9. gRPC-сервер в горутине.
	srv := grpcserver.New(cfg.GRPC, zl, grpcserver.Services{
		Schedules:    scheduleSvc,
		Availability: availabilitySvc,
		Slots:        slotSvc,
	})
	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve() }()

	// 10. Грейсфул-шатдаун по сигналу.
	select {
	case <-ctx.Done():
		zl.Info("shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			zl.Error("grpc serve", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	srv.Shutdown(shutdownCtx)
	if err := scheduler.Stop(shutdownCtx); err != nil {
		zl.Warn("stop jobs", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		zl.Warn("shutdown telemetry", zap.Error(err))
	}
	zl.Info("stopped")
}
