package main

import (
	"context"
	"log"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"hall-booking/cmd"
	"hall-booking/internal/data/cache"
	"hall-booking/internal/data/repository"
	"hall-booking/internal/queue"
	"hall-booking/internal/seed"
	"hall-booking/internal/wire"
	"hall-booking/pkg/database"
	"hall-booking/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.String("timezone", config.App.Location().String()),
		zap.String("unique_slot_scope", config.Booking.UniqueSlotScope),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// background workers stop on ctx and are awaited before exit
	var workers sync.WaitGroup
	defer func() {
		stop()
		workers.Wait()
	}()

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if config.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	repos := repository.NewRepository(db, logger)

	deps := wire.Deps{}

	var rdb *redis.Client
	if config.Redis.Enabled {
		rdb, err = database.InitRedis(config.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, running without cache and rate limiting", zap.Error(err))
		} else {
			defer rdb.Close()
			deps.Redis = rdb
			deps.Options.Cache = cache.NewAvailabilityCache(rdb, config.Redis.AvailabilityTTL, logger)
			logger.Info("Redis connected", zap.String("addr", config.Redis.Addr))
		}
	}

	if config.RabbitMQ.Enabled {
		publisher := queue.NewPublisher(config.RabbitMQ.URL, config.RabbitMQ.Queue, logger)
		defer publisher.Close()
		deps.Options.Publisher = publisher

		if config.RabbitMQ.StartConsumer {
			// the consumer closes the audit log when it stops
			audit := utils.NewRotatingWriter(config.RabbitMQ.AuditLogPath)
			consumer := queue.NewConsumer(config.RabbitMQ.URL, config.RabbitMQ.Queue, audit, logger)

			workers.Add(1)
			go func() {
				defer workers.Done()
				consumer.Run(ctx)
			}()
		}
	}

	app := wire.Wiring(repos, config, deps, logger)

	if config.Seed.OnStart {
		if err := seed.Run(ctx, app.Service, logger); err != nil {
			logger.Fatal("Failed to seed database", zap.Error(err))
		}
	}

	workers.Add(1)
	go func() {
		defer workers.Done()
		cmd.SessionJanitor(ctx, time.Hour, app.Service.Auth.CleanExpiredSessions, logger)
	}()

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped", zap.Error(err))
	}

	logger.Info("Server stopped")
}
