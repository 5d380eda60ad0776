package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cinema-backoffice/cmd"
	"cinema-backoffice/internal/data/repository"
	"cinema-backoffice/internal/job"
	"cinema-backoffice/internal/wire"
	"cinema-backoffice/migrations"
	"cinema-backoffice/pkg/database"
	"cinema-backoffice/pkg/queue"
	"cinema-backoffice/pkg/storage"
	"cinema-backoffice/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using production logger.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	if err := run(config, logger); err != nil {
		logger.Fatal("Application stopped", zap.Error(err))
	}
	logger.Info("Application stopped")
}

func run(config *utils.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	if config.Database.Migrate {
		version, err := database.Migrate(config.Database.DSN(), migrations.FS)
		if err != nil {
			return err
		}
		logger.Info("Database migrated", zap.Uint("version", version))
	}

	db, err := database.InitDB(config.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("Database connected successfully")

	var rdb redis.UniversalClient
	if config.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		})
		defer client.Close()

		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("Redis unreachable, rate limiter will fail open", zap.Error(err))
		}
		rdb = client
	}

	var publisher queue.Publisher = queue.NopPublisher{}
	if config.AMQP.URL != "" {
		rabbit, err := queue.NewRabbitPublisher(config.AMQP.URL, config.AMQP.Exchange, logger)
		if err != nil {
			return err
		}
		defer rabbit.Close()
		publisher = rabbit
	}

	images, err := storage.NewDiskStore(config.Storage.Dir, config.Storage.BaseURL, logger)
	if err != nil {
		return err
	}

	repos := repository.NewRepository(db, logger)

	app, err := wire.Wiring(ctx, wire.Deps{
		Repo:      repos,
		DB:        db,
		Redis:     rdb,
		Publisher: publisher,
		Images:    images,
		Clock:     utils.SystemClock{},
		Config:    config,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	if config.Seed.AdminEmail != "" {
		created, err := app.Service.Staff.EnsureSuperAdmin(ctx, config.Seed.AdminEmail, config.Seed.AdminPassword, config.Seed.AdminName)
		if err != nil {
			return err
		}
		if created {
			logger.Info("Super admin account created", zap.String("email", config.Seed.AdminEmail))
		}
	}

	scheduler := job.NewScheduler(logger)
	if err := scheduler.Register(config.Cron.SessionCleanup, "session_cleanup",
		job.SessionCleanup(app.Service.Auth, time.Minute, logger)); err != nil {
		return err
	}
	scheduler.Start()
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), config.App.ShutdownTimeout)
		defer cancel()
		if err := scheduler.Stop(stopCtx); err != nil {
			logger.Warn("Scheduler did not stop in time", zap.Error(err))
		}
	}()

	return cmd.APIServer(ctx, app.Router, config.App.Port, config.App.ShutdownTimeout, logger)
}
