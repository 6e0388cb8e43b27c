package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/staco-app/directory-service/internal/adapter/httpapi"
	natspub "github.com/staco-app/directory-service/internal/adapter/messaging/nats"
	"github.com/staco-app/directory-service/internal/adapter/repository/cache"
	"github.com/staco-app/directory-service/internal/adapter/repository/mongodb"
	"github.com/staco-app/directory-service/internal/adapter/storage/s3"
	"github.com/staco-app/directory-service/internal/config"
	"github.com/staco-app/directory-service/internal/directory/usecase"
	"github.com/staco-app/directory-service/internal/mailer"
	"github.com/staco-app/directory-service/internal/platform/logger"
	"github.com/staco-app/directory-service/internal/platform/tracer"
)

func main() {
	log := logger.NewLogger()
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load config", "error", err.Error())
		os.Exit(1)
	}

	ctx := context.Background()

	tp, err := tracer.Init(ctx, "directory-service", cfg.OTELEndpoint)
	if err != nil {
		log.Error("failed to initialize tracing", "error", err.Error())
		os.Exit(1)
	}
	if tp != nil {
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				log.Warn("tracer shutdown failed", "error", err.Error())
			}
		}()
	}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Error("failed to connect to MongoDB", "error", err.Error())
		os.Exit(1)
	}
	defer mongoClient.Disconnect(context.Background())
	db := mongoClient.Database(cfg.MongoDB)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddress})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("failed to connect to Redis", "error", err.Error())
		os.Exit(1)
	}
	defer redisClient.Close()

	storage, err := s3.NewPhotoStorage(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOBucket, cfg.MinIOUseSSL, log)
	if err != nil {
		log.Error("failed to initialize photo storage", "error", err.Error())
		os.Exit(1)
	}

	publisher, err := natspub.NewPublisher(cfg.NATSURL)
	if err != nil {
		log.Error("failed to connect to NATS", "error", err.Error())
		os.Exit(1)
	}
	defer publisher.Close()

	listingRepo := mongodb.NewListingRepository(db, log)
	userRepo := mongodb.NewUserRepository(db, log)
	listingCache := cache.NewListingCache(redisClient)
	tokens := cache.NewTokenStore(redisClient)
	mail := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPEmail, cfg.SMTPPassword)

	listingUC := usecase.NewListingUsecase(listingRepo, userRepo, storage, listingCache, log)
	interestUC := usecase.NewInterestUsecase(listingRepo, userRepo, publisher, mail, listingCache, log)
	userUC := usecase.NewUserUsecase(userRepo, tokens, mail, log, cfg.JWTSecret, cfg.StudentDomains)

	handler := httpapi.NewHandler(listingUC, interestUC, userUC, log)
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      httpapi.NewRouter(handler, cfg.JWTSecret, log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info("HTTP server starting", "port", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server failed", "error", err.Error())
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err.Error())
	}
}
