package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/collabsphere/collabsphere-api/internal/api"
	"github.com/collabsphere/collabsphere-api/internal/core/service"
	"github.com/collabsphere/collabsphere-api/internal/infrastructure/config"
	mongodb "github.com/collabsphere/collabsphere-api/internal/infrastructure/db/mongo"
	redisdb "github.com/collabsphere/collabsphere-api/internal/infrastructure/db/redis"
	"github.com/collabsphere/collabsphere-api/internal/realtime"
	"github.com/collabsphere/collabsphere-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Infrastructure ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(db)
	messageRepo := mongodb.NewMessageRepository(db)
	taskRepo := mongodb.NewTaskRepository(db)
	projectRepo := mongodb.NewProjectRepository(db)
	inviteStore := redisdb.NewInviteStore(rdb)

	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create user indexes")
	}
	if err := messageRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create message indexes")
	}
	if err := taskRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create task indexes")
	}

	// --- Realtime hub ---
	hub := realtime.NewHub(log)
	go hub.Run()

	// --- Services ---
	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(userRepo, tokenService)
	userService := service.NewUserService(userRepo)
	taskService := service.NewTaskService(taskRepo, userRepo, log)
	projectService := service.NewProjectService(projectRepo, log)
	inviteService := service.NewInviteService(inviteStore, log)

	chatService, err := service.NewChatService(ctx, messageRepo, userRepo, hub, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise chat service")
	}

	wsHandler := realtime.NewHandler(hub, tokenService, chatService, log)

	// --- HTTP ---
	e := api.NewRouter(api.Dependencies{
		Auth:     authService,
		Users:    userService,
		Tasks:    taskService,
		Projects: projectService,
		Chat:     chatService,
		Invites:  inviteService,
		Tokens:   tokenService,
		Realtime: wsHandler,
		Mongo:    db,
		Redis:    rdb,
		Logger:   log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	if err := hub.Shutdown(shutdownTimeout); err != nil {
		log.Error().Err(err).Msg("hub shutdown timed out")
	}
}
