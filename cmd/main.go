package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tutormatch/backend/internal/api/handler"
	"tutormatch/backend/internal/api/middleware"
	"tutormatch/backend/internal/api/router"
	"tutormatch/backend/internal/auth"
	"tutormatch/backend/internal/chathub"
	"tutormatch/backend/internal/config"
	"tutormatch/backend/internal/database"
	"tutormatch/backend/internal/listing"
	"tutormatch/backend/internal/localization"
	"tutormatch/backend/internal/logger"
	"tutormatch/backend/internal/match"
	"tutormatch/backend/internal/message"
	"tutormatch/backend/internal/storage"
	"tutormatch/backend/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(os.Getenv("TUTORMATCH_CONFIG"))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logger.New(&cfg.Log)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	zl.Info("starting tutormatch backend", zap.Int("port", cfg.Server.Port))

	// 1. Ініціалізація залежностей
	db, err := database.NewDB(&cfg.Database, zl)
	if err != nil {
		return err
	}

	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		// без Redis: локальна доставка, без rate limit
		zl.Warn("redis unavailable, running single-instance", zap.Error(err))
		rdb = nil
	}
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	store := storage.NewStorageService(db, rdb)
	tokens := auth.NewTokenManager(&cfg.Auth)

	loc, err := localization.Embedded()
	if err != nil {
		return fmt.Errorf("load locales: %w", err)
	}

	// 2. Chat Hub. The broker stays an untyped nil without Redis.
	var broker chathub.Broker
	var limiter middleware.Limiter
	if rdb != nil {
		broker = store
		limiter = store
	}
	hub := chathub.NewHub(broker, zl)

	users := user.NewService(store, tokens, cfg.Auth.BcryptCost, zl)
	matches := match.NewService(store, zl)
	listings := listing.NewService(store, zl)
	messages := message.NewService(store, hub, zl)
	hub.SetMessageSender(messages)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Головний диспетчер
	hubDone := make(chan struct{})
	go func() {
		defer close(hubDone)
		hub.Run(ctx)
	}()

	// 4. Gin та роутинг
	gin.SetMode(cfg.Server.Mode)
	h := handler.NewHandler(users, matches, listings, messages, hub, tokens, zl)
	r := router.New(h, router.Options{
		AllowOrigins: cfg.Server.AllowOrigins,
		Localizer:    loc,
		Limiter:      limiter,
		RateLimit:    cfg.RateLimit.Limit,
		RateWindow:   cfg.RateLimit.Window,
		Logger:       zl,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()
	zl.Info("http server listening", zap.String("addr", server.Addr))

	select {
	case err := <-serveErr:
		stop()
		<-hubDone
		return err
	case <-ctx.Done():
	}

	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zl.Warn("graceful shutdown failed", zap.Error(err))
	}
	// hub closes every WebSocket once ctx is done
	<-hubDone

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	zl.Info("bye")
	return nil
}
