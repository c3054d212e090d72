// Package main запускает HTTP-сервер сервиса заказов.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/order-service/internal/cache"
	"github.com/mmeshcher/order-service/internal/config"
	"github.com/mmeshcher/order-service/internal/handler"
	"github.com/mmeshcher/order-service/internal/messaging"
	"github.com/mmeshcher/order-service/internal/middleware"
	"github.com/mmeshcher/order-service/internal/repository"
	"github.com/mmeshcher/order-service/internal/service"
	"github.com/mmeshcher/order-service/internal/token"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	repo, err := repository.NewPostgresRepository(cfg.DatabaseURI)
	if err != nil {
		sugar.Fatalw("database initialization error", "error", err.Error())
	}
	defer repo.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	orderCache := cache.NewOrderCache(redisClient)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Продюсер общий на весь процесс; при недоступном брокере сервис
	// стартует деградировавшим, публикации будут падать сразу.
	producer := messaging.NewProducer(ctx, cfg.Brokers(), cfg.KafkaTopic, logger)
	defer producer.Close()

	tokens := token.NewManager(cfg.SecretKey, cfg.TokenTTL)

	authSvc := service.NewAuthService(repo, tokens)
	orderSvc := service.NewOrderService(repo, orderCache, producer, logger)

	authMiddleware := middleware.NewAuthMiddleware(tokens)
	h := handler.NewHandler(authSvc, orderSvc, repo, orderCache, logger, authMiddleware)

	r := h.SetupRouter()

	server := &http.Server{
		Addr:    cfg.RunAddress,
		Handler: r,
	}

	g, ctx := errgroup.WithContext(ctx)

	// Запуск HTTP-сервера
	g.Go(func() error {
		sugar.Infow("starting order service", "addr", cfg.RunAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown при отмене контекста (сигнал или ошибка в другой горутине)
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
