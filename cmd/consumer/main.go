// Package main запускает консьюмер событий о создании заказов.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/order-service/internal/config"
	"github.com/mmeshcher/order-service/internal/messaging"
	"github.com/mmeshcher/order-service/internal/worker"
)

const workerCount = 4

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	pool := worker.NewPool(workerCount, logger)
	consumer := messaging.NewConsumer(cfg.Brokers(), cfg.KafkaTopic, pool, logger)
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Пул воркеров обрабатывает поставленные задачи до отмены контекста
	g.Go(func() error {
		return pool.Run(ctx)
	})

	// Чтение событий из Kafka
	g.Go(func() error {
		sugar.Infow("starting order consumer", "topic", cfg.KafkaTopic, "group", messaging.ConsumerGroupID)
		return consumer.Run(ctx)
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("consumer terminated with error", "error", err)
	}

	sugar.Info("consumer stopped gracefully")
}
