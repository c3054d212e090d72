// Package messaging содержит продюсер и консьюмер событий заказов в Kafka.
package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	maxConnectAttempts = 5
	connectRetryDelay  = 3 * time.Second
)

// ErrNotInitialized возвращается при публикации через продюсер,
// которому не удалось подключиться к брокеру на старте.
var ErrNotInitialized = errors.New("kafka producer is not initialized")

// OrderCreatedEvent описывает событие о создании заказа.
// Кроме идентификатора полезной нагрузки нет: консьюмер дочитывает детали сам.
type OrderCreatedEvent struct {
	OrderID string `json:"order_id"`
}

// Producer публикует события о создании заказов в Kafka.
// Один экземпляр живёт весь процесс и передаётся обработчикам по ссылке.
type Producer struct {
	writer    *kafka.Writer
	logger    *zap.Logger
	closeOnce sync.Once
}

// NewProducer устанавливает соединение с брокером, делая до пяти попыток
// с паузой в три секунды. Если все попытки исчерпаны, возвращается
// деградировавший продюсер: каждая публикация завершается ErrNotInitialized
// сразу, без ожидания.
func NewProducer(ctx context.Context, brokers []string, topic string, logger *zap.Logger) *Producer {
	p := &Producer{logger: logger}

	if len(brokers) == 0 {
		logger.Error("no kafka brokers configured")
		return p
	}

	for attempt := 1; attempt <= maxConnectAttempts; attempt++ {
		conn, err := kafka.DialContext(ctx, "tcp", brokers[0])
		if err == nil {
			conn.Close()
			p.writer = &kafka.Writer{
				Addr:                   kafka.TCP(brokers...),
				Topic:                  topic,
				Balancer:               &kafka.LeastBytes{},
				RequiredAcks:           kafka.RequireOne,
				AllowAutoTopicCreation: true,
			}
			logger.Info("kafka producer connected", zap.Int("attempt", attempt))
			return p
		}

		logger.Warn("kafka producer connect attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("maxAttempts", maxConnectAttempts),
			zap.Error(err),
		)

		if attempt < maxConnectAttempts {
			select {
			case <-ctx.Done():
				return p
			case <-time.After(connectRetryDelay):
			}
		}
	}

	logger.Error("could not connect kafka producer", zap.Int("attempts", maxConnectAttempts))
	return p
}

// PublishOrderCreated публикует событие о создании заказа и ждёт подтверждения брокера.
func (p *Producer) PublishOrderCreated(ctx context.Context, orderID string) error {
	if p.writer == nil {
		return ErrNotInitialized
	}

	payload, err := json.Marshal(OrderCreatedEvent{OrderID: orderID})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{Value: payload}); err != nil {
		return fmt.Errorf("write message: %w", err)
	}

	return nil
}

// Close освобождает соединение с брокером. Повторные вызовы и вызов
// для так и не подключившегося продюсера безопасны.
func (p *Producer) Close() error {
	var err error
	p.closeOnce.Do(func() {
		if p.writer != nil {
			err = p.writer.Close()
		}
	})
	return err
}
