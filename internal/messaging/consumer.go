package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumerGroupID — идентификатор группы консьюмеров сервиса заказов.
const ConsumerGroupID = "order-service-consumer"

// Executor принимает идентификатор заказа на фоновую обработку.
// Внутреннее устройство исполнителя для консьюмера непрозрачно.
type Executor interface {
	Enqueue(orderID string)
}

// Consumer читает события о создании заказов и передаёт их исполнителю задач.
type Consumer struct {
	reader   *kafka.Reader
	executor Executor
	logger   *zap.Logger
}

// NewConsumer создаёт консьюмер событий для указанного топика.
func NewConsumer(brokers []string, topic string, executor Executor, logger *zap.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		GroupID: ConsumerGroupID,
		Topic:   topic,
	})

	return &Consumer{
		reader:   reader,
		executor: executor,
		logger:   logger,
	}
}

// Run читает сообщения до отмены контекста. Смещения фиксируются
// автоматически после чтения, доставка — как минимум один раз.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		c.handle(msg.Value)
	}
}

func (c *Consumer) handle(value []byte) {
	var event OrderCreatedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		c.logger.Warn("skip malformed event", zap.Error(err))
		return
	}

	if event.OrderID == "" {
		return
	}

	c.executor.Enqueue(event.OrderID)
}

// Close останавливает чтение и освобождает соединение с брокером.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
