// Package cache реализует кэш заказов в Redis.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mmeshcher/order-service/internal/model"
)

// OrderTTL задаёт время жизни записи заказа в кэше с момента последней записи.
const OrderTTL = 300 * time.Second

// OrderCache хранит снимки заказов в Redis. Кэш не является источником истины:
// запись может отсутствовать или отставать от БД в пределах TTL.
type OrderCache struct {
	client *redis.Client
}

// NewOrderCache создаёт кэш заказов поверх клиента Redis.
func NewOrderCache(client *redis.Client) *OrderCache {
	return &OrderCache{client: client}
}

func orderKey(orderID string) string {
	return fmt.Sprintf("order:%s", orderID)
}

// GetOrder возвращает заказ из кэша. Промах и любая ошибка Redis
// равнозначны отсутствию записи: недоступный кэш не должен блокировать чтение.
func (c *OrderCache) GetOrder(ctx context.Context, orderID string) (*model.Order, bool) {
	data, err := c.client.Get(ctx, orderKey(orderID)).Bytes()
	if err != nil {
		return nil, false
	}

	var order model.Order
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, false
	}

	return &order, true
}

// SetOrder записывает полный снимок заказа в кэш, перезаписывая существующий ключ.
// Запись выполняется по принципу best effort: ошибка не должна прерывать запрос.
func (c *OrderCache) SetOrder(ctx context.Context, order *model.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}

	if err := c.client.Set(ctx, orderKey(order.ID), data, OrderTTL).Err(); err != nil {
		return fmt.Errorf("set order: %w", err)
	}

	return nil
}

// Ping проверяет доступность Redis.
func (c *OrderCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
