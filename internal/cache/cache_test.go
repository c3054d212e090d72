package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mmeshcher/order-service/internal/model"
)

func unavailableCache() *OrderCache {
	// Порт 1 закрыт: соединение сразу отклоняется.
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	return NewOrderCache(client)
}

func TestGetOrderUnavailableRedisIsMiss(t *testing.T) {
	c := unavailableCache()

	// Ошибка кэша равнозначна промаху, а не сбою чтения.
	if _, ok := c.GetOrder(context.Background(), "a1b2c3d4-e5f6-7890-abcd-ef1234567890"); ok {
		t.Fatalf("unavailable cache must report a miss")
	}
}

func TestSetOrderUnavailableRedisReturnsError(t *testing.T) {
	c := unavailableCache()

	order := &model.Order{
		ID:     "a1b2c3d4-e5f6-7890-abcd-ef1234567890",
		UserID: 1,
		Items:  []model.OrderItem{{ProductID: "P1", Quantity: 2, Price: 50.0}},
		Status: model.OrderStatusPending,
	}

	if err := c.SetOrder(context.Background(), order); err == nil {
		t.Fatalf("SetOrder must surface the write error to the caller")
	}
}

func TestOrderKey(t *testing.T) {
	got := orderKey("a1b2c3d4-e5f6-7890-abcd-ef1234567890")
	want := "order:a1b2c3d4-e5f6-7890-abcd-ef1234567890"
	if got != want {
		t.Fatalf("orderKey() = %q, want %q", got, want)
	}
}
