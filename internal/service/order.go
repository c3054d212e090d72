package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mmeshcher/order-service/internal/model"
	"github.com/mmeshcher/order-service/internal/validation"
)

// ErrForbidden возвращается, если заказ принадлежит другому пользователю.
var (
	ErrForbidden = errors.New("not allowed")
	// ErrInvalidStatus возвращается при недопустимом значении статуса заказа.
	ErrInvalidStatus = errors.New("invalid order status")
)

// OrderRepository описывает контракт хранилища заказов.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *model.Order) error
	GetOrderByID(ctx context.Context, orderID string) (*model.Order, error)
	GetOrdersByUser(ctx context.Context, userID int64) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status model.OrderStatus) (*model.Order, error)
}

// OrderCache описывает контракт кэша заказов. Промах и ошибка кэша равнозначны.
type OrderCache interface {
	GetOrder(ctx context.Context, orderID string) (*model.Order, bool)
	SetOrder(ctx context.Context, order *model.Order) error
}

// EventPublisher публикует событие о создании заказа и ждёт подтверждения брокера.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, orderID string) error
}

// OrderService реализует операции над заказами: создание, чтение со сквозным
// кэшированием, смену статуса и выборку по пользователю.
type OrderService struct {
	repo      OrderRepository
	cache     OrderCache
	publisher EventPublisher
	logger    *zap.Logger
}

// NewOrderService создаёт сервис заказов.
func NewOrderService(repo OrderRepository, cache OrderCache, publisher EventPublisher, logger *zap.Logger) *OrderService {
	return &OrderService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
	}
}

// Create создаёт заказ в статусе PENDING, кладёт снимок в кэш и публикует
// событие о создании. Кэш и публикация не входят в атомарность записи:
// при сбое между ними заказ остаётся сохранённым, но незакэшированным
// или неопубликованным.
func (s *OrderService) Create(ctx context.Context, userID int64, items []model.OrderItem, totalPrice float64) (*model.Order, error) {
	if err := validation.ValidateOrder(items, totalPrice); err != nil {
		return nil, err
	}

	order := &model.Order{
		ID:         uuid.NewString(),
		UserID:     userID,
		Items:      items,
		TotalPrice: totalPrice,
		Status:     model.OrderStatusPending,
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	if err := s.cache.SetOrder(ctx, order); err != nil {
		s.logger.Warn("cache order after create", zap.Error(err), zap.String("orderID", order.ID))
	}

	if err := s.publisher.PublishOrderCreated(ctx, order.ID); err != nil {
		// Заказ уже сохранён; компенсация не выполняется.
		return nil, fmt.Errorf("publish order created: %w", err)
	}

	return order, nil
}

// Get возвращает заказ, читая сначала кэш, затем БД. Принадлежность заказа
// проверяется на каждом пути, включая попадание в кэш: снимок хранит
// идентификатор владельца именно для этой проверки.
func (s *OrderService) Get(ctx context.Context, orderID string, requesterID int64) (*model.Order, error) {
	if cached, ok := s.cache.GetOrder(ctx, orderID); ok {
		if cached.UserID != requesterID {
			return nil, ErrForbidden
		}
		return cached, nil
	}

	order, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.UserID != requesterID {
		return nil, ErrForbidden
	}

	if err := s.cache.SetOrder(ctx, order); err != nil {
		s.logger.Warn("cache order after read", zap.Error(err), zap.String("orderID", orderID))
	}

	return order, nil
}

// UpdateStatus заменяет статус заказа на любой допустимый без проверки
// перехода и перезаписывает снимок в кэше. Чтение идёт мимо кэша.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, requesterID int64, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	order, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.UserID != requesterID {
		return nil, ErrForbidden
	}

	updated, err := s.repo.UpdateOrderStatus(ctx, orderID, status)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetOrder(ctx, updated); err != nil {
		s.logger.Warn("cache order after update", zap.Error(err), zap.String("orderID", orderID))
	}

	return updated, nil
}

// ListByUser возвращает все заказы пользователя. Пагинации нет.
func (s *OrderService) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	return s.repo.GetOrdersByUser(ctx, userID)
}
